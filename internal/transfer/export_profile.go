package transfer

import (
	"context"
	"fmt"

	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
)

// profileExclusions are the tables kept in a profile snapshot. The identity
// tables are filtered row by row; everything else enumerated in the snapshot
// gets dropped wholesale.
var profileExclusions = map[string]bool{
	"key_values":          true,
	"users":               true,
	"user_profiles":       true,
	"learner_assessments": true,
	"learner_summary":     true,
}

func profileExportChain(tempBase, archiveName string) Chain {
	return Chain{
		Operation:   "profile-export",
		FailureCode: CodeExportFailed,
		Steps: []Step{
			stepCreateTempLoc(tempBase),
			stepCopySnapshot(),
			stepPruneSnapshot(),
			stepWriteArchive(archiveName),
		},
	}
}

// stepPruneSnapshot reduces the snapshot to the exported users: drop every
// table outside the exclusion list, keep only the scoped rows of the
// identity tables, and trim the dependent assessment and summary tables in
// the same transaction so they stay consistent with the retained users.
// Running it again over an already pruned snapshot retains the same rows.
func stepPruneSnapshot() Step {
	return Step{
		Name: "prune-snapshot",
		Run: func(_ context.Context, tc *Context) error {
			names, err := tc.Snapshot.TableNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				if profileExclusions[name] {
					continue
				}
				if err := tc.Snapshot.Exec(fmt.Sprintf("drop table if exists %q", name)); err != nil {
					return err
				}
			}

			uids := tc.UserIDs
			return tc.Snapshot.Transaction(func(tx *store.Store) error {
				var users []model.User
				if err := tx.DB().Where("uid IN ?", uids).Find(&users).Error; err != nil {
					return err
				}
				if err := tx.Exec("delete from users"); err != nil {
					return err
				}
				if len(users) > 0 {
					if err := tx.DB().Create(&users).Error; err != nil {
						return err
					}
				}

				var profiles []model.UserProfile
				if err := tx.DB().Where("uid IN ?", uids).Find(&profiles).Error; err != nil {
					return err
				}
				if err := tx.Exec("delete from user_profiles"); err != nil {
					return err
				}
				if len(profiles) > 0 {
					if err := tx.DB().Create(&profiles).Error; err != nil {
						return err
					}
				}

				if err := tx.DB().Where("uid NOT IN ?", uids).Delete(&model.LearnerAssessment{}).Error; err != nil {
					return err
				}
				return tx.DB().Where("uid NOT IN ?", uids).Delete(&model.LearnerSummary{}).Error
			})
		},
	}
}

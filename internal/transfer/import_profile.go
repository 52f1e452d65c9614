package transfer

import (
	"context"
	"fmt"

	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
)

func profileImportChain(tempBase string) Chain {
	return Chain{
		Operation:   "profile-import",
		FailureCode: CodeImportFailed,
		Steps: []Step{
			stepCreateTempLoc(tempBase),
			stepExtractArchive(),
			stepOpenSnapshot(),
			stepMergeProfiles(),
			stepCleanupTemp(),
		},
	}
}

// stepOpenSnapshot opens the database carried by the archive.
func stepOpenSnapshot() Step {
	return Step{
		Name: "open-snapshot",
		Run: func(_ context.Context, tc *Context) error {
			info, err := tc.FS.Stat(tc.SnapshotPath)
			if err != nil || info.IsDir() {
				return fmt.Errorf("archive carries no snapshot database")
			}
			snap, err := tc.Store.OpenExternal(tc.SnapshotPath)
			if err != nil {
				return err
			}
			tc.Snapshot = snap
			return nil
		},
	}
}

// stepMergeProfiles copies the snapshot's identity, assessment and summary
// rows into the live store in one transaction. Users and profiles are
// upserted by uid; assessment rows already present (same uid, content and
// question) are not duplicated on a repeated import.
func stepMergeProfiles() Step {
	return Step{
		Name: "merge-profiles",
		Run: func(ctx context.Context, tc *Context) error {
			var users []model.User
			if err := tc.Snapshot.DB().Find(&users).Error; err != nil {
				return err
			}
			var profiles []model.UserProfile
			if err := tc.Snapshot.DB().Find(&profiles).Error; err != nil {
				return err
			}
			var assessments []model.LearnerAssessment
			if err := tc.Snapshot.DB().Find(&assessments).Error; err != nil {
				return err
			}
			var summaries []model.LearnerSummary
			if err := tc.Snapshot.DB().Find(&summaries).Error; err != nil {
				return err
			}
			if err := tc.Snapshot.Close(); err != nil {
				return err
			}
			tc.Snapshot = nil

			err := tc.Store.Transaction(func(tx *store.Store) error {
				for _, u := range users {
					var existing model.User
					found := tx.DB().Where("uid = ?", u.UID).Limit(1).Find(&existing)
					if found.Error != nil {
						return found.Error
					}
					if found.RowsAffected == 0 {
						if err := tx.DB().Create(&u).Error; err != nil {
							return err
						}
					}
					tc.Imported = append(tc.Imported, u.UID)
				}
				for _, p := range profiles {
					var existing model.UserProfile
					found := tx.DB().Where("uid = ?", p.UID).Limit(1).Find(&existing)
					if found.Error != nil {
						return found.Error
					}
					if found.RowsAffected == 0 {
						if err := tx.DB().Create(&p).Error; err != nil {
							return err
						}
						continue
					}
					err := tx.DB().Model(&model.UserProfile{}).
						Where("uid = ?", p.UID).
						Updates(map[string]any{"profile": p.Profile, "updated_at": p.UpdatedAt}).Error
					if err != nil {
						return err
					}
				}
				for _, a := range assessments {
					var existing model.LearnerAssessment
					found := tx.DB().
						Where("uid = ? AND content_id = ? AND qid = ?", a.UID, a.ContentID, a.QID).
						Limit(1).
						Find(&existing)
					if found.Error != nil {
						return found.Error
					}
					if found.RowsAffected == 0 {
						a.ID = 0
						if err := tx.DB().Create(&a).Error; err != nil {
							return err
						}
					}
				}
				for _, sm := range summaries {
					var existing model.LearnerSummary
					found := tx.DB().
						Where("uid = ? AND content_id = ?", sm.UID, sm.ContentID).
						Limit(1).
						Find(&existing)
					if found.Error != nil {
						return found.Error
					}
					if found.RowsAffected == 0 {
						sm.ID = 0
						if err := tx.DB().Create(&sm).Error; err != nil {
							return err
						}
						continue
					}
					err := tx.DB().Model(&model.LearnerSummary{}).
						Where("uid = ? AND content_id = ?", sm.UID, sm.ContentID).
						Updates(map[string]any{
							"sessions":         sm.Sessions,
							"total_time_spent": sm.TotalTimeSpent,
							"avg_time_spent":   sm.AvgTimeSpent,
						}).Error
					if err != nil {
						return err
					}
				}
				return nil
			})
			return err
		},
	}
}

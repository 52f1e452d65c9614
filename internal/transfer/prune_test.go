package transfer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestPruneSnapshotIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "device.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(model.All()...))

	for _, uid := range []string{"u1", "u2", "u3"} {
		require.NoError(t, st.DB().Create(&model.User{UID: uid, CreatedAt: time.Now()}).Error)
		require.NoError(t, st.DB().Create(&model.LearnerAssessment{UID: uid, ContentID: "c1", QID: "q1"}).Error)
	}

	fs := afero.NewOsFs()
	snapshotPath := filepath.Join(dir, "snapshot.db")
	require.NoError(t, st.CopyTo(fs, snapshotPath))
	snap, err := st.OpenExternal(snapshotPath)
	require.NoError(t, err)
	defer snap.Close()

	tc := &Context{
		FS:           fs,
		UserIDs:      []string{"u2"},
		Snapshot:     snap,
		SnapshotPath: snapshotPath,
	}
	step := stepPruneSnapshot()

	require.NoError(t, step.Run(context.Background(), tc))
	require.NoError(t, step.Run(context.Background(), tc))

	var uids []string
	require.NoError(t, snap.DB().Model(&model.User{}).Pluck("uid", &uids).Error)
	require.Equal(t, []string{"u2"}, uids)

	var assessmentUIDs []string
	require.NoError(t, snap.DB().Model(&model.LearnerAssessment{}).Pluck("uid", &assessmentUIDs).Error)
	require.Equal(t, []string{"u2"}, assessmentUIDs)

	names, err := snap.TableNames()
	require.NoError(t, err)
	require.NotContains(t, names, "content")
	require.Contains(t, names, "key_values")
}

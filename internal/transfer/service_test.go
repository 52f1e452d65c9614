package transfer_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arghyam/sunbird-android-sdk/internal/archive"
	"github.com/arghyam/sunbird-android-sdk/internal/config"
	"github.com/arghyam/sunbird-android-sdk/internal/content"
	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/arghyam/sunbird-android-sdk/internal/transfer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *store.Store
	content  *content.Service
	transfer *transfer.Service
	fs       afero.Fs
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "device.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(model.All()...))

	fs := afero.NewOsFs()
	cfg := config.DefaultConfig()
	cfg.TempDir = filepath.Join(dir, "tmp")
	require.NoError(t, fs.MkdirAll(cfg.TempDir, 0o755))

	cs := content.NewService(st, fs)
	return &fixture{
		store:    st,
		content:  cs,
		transfer: transfer.NewService(st, cs, fs, &cfg, nil),
		fs:       fs,
		dir:      dir,
	}
}

func (f *fixture) seedProfiles(t *testing.T, uids ...string) {
	t.Helper()
	for _, uid := range uids {
		require.NoError(t, f.store.DB().Create(&model.User{UID: uid, CreatedAt: time.Now()}).Error)
		require.NoError(t, f.store.DB().Create(&model.UserProfile{
			UID:     uid,
			Profile: model.JSONMap{"handle": "learner-" + uid},
		}).Error)
		require.NoError(t, f.store.DB().Create(&model.LearnerAssessment{
			UID: uid, ContentID: "c1", QID: "q1", Correct: true, Score: 1,
		}).Error)
		require.NoError(t, f.store.DB().Create(&model.LearnerSummary{
			UID: uid, ContentID: "c1", Sessions: 1, TotalTimeSpent: 10, AvgTimeSpent: 10,
		}).Error)
	}
}

func extractArchive(t *testing.T, fs afero.Fs, archivePath, dir string) *store.Store {
	t.Helper()
	require.NoError(t, archive.Reader{}.Extract(fs, archivePath, dir))
	snap, err := store.Open(filepath.Join(dir, "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })
	return snap
}

func TestProfileExportRetainsOnlyRequestedUsers(t *testing.T) {
	f := newFixture(t)
	f.seedProfiles(t, "u1", "u2", "u3")

	dest := filepath.Join(f.dir, "exp")
	req, err := transfer.NewProfileExportRequest([]string{"u1", "u2"}, dest)
	require.NoError(t, err)

	resp, err := f.transfer.ExportProfile(context.Background(), req)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(resp.ArchivePath, ".epar"))

	snap := extractArchive(t, f.fs, resp.ArchivePath, filepath.Join(f.dir, "unpacked"))

	var uids []string
	require.NoError(t, snap.DB().Model(&model.User{}).Order("uid").Pluck("uid", &uids).Error)
	require.Equal(t, []string{"u1", "u2"}, uids)

	var profileUIDs []string
	require.NoError(t, snap.DB().Model(&model.UserProfile{}).Order("uid").Pluck("uid", &profileUIDs).Error)
	require.Equal(t, []string{"u1", "u2"}, profileUIDs)

	var assessmentUIDs []string
	require.NoError(t, snap.DB().Model(&model.LearnerAssessment{}).Distinct("uid").Order("uid").Pluck("uid", &assessmentUIDs).Error)
	require.Equal(t, []string{"u1", "u2"}, assessmentUIDs)

	var summaryUIDs []string
	require.NoError(t, snap.DB().Model(&model.LearnerSummary{}).Distinct("uid").Order("uid").Pluck("uid", &summaryUIDs).Error)
	require.Equal(t, []string{"u1", "u2"}, summaryUIDs)

	// Non-identity tables are gone from the snapshot.
	names, err := snap.TableNames()
	require.NoError(t, err)
	require.NotContains(t, names, "content")
	require.NotContains(t, names, "dataset_rows")

	// No journal file was packaged with the snapshot.
	entries, err := afero.ReadDir(f.fs, filepath.Join(f.dir, "unpacked"))
	require.NoError(t, err)
	for _, entry := range entries {
		require.NotContains(t, entry.Name(), "-journal")
		require.NotContains(t, entry.Name(), "-wal")
	}
}

func TestProfileExportToleratesUnknownUsers(t *testing.T) {
	f := newFixture(t)
	f.seedProfiles(t, "u1")

	req, err := transfer.NewProfileExportRequest([]string{"u1", "ghost"}, filepath.Join(f.dir, "exp"))
	require.NoError(t, err)

	// The snapshot simply retains nothing for users missing from the store.
	resp, err := f.transfer.ExportProfile(context.Background(), req)
	require.NoError(t, err)

	snap := extractArchive(t, f.fs, resp.ArchivePath, filepath.Join(f.dir, "unpacked"))
	var uids []string
	require.NoError(t, snap.DB().Model(&model.User{}).Pluck("uid", &uids).Error)
	require.Equal(t, []string{"u1"}, uids)
}

func TestProfileRoundTrip(t *testing.T) {
	exporter := newFixture(t)
	exporter.seedProfiles(t, "u1", "u2")

	req, err := transfer.NewProfileExportRequest([]string{"u1", "u2"}, filepath.Join(exporter.dir, "exp"))
	require.NoError(t, err)
	resp, err := exporter.transfer.ExportProfile(context.Background(), req)
	require.NoError(t, err)

	importer := newFixture(t)
	importer.seedProfiles(t, "u1")

	importReq, err := transfer.NewProfileImportRequest(resp.ArchivePath)
	require.NoError(t, err)
	importResp, err := importer.transfer.ImportProfile(context.Background(), importReq)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"u1", "u2"}, importResp.UserIDs)

	var count int64
	require.NoError(t, importer.store.DB().Model(&model.User{}).Count(&count).Error)
	require.EqualValues(t, 2, count)

	// Re-importing the same archive does not duplicate assessment rows.
	_, err = importer.transfer.ImportProfile(context.Background(), importReq)
	require.NoError(t, err)
	require.NoError(t, importer.store.DB().Model(&model.LearnerAssessment{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestContentRoundTrip(t *testing.T) {
	exporter := newFixture(t)
	ctx := context.Background()

	_, err := exporter.content.IngestLocal(ctx, model.JSONMap{
		"identifier":  "c1",
		"mimeType":    "application/vnd.ekstep.ecml-archive",
		"contentType": "Collection",
		"children":    []any{map[string]any{"identifier": "c2"}},
	}, "1.1")
	require.NoError(t, err)
	_, err = exporter.content.IngestLocal(ctx, model.JSONMap{
		"identifier":  "c2",
		"contentType": "Story",
	}, "1.1")
	require.NoError(t, err)
	_, err = exporter.content.IngestLocal(ctx, model.JSONMap{
		"identifier":  "c3",
		"contentType": "Story",
	}, "1.1")
	require.NoError(t, err)

	// Materialize a payload for c1 so export packages it.
	payloadDir := filepath.Join(exporter.dir, "payloads", "c1")
	require.NoError(t, exporter.fs.MkdirAll(payloadDir, 0o755))
	require.NoError(t, afero.WriteFile(exporter.fs, filepath.Join(payloadDir, "index.ecml"), []byte("<content/>"), 0o644))
	_, err = exporter.content.SetPath(ctx, "c1", payloadDir)
	require.NoError(t, err)

	req, err := transfer.NewContentExportRequest([]string{"c1"}, filepath.Join(exporter.dir, "exp"), true)
	require.NoError(t, err)
	resp, err := exporter.transfer.ExportContent(ctx, req)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(resp.ArchivePath, ".ecar"))

	// The snapshot inside the archive keeps c1 and its child only.
	snap := extractArchive(t, exporter.fs, resp.ArchivePath, filepath.Join(exporter.dir, "unpacked"))
	var ids []string
	require.NoError(t, snap.DB().Model(&model.ContentRecord{}).Order("identifier").Pluck("identifier", &ids).Error)
	require.Equal(t, []string{"c1", "c2"}, ids)

	importer := newFixture(t)
	contentRoot := filepath.Join(importer.dir, "content")
	importReq, err := transfer.NewContentImportRequest(resp.ArchivePath, contentRoot, []string{"c1", "c2"}, false)
	require.NoError(t, err)
	importResp, err := importer.transfer.ImportContent(ctx, importReq)
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2"}, importResp.ContentIDs)

	rec, err := importer.content.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(contentRoot, "c1"), rec.Path)
	require.Equal(t, model.ContentStateArtifactAvailable, rec.ContentState)

	payload, err := afero.ReadFile(importer.fs, filepath.Join(contentRoot, "c1", "index.ecml"))
	require.NoError(t, err)
	require.Equal(t, "<content/>", string(payload))
}

func TestContentImportMissingIdentifierFails(t *testing.T) {
	exporter := newFixture(t)
	ctx := context.Background()

	_, err := exporter.content.IngestLocal(ctx, model.JSONMap{"identifier": "c1"}, "1.1")
	require.NoError(t, err)

	req, err := transfer.NewContentExportRequest([]string{"c1"}, filepath.Join(exporter.dir, "exp"), false)
	require.NoError(t, err)
	resp, err := exporter.transfer.ExportContent(ctx, req)
	require.NoError(t, err)

	importer := newFixture(t)
	importReq, err := transfer.NewContentImportRequest(resp.ArchivePath, filepath.Join(importer.dir, "content"), []string{"nope"}, false)
	require.NoError(t, err)

	_, err = importer.transfer.ImportContent(ctx, importReq)
	var te *transfer.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, transfer.CodeImportFailed, te.Code)
	require.Equal(t, "ingest-content", te.Step)
}

func TestContentExportUnknownIdentifierFails(t *testing.T) {
	f := newFixture(t)

	req, err := transfer.NewContentExportRequest([]string{"missing"}, filepath.Join(f.dir, "exp"), false)
	require.NoError(t, err)

	_, err = f.transfer.ExportContent(context.Background(), req)
	var te *transfer.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, transfer.CodeExportFailed, te.Code)
}

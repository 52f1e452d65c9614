package sdk_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arghyam/sunbird-android-sdk/internal/config"
	"github.com/arghyam/sunbird-android-sdk/internal/dataset"
	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/sdk"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/stretchr/testify/require"
)

func TestNewWiresServicesOverOneDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(dir, "device.db")
	cfg.BundledDir = filepath.Join(dir, "bundled")
	cfg.TempDir = dir

	s, err := sdk.New(context.Background(), &cfg, sdk.Fetchers{})
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.Content.IngestServer(context.Background(), model.JSONMap{"identifier": "c1"})
	require.NoError(t, err)
	require.Equal(t, "c1", rec.Identifier)

	// No bundled defaults and no fetcher: a dataset read surfaces the
	// not-found condition instead of blocking.
	_, err = s.Datasets.Read(context.Background(), dataset.OrdinalsName, dataset.OrdinalsKey)
	var noData *store.NoDataFoundError
	require.ErrorAs(t, err, &noData)
}

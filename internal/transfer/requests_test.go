package transfer_test

import (
	"testing"

	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/arghyam/sunbird-android-sdk/internal/transfer"
	"github.com/stretchr/testify/require"
)

func TestContentExportRequestValidation(t *testing.T) {
	var validation *store.ValidationError

	_, err := transfer.NewContentExportRequest([]string{"c1"}, "", false)
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "destinationFolder", validation.Field)

	_, err = transfer.NewContentExportRequest(nil, "/tmp/exp", false)
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "contentIDs", validation.Field)

	_, err = transfer.NewContentExportRequest([]string{"c1"}, "/tmp/exp", true)
	require.NoError(t, err)
}

func TestContentImportRequestValidation(t *testing.T) {
	var validation *store.ValidationError

	_, err := transfer.NewContentImportRequest("", "/content", []string{"c1"}, false)
	require.ErrorAs(t, err, &validation)

	_, err = transfer.NewContentImportRequest("/tmp/a.ecar", "", []string{"c1"}, false)
	require.ErrorAs(t, err, &validation)

	_, err = transfer.NewContentImportRequest("/tmp/a.ecar", "/content", nil, false)
	require.ErrorAs(t, err, &validation)

	_, err = transfer.NewContentImportRequest("/tmp/a.ecar", "/content", []string{"c1"}, true)
	require.NoError(t, err)
}

func TestProfileExportRequestValidation(t *testing.T) {
	var validation *store.ValidationError

	_, err := transfer.NewProfileExportRequest([]string{"u1"}, "")
	require.ErrorAs(t, err, &validation)

	_, err = transfer.NewProfileExportRequest(nil, "/tmp/exp")
	require.ErrorAs(t, err, &validation)

	_, err = transfer.NewProfileExportRequest([]string{"u1", "u2"}, "/tmp/exp")
	require.NoError(t, err)
}

func TestProfileImportRequestValidation(t *testing.T) {
	var validation *store.ValidationError

	_, err := transfer.NewProfileImportRequest("")
	require.ErrorAs(t, err, &validation)

	_, err = transfer.NewProfileImportRequest("/tmp/a.epar")
	require.NoError(t, err)
}

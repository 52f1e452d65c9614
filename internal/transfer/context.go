package transfer

import (
	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/spf13/afero"
)

// Context is the shared mutable state of one pipeline run. Steps read and
// write it in chain order; it accumulates the artifacts later steps need
// (temp directory, snapshot handle, files written).
type Context struct {
	Store *store.Store
	FS    afero.Fs

	// Request scope.
	ContentIDs        []string
	UserIDs           []string
	IncludeChildren   bool
	IsChildContent    bool
	SourceArchive     string
	DestinationFolder string

	// Accumulated by steps.
	TempDir         string
	SnapshotPath    string
	Snapshot        *store.Store
	ExtractDir      string
	Manifest        []model.JSONMap
	ManifestVersion string
	ArchivePath     string
	Imported        []string

	// Visited records executed step names in order.
	Visited []string
}

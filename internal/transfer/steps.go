package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arghyam/sunbird-android-sdk/internal/archive"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const snapshotFile = "snapshot.db"

// stepCreateTempLoc makes a fresh working directory for the run under base.
// Re-running against an existing directory is harmless.
func stepCreateTempLoc(base string) Step {
	return Step{
		Name: "create-temp-loc",
		Run: func(_ context.Context, tc *Context) error {
			tc.TempDir = filepath.Join(base, uuid.NewString())
			if err := tc.FS.MkdirAll(tc.TempDir, 0o755); err != nil {
				return fmt.Errorf("create temp location: %w", err)
			}
			return nil
		},
	}
}

// stepCopySnapshot copies the live database into the temp location and opens
// the copy as a second store for the later pruning/filtering steps.
func stepCopySnapshot() Step {
	return Step{
		Name: "copy-snapshot",
		Run: func(_ context.Context, tc *Context) error {
			tc.SnapshotPath = filepath.Join(tc.TempDir, snapshotFile)
			if err := tc.Store.CopyTo(tc.FS, tc.SnapshotPath); err != nil {
				return err
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

// stepWriteArchive closes the snapshot, removes its journal files and packs
// the temp location into the destination archive. A dangling journal would
// make the snapshot unrecoverable when opened on another device.
func stepWriteArchive(name string) Step {
	return Step{
		Name:     "write-archive",
		Terminal: true,
		Run: func(_ context.Context, tc *Context) error {
			if tc.Snapshot != nil {
				if err := tc.Snapshot.Close(); err != nil {
					return fmt.Errorf("close snapshot: %w", err)
				}
				tc.Snapshot = nil
			}
			if err := removeJournal(tc.FS, tc.SnapshotPath); err != nil {
				return err
			}
			if err := tc.FS.MkdirAll(tc.DestinationFolder, 0o755); err != nil {
				return fmt.Errorf("create destination folder: %w", err)
			}
			tc.ArchivePath = filepath.Join(tc.DestinationFolder, name)
			return archive.Writer{}.Write(tc.FS, tc.TempDir, tc.ArchivePath)
		},
	}
}

// stepExtractArchive unpacks the source archive into the temp location.
func stepExtractArchive() Step {
	return Step{
		Name: "extract-archive",
		Run: func(_ context.Context, tc *Context) error {
			tc.ExtractDir = filepath.Join(tc.TempDir, "extracted")
			if err := (archive.Reader{}).Extract(tc.FS, tc.SourceArchive, tc.ExtractDir); err != nil {
				return err
			}
			tc.SnapshotPath = filepath.Join(tc.ExtractDir, snapshotFile)
			return nil
		},
	}
}

// stepCleanupTemp removes the run's working directory. Cleanup is an
// explicit chain step, not an automatic rollback: it only runs when every
// earlier step succeeded, and a failed run leaves the directory behind for
// inspection.
func stepCleanupTemp() Step {
	return Step{
		Name:     "cleanup-temp",
		Terminal: true,
		Run: func(_ context.Context, tc *Context) error {
			if tc.TempDir == "" {
				return nil
			}
			return tc.FS.RemoveAll(tc.TempDir)
		},
	}
}

func removeJournal(fs afero.Fs, snapshotPath string) error {
	if snapshotPath == "" {
		return nil
	}
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		err := fs.Remove(snapshotPath + suffix)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove journal file: %w", err)
		}
	}
	return nil
}

// copyTree copies the directory at src below dst, preserving layout.
func copyTree(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		return afero.WriteFile(fs, target, data, 0o644)
	})
}

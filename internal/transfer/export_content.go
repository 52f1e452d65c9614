package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/arghyam/sunbird-android-sdk/internal/content"
	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/spf13/afero"
)

const (
	manifestFile    = "manifest.json"
	manifestVersion = "1.0"
	contentTreeDir  = "content"
)

// contentSnapshotTables are the only tables a content archive ships.
var contentSnapshotTables = map[string]bool{
	"content":    true,
	"key_values": true,
}

func contentExportChain(cs *content.Service, tempBase, archiveName string) Chain {
	return Chain{
		Operation:   "content-export",
		FailureCode: CodeExportFailed,
		Steps: []Step{
			stepCreateTempLoc(tempBase),
			stepCopySnapshot(),
			stepFilterContentSnapshot(cs),
			stepWriteArchive(archiveName),
		},
	}
}

// stepFilterContentSnapshot restricts the snapshot to the export scope:
// non-content tables are dropped, the scope is expanded over children and
// prerequisites when requested, out-of-scope content rows are deleted, the
// manifest is written and each in-scope payload directory is copied into the
// temp location.
func stepFilterContentSnapshot(cs *content.Service) Step {
	return Step{
		Name: "filter-snapshot",
		Run: func(ctx context.Context, tc *Context) error {
			records, err := resolveScope(ctx, cs, tc.ContentIDs, tc.IncludeChildren)
			if err != nil {
				return err
			}

			names, err := tc.Snapshot.TableNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				if contentSnapshotTables[name] {
					continue
				}
				if err := tc.Snapshot.Exec(fmt.Sprintf("drop table if exists %q", name)); err != nil {
					return err
				}
			}

			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec.Identifier)
			}
			err = tc.Snapshot.DB().
				Where("identifier NOT IN ?", ids).
				Delete(&model.ContentRecord{}).Error
			if err != nil {
				return err
			}

			if err := writeManifest(tc.FS, tc.TempDir, records); err != nil {
				return err
			}
			for _, rec := range records {
				if rec.Path == "" {
					continue
				}
				dst := filepath.Join(tc.TempDir, contentTreeDir, rec.Identifier)
				if err := copyTree(tc.FS, rec.Path, dst); err != nil {
					return fmt.Errorf("copy payload %s: %w", rec.Identifier, err)
				}
			}
			return nil
		},
	}
}

// resolveScope loads the requested records and, when asked, walks their
// children and prerequisites breadth first. Every requested identifier must
// exist; referenced children that were never cached are skipped.
func resolveScope(ctx context.Context, cs *content.Service, contentIDs []string, includeChildren bool) ([]*model.ContentRecord, error) {
	var records []*model.ContentRecord
	seen := make(map[string]bool)
	queue := append([]string(nil), contentIDs...)
	requested := make(map[string]bool, len(contentIDs))
	for _, id := range contentIDs {
		requested[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true

		rec, err := cs.Get(ctx, id)
		if err != nil {
			if requested[id] {
				return nil, err
			}
			continue
		}
		records = append(records, rec)
		if includeChildren {
			queue = append(queue, rec.ChildIdentifiers()...)
			queue = append(queue, rec.PreRequisiteIdentifiers()...)
		}
	}
	return records, nil
}

func writeManifest(fs afero.Fs, dir string, records []*model.ContentRecord) error {
	items := make([]model.JSONMap, 0, len(records))
	for _, rec := range records {
		item := rec.LocalData
		if item == nil {
			item = rec.ServerData
		}
		items = append(items, item)
	}
	manifest := map[string]any{
		"ver": manifestVersion,
		"archive": map[string]any{
			"count": len(items),
			"items": items,
		},
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(dir, manifestFile), raw, 0o644)
}

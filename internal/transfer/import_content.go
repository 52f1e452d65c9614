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

func contentImportChain(cs *content.Service, tempBase string) Chain {
	return Chain{
		Operation:   "content-import",
		FailureCode: CodeImportFailed,
		Steps: []Step{
			stepCreateTempLoc(tempBase),
			stepExtractArchive(),
			stepParseManifest(),
			stepIngestContent(cs),
			stepDeployPayloads(cs),
			stepCleanupTemp(),
		},
	}
}

// stepParseManifest reads the archive manifest and keeps its item list on
// the context for the ingestion step.
func stepParseManifest() Step {
	return Step{
		Name: "parse-manifest",
		Run: func(_ context.Context, tc *Context) error {
			raw, err := afero.ReadFile(tc.FS, filepath.Join(tc.ExtractDir, manifestFile))
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			var manifest struct {
				Ver     string `json:"ver"`
				Archive struct {
					Items []model.JSONMap `json:"items"`
				} `json:"archive"`
			}
			if err := json.Unmarshal(raw, &manifest); err != nil {
				return fmt.Errorf("parse manifest: %w", err)
			}
			tc.ManifestVersion = manifest.Ver
			tc.Manifest = manifest.Archive.Items
			return nil
		},
	}
}

// stepIngestContent hydrates the requested identifiers from the manifest.
// Every requested identifier must be present in the archive. Children
// imported through a parent request default to private visibility when the
// manifest leaves it unset.
func stepIngestContent(cs *content.Service) Step {
	return Step{
		Name: "ingest-content",
		Run: func(ctx context.Context, tc *Context) error {
			byID := make(map[string]model.JSONMap, len(tc.Manifest))
			for _, item := range tc.Manifest {
				if id, _ := item[model.KeyIdentifier].(string); id != "" {
					byID[id] = item
				}
			}
			for _, id := range tc.ContentIDs {
				item, ok := byID[id]
				if !ok {
					return fmt.Errorf("content %s not present in archive", id)
				}
				if tc.IsChildContent {
					if v, _ := item[model.KeyVisibility].(string); v == "" {
						item[model.KeyVisibility] = model.VisibilityPrivate
					}
				}
				if _, err := cs.IngestLocal(ctx, item, tc.ManifestVersion); err != nil {
					return err
				}
				tc.Imported = append(tc.Imported, id)
			}
			return nil
		},
	}
}

// stepDeployPayloads moves the imported payload directories into the content
// root and records each record's materialized path.
func stepDeployPayloads(cs *content.Service) Step {
	return Step{
		Name: "deploy-payloads",
		Run: func(ctx context.Context, tc *Context) error {
			for _, id := range tc.Imported {
				src := filepath.Join(tc.ExtractDir, contentTreeDir, id)
				exists, err := afero.DirExists(tc.FS, src)
				if err != nil {
					return err
				}
				if !exists {
					continue
				}
				dst := filepath.Join(tc.DestinationFolder, id)
				if err := copyTree(tc.FS, src, dst); err != nil {
					return fmt.Errorf("deploy payload %s: %w", id, err)
				}
				if _, err := cs.SetPath(ctx, id, dst); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

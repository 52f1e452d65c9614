// Package transfer provides the export/import sub-commands.
package transfer

import (
	"context"

	"github.com/arghyam/sunbird-android-sdk/internal/config"
	"github.com/arghyam/sunbird-android-sdk/internal/sdk"
	"github.com/arghyam/sunbird-android-sdk/internal/transfer"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Sources: cli.EnvVars("SUNBIRD_DB_PATH"),
		Usage:   "Path to the device database file",
		Value:   "sunbird.db",
	}
}

func openSDK(ctx context.Context, cmd *cli.Command) (*sdk.SDK, error) {
	cfg := config.DefaultConfig()
	cfg.DBPath = cmd.String("db")
	if dir := cmd.String("temp-dir"); dir != "" {
		cfg.TempDir = dir
	}
	return sdk.New(ctx, &cfg, sdk.Fetchers{})
}

// Command returns the transfer sub-command tree.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Export and import content and profiles",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:    "temp-dir",
				Sources: cli.EnvVars("SUNBIRD_TEMP_DIR"),
				Usage:   "Working directory for export/import snapshots",
			},
		},
		Commands: []*cli.Command{
			exportContentCommand(),
			importContentCommand(),
			exportProfileCommand(),
			importProfileCommand(),
		},
	}
}

func exportContentCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-content",
		Usage: "Package cached content into a portable archive",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "id", Usage: "Content identifier to export (repeatable)"},
			&cli.StringFlag{Name: "dest", Usage: "Destination folder for the archive"},
			&cli.BoolFlag{Name: "include-children", Usage: "Also export children and prerequisites"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := transfer.NewContentExportRequest(cmd.StringSlice("id"), cmd.String("dest"), cmd.Bool("include-children"))
			if err != nil {
				return err
			}
			s, err := openSDK(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			resp, err := s.Transfer.ExportContent(ctx, req)
			if err != nil {
				return err
			}
			log.Info("content exported", "archive", resp.ArchivePath, "count", len(resp.ContentIDs))
			return nil
		},
	}
}

func importContentCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-content",
		Usage: "Restore content from an archive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "Archive file to import"},
			&cli.StringFlag{Name: "dest", Usage: "Content root to materialize payloads under"},
			&cli.StringSliceFlag{Name: "id", Usage: "Content identifier to import (repeatable)"},
			&cli.BoolFlag{Name: "child-content", Usage: "Treat the identifiers as children of an already imported parent"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := transfer.NewContentImportRequest(cmd.String("source"), cmd.String("dest"), cmd.StringSlice("id"), cmd.Bool("child-content"))
			if err != nil {
				return err
			}
			s, err := openSDK(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			resp, err := s.Transfer.ImportContent(ctx, req)
			if err != nil {
				return err
			}
			log.Info("content imported", "count", len(resp.ContentIDs))
			return nil
		},
	}
}

func exportProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-profile",
		Usage: "Package learner profiles into a portable archive",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "user", Usage: "User id to export (repeatable)"},
			&cli.StringFlag{Name: "dest", Usage: "Destination folder for the archive"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := transfer.NewProfileExportRequest(cmd.StringSlice("user"), cmd.String("dest"))
			if err != nil {
				return err
			}
			s, err := openSDK(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			resp, err := s.Transfer.ExportProfile(ctx, req)
			if err != nil {
				return err
			}
			log.Info("profiles exported", "archive", resp.ArchivePath, "count", len(resp.UserIDs))
			return nil
		},
	}
}

func importProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-profile",
		Usage: "Restore learner profiles from an archive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "Archive file to import"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := transfer.NewProfileImportRequest(cmd.String("source"))
			if err != nil {
				return err
			}
			s, err := openSDK(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			resp, err := s.Transfer.ImportProfile(ctx, req)
			if err != nil {
				return err
			}
			log.Info("profiles imported", "count", len(resp.UserIDs))
			return nil
		},
	}
}

// Package datasets provides the reference-data sub-commands.
package datasets

import (
	"context"
	"fmt"

	"github.com/arghyam/sunbird-android-sdk/internal/config"
	"github.com/arghyam/sunbird-android-sdk/internal/dataset"
	"github.com/arghyam/sunbird-android-sdk/internal/sdk"
	"github.com/urfave/cli/v3"
)

// Command returns the datasets sub-command tree.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "datasets",
		Usage: "Read the TTL-refreshed reference datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Sources: cli.EnvVars("SUNBIRD_DB_PATH"),
				Usage:   "Path to the device database file",
				Value:   "sunbird.db",
			},
			&cli.StringFlag{
				Name:    "bundled-dir",
				Sources: cli.EnvVars("SUNBIRD_BUNDLED_DIR"),
				Usage:   "Directory holding the packaged default snapshots",
				Value:   "data",
			},
		},
		Commands: []*cli.Command{
			readCommand(),
		},
	}
}

func readCommand() *cli.Command {
	return &cli.Command{
		Name:  "read",
		Usage: "Read one key of a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Usage: "Dataset name (master_data|resource_bundle|ordinals)", Required: true},
			&cli.StringFlag{Name: "key", Usage: "Row key (category, locale, or " + dataset.OrdinalsKey + ")", Value: dataset.OrdinalsKey},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.DefaultConfig()
			cfg.DBPath = cmd.String("db")
			cfg.BundledDir = cmd.String("bundled-dir")
			s, err := sdk.New(ctx, &cfg, sdk.Fetchers{})
			if err != nil {
				return err
			}
			defer s.Close()

			value, err := s.Datasets.Read(ctx, cmd.String("dataset"), cmd.String("key"))
			if err != nil {
				return err
			}
			fmt.Println(string(value))
			return nil
		},
	}
}

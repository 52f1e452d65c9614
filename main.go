package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arghyam/sunbird-android-sdk/internal/cmd/datasets"
	"github.com/arghyam/sunbird-android-sdk/internal/cmd/transfer"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "sunbird-sdk",
		Usage: "On-device content and profile lifecycle manager",
		Commands: []*cli.Command{
			transfer.Command(),
			datasets.Command(),
		},
	}
	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

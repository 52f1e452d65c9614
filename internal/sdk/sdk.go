// Package sdk wires the on-device services together: one store, one
// background runner, and the content, dataset and transfer services on top.
package sdk

import (
	"context"

	"github.com/arghyam/sunbird-android-sdk/internal/config"
	"github.com/arghyam/sunbird-android-sdk/internal/content"
	"github.com/arghyam/sunbird-android-sdk/internal/dataset"
	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/arghyam/sunbird-android-sdk/internal/tasks"
	"github.com/arghyam/sunbird-android-sdk/internal/transfer"
	"github.com/spf13/afero"
)

// Fetchers carries the live sources for the reference datasets. Nil entries
// leave the corresponding dataset serving its bundled default and persisted
// rows without live refreshes.
type Fetchers struct {
	MasterData      dataset.Fetcher
	ResourceBundles dataset.Fetcher
	Ordinals        dataset.Fetcher
}

// SDK bundles the services over one open database.
type SDK struct {
	Config   *config.Config
	Store    *store.Store
	Runner   *tasks.Runner
	Content  *content.Service
	Datasets *dataset.Engine
	Transfer *transfer.Service
}

// New opens the database, migrates the schema and starts the background
// runner. The caller owns the SDK and must Close it.
func New(ctx context.Context, cfg *config.Config, fetchers Fetchers) (*SDK, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(model.All()...); err != nil {
		st.Close()
		return nil, err
	}

	fs := afero.NewOsFs()
	runner := tasks.NewRunner(cfg.TaskWorkers, cfg.TaskQueueSize)
	runner.Start(ctx)

	cs := content.NewService(st, fs)
	engine, err := dataset.NewEngine(st, fs, runner, cfg.BundledDir)
	if err != nil {
		runner.Close()
		st.Close()
		return nil, err
	}
	engine.Register(dataset.MasterData(fetchers.MasterData))
	engine.Register(dataset.ResourceBundles(fetchers.ResourceBundles))
	engine.Register(dataset.Ordinals(fetchers.Ordinals))

	return &SDK{
		Config:   cfg,
		Store:    st,
		Runner:   runner,
		Content:  cs,
		Datasets: engine,
		Transfer: transfer.NewService(st, cs, fs, cfg, runner),
	}, nil
}

// Close drains the background runner and closes the database.
func (s *SDK) Close() error {
	s.Runner.Close()
	return s.Store.Close()
}

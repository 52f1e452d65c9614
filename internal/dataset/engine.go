// Package dataset implements the TTL-gated refresh engine for the three
// reference datasets (master data, resource bundles, ordinals). The engine
// is written once and parameterized per dataset: reads always serve the last
// persisted value immediately, a passed expiry fires a background refresh,
// and refresh failures are dropped in favor of the stale copy.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arghyam/sunbird-android-sdk/internal/metrics"
	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/arghyam/sunbird-android-sdk/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/spf13/afero"
)

const millisPerHour = 3_600_000

// Fetcher retrieves the live payload for one dataset. The response is the
// whole wire object; the engine reads under its "result" key.
type Fetcher interface {
	Get(ctx context.Context) (map[string]any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) (map[string]any, error)

func (f FetcherFunc) Get(ctx context.Context) (map[string]any, error) { return f(ctx) }

// Definition parameterizes the engine for one dataset.
type Definition struct {
	// Name is the dataset name; it also derives the expiry key.
	Name string
	// BundledFile is the packaged default snapshot, relative to the
	// bundled-defaults directory. Optional.
	BundledFile string
	// WrapperKey, when set, unwraps the payload body from result[WrapperKey]
	// instead of using the result object directly.
	WrapperKey string
	// SingleRowKey, when set, persists the whole body as one row under this
	// key instead of one row per body entry.
	SingleRowKey string
	// Fetch is the live source. Nil disables refreshes for this dataset.
	Fetch Fetcher
}

// ExpiryKey returns the key_values key holding the dataset's expiry.
func (d Definition) ExpiryKey() string { return d.Name + "_api_expiration" }

// Engine serves persisted dataset rows and keeps them fresh on a TTL.
type Engine struct {
	store      *store.Store
	fs         afero.Fs
	runner     tasks.Submitter
	bundledDir string
	cache      *ristretto.Cache[string, string]
	now        func() time.Time
	defs       map[string]Definition
}

// NewEngine creates the engine. The runner receives background refreshes;
// a nil runner disables them (reads still serve persisted data).
func NewEngine(st *store.Store, fs afero.Fs, runner tasks.Submitter, bundledDir string) (*Engine, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1 << 14,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create dataset cache: %w", err)
	}
	return &Engine{
		store:      st,
		fs:         fs,
		runner:     runner,
		bundledDir: bundledDir,
		cache:      cache,
		now:        time.Now,
		defs:       make(map[string]Definition),
	}, nil
}

// Register adds a dataset definition to the engine.
func (e *Engine) Register(def Definition) {
	e.defs[def.Name] = def
}

// Read returns the persisted value for one key of a dataset. A missing
// expiry triggers a synchronous seed from the bundled default plus an async
// refresh; a passed expiry triggers one async refresh. In both cases the
// currently persisted value (possibly stale) is returned immediately.
func (e *Engine) Read(ctx context.Context, dataset, key string) (json.RawMessage, error) {
	def, ok := e.defs[dataset]
	if !ok {
		return nil, &store.NoDataFoundError{Resource: "dataset", Key: dataset}
	}

	expiry, err := e.expiry(ctx, def)
	if err != nil {
		return nil, err
	}
	if expiry == 0 {
		seeded, err := e.hasRows(ctx, def)
		if err != nil {
			return nil, err
		}
		if !seeded {
			e.seed(ctx, def)
		}
		e.triggerRefresh(def)
	} else if e.now().UnixMilli() > expiry {
		e.triggerRefresh(def)
	}

	cacheKey := dataset + "/" + key
	if v, ok := e.cache.Get(cacheKey); ok {
		return json.RawMessage(v), nil
	}

	var row model.DatasetRow
	result := e.store.DB().WithContext(ctx).
		Where("dataset = ? AND key = ?", dataset, key).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return nil, &store.DBError{Op: "read dataset", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &store.NoDataFoundError{Resource: "dataset " + dataset, Key: key}
	}
	e.cache.Set(cacheKey, row.Value, int64(len(row.Value)))
	return json.RawMessage(row.Value), nil
}

func (e *Engine) expiry(ctx context.Context, def Definition) (int64, error) {
	var kv model.KeyValue
	result := e.store.DB().WithContext(ctx).
		Where("key = ?", def.ExpiryKey()).
		Limit(1).
		Find(&kv)
	if result.Error != nil {
		return 0, &store.DBError{Op: "read expiry", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}
	millis, err := strconv.ParseInt(kv.Value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return millis, nil
}

// hasRows reports whether any row for the dataset has ever been persisted.
// The bundled seed runs only while there are none.
func (e *Engine) hasRows(ctx context.Context, def Definition) (bool, error) {
	var count int64
	err := e.store.DB().WithContext(ctx).
		Model(&model.DatasetRow{}).
		Where("dataset = ?", def.Name).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, &store.DBError{Op: "read dataset", Err: err}
	}
	return count > 0, nil
}

// seed loads the packaged default snapshot and persists it without an
// expiry, so the very first read has something to serve before the live
// refresh lands.
func (e *Engine) seed(ctx context.Context, def Definition) {
	if def.BundledFile == "" {
		return
	}
	raw, err := afero.ReadFile(e.fs, filepath.Join(e.bundledDir, def.BundledFile))
	if err != nil {
		log.Warn("bundled dataset default missing", "dataset", def.Name, "err", err)
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("bundled dataset default unreadable", "dataset", def.Name, "err", err)
		return
	}
	if err := e.persist(ctx, def, payload, false); err != nil {
		log.Warn("seeding dataset failed", "dataset", def.Name, "err", err)
	}
}

// triggerRefresh submits one background refresh. Failures are logged and
// dropped; the previously persisted value keeps serving reads and the next
// read after expiry retries.
func (e *Engine) triggerRefresh(def Definition) {
	if def.Fetch == nil || e.runner == nil {
		return
	}
	e.runner.Submit("refresh-"+def.Name, func(ctx context.Context) {
		payload, err := def.Fetch.Get(ctx)
		if err != nil {
			metrics.DatasetRefreshes.WithLabelValues(def.Name, "failure").Inc()
			log.Warn("dataset refresh failed, keeping stale copy", "dataset", def.Name, "err", err)
			return
		}
		if err := e.persist(ctx, def, payload, true); err != nil {
			metrics.DatasetRefreshes.WithLabelValues(def.Name, "failure").Inc()
			log.Warn("dataset refresh persist failed", "dataset", def.Name, "err", err)
			return
		}
		metrics.DatasetRefreshes.WithLabelValues(def.Name, "success").Inc()
	})
}

// persist upserts the payload's sub-entries row by row inside one
// transaction. Keys absent from the payload are left untouched.
func (e *Engine) persist(ctx context.Context, def Definition, payload map[string]any, withExpiry bool) error {
	result, ok := payload["result"].(map[string]any)
	if !ok {
		return fmt.Errorf("dataset %s: payload has no result object", def.Name)
	}

	var expiry int64
	if withExpiry {
		ttl, ok := result["ttl"].(float64)
		if !ok {
			return fmt.Errorf("dataset %s: result has no ttl", def.Name)
		}
		expiry = e.now().UnixMilli() + int64(ttl*millisPerHour)
	}

	body := result
	if def.WrapperKey != "" {
		body, ok = result[def.WrapperKey].(map[string]any)
		if !ok {
			return fmt.Errorf("dataset %s: result has no %q object", def.Name, def.WrapperKey)
		}
	}

	rows := make(map[string]string)
	if def.SingleRowKey != "" {
		value, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rows[def.SingleRowKey] = string(value)
	} else {
		for key, entry := range body {
			if key == "ttl" {
				continue
			}
			value, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			rows[key] = string(value)
		}
	}

	err := e.store.Transaction(func(tx *store.Store) error {
		for key, value := range rows {
			var existing model.DatasetRow
			found := tx.DB().Where("dataset = ? AND key = ?", def.Name, key).
				Limit(1).
				Find(&existing)
			if found.Error != nil {
				return found.Error
			}
			if found.RowsAffected == 0 {
				row := model.DatasetRow{Dataset: def.Name, Key: key, Value: value, UpdatedAt: e.now()}
				if err := tx.DB().Create(&row).Error; err != nil {
					return err
				}
			} else {
				err := tx.DB().Model(&model.DatasetRow{}).
					Where("dataset = ? AND key = ?", def.Name, key).
					Updates(map[string]any{"value": value, "updated_at": e.now()}).Error
				if err != nil {
					return err
				}
			}
		}
		if withExpiry {
			return saveKeyValue(tx, def.ExpiryKey(), strconv.FormatInt(expiry, 10))
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Drop stale cache entries for the keys just written.
	for key := range rows {
		e.cache.Del(def.Name + "/" + key)
	}
	return nil
}

func saveKeyValue(tx *store.Store, key, value string) error {
	var existing model.KeyValue
	found := tx.DB().Where("key = ?", key).Limit(1).Find(&existing)
	if found.Error != nil {
		return found.Error
	}
	if found.RowsAffected == 0 {
		return tx.DB().Create(&model.KeyValue{Key: key, Value: value}).Error
	}
	return tx.DB().Model(&model.KeyValue{}).Where("key = ?", key).
		Update("value", value).Error
}

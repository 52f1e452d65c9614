// Package content owns the content record lifecycle: ingestion from the
// remote catalog or a locally extracted package, the server/local payload
// split, reference counting, and path materialization.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/arghyam/sunbird-android-sdk/internal/model"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/spf13/afero"
)

// ISO timestamp format used for the last-updated columns.
const timePattern = "2006-01-02T15:04:05.000-0700"

// Service provides content record operations over the on-device store.
type Service struct {
	store *store.Store
	fs    afero.Fs
	now   func() time.Time
}

// NewService creates a content service.
func NewService(st *store.Store, fs afero.Fs) *Service {
	return &Service{store: st, fs: fs, now: time.Now}
}

// Get reads a content record by identifier.
func (s *Service) Get(ctx context.Context, identifier string) (*model.ContentRecord, error) {
	var rec model.ContentRecord
	result := s.store.DB().WithContext(ctx).
		Where("identifier = ?", identifier).
		Limit(1).
		Find(&rec)
	if result.Error != nil {
		return nil, &store.DBError{Op: "read content", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &store.NoDataFoundError{Resource: "content", Key: identifier}
	}
	return &rec, nil
}

// IngestServer hydrates a record from a remote catalog payload. The payload
// becomes the record's serverData; localData is left untouched.
func (s *Service) IngestServer(ctx context.Context, data model.JSONMap) (*model.ContentRecord, error) {
	return s.ingest(ctx, data, "", false)
}

// IngestLocal hydrates a record from a locally extracted package manifest.
// The payload becomes the record's localData. A subsequent local ingestion
// of an existing record attaches a new reference (refCount increment) and
// moves the record to the artifact-available state.
func (s *Service) IngestLocal(ctx context.Context, data model.JSONMap, manifestVersion string) (*model.ContentRecord, error) {
	return s.ingest(ctx, data, manifestVersion, true)
}

func (s *Service) ingest(ctx context.Context, data model.JSONMap, manifestVersion string, isLocal bool) (*model.ContentRecord, error) {
	if data == nil {
		return nil, &store.ValidationError{Field: "data", Message: "payload required"}
	}
	identifier, _ := data[model.KeyIdentifier].(string)
	if identifier == "" {
		return nil, &store.ValidationError{Field: model.KeyIdentifier, Message: "identifier required"}
	}

	mimeType, _ := data[model.KeyMimeType].(string)
	contentType, _ := data[model.KeyContentType].(string)
	contentType = strings.ToLower(contentType)
	visibility, _ := data[model.KeyVisibility].(string)
	if visibility == "" {
		visibility = model.VisibilityDefault
	}

	var rec model.ContentRecord
	result := s.store.DB().WithContext(ctx).
		Where("identifier = ?", identifier).
		Limit(1).
		Find(&rec)
	if result.Error != nil {
		return nil, &store.DBError{Op: "read content", Err: result.Error}
	}

	if result.RowsAffected == 0 {
		rec = model.ContentRecord{
			Identifier:  identifier,
			MimeType:    mimeType,
			ContentType: contentType,
			Visibility:  visibility,
			RefCount:    1,
		}
		if isLocal {
			rec.LocalData = data
			rec.ManifestVersion = manifestVersion
			rec.ContentState = model.ContentStateArtifactAvailable
			rec.LocalLastUpdatedOn = s.localLastUpdated(&rec)
		} else {
			rec.ServerData = data
			rec.ContentState = model.ContentStateOnlySpine
		}
		if err := s.store.DB().WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, &store.DBError{Op: "create content", Err: err}
		}
		return &rec, nil
	}

	if mimeType != "" {
		rec.MimeType = mimeType
	}
	if contentType != "" {
		rec.ContentType = contentType
	}
	rec.Visibility = visibility
	if isLocal {
		rec.LocalData = data
		rec.ManifestVersion = manifestVersion
		rec.ContentState = model.ContentStateArtifactAvailable
		rec.RefCount++
		rec.LocalLastUpdatedOn = s.localLastUpdated(&rec)
	} else {
		rec.ServerData = data
	}
	if err := s.store.DB().WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, &store.DBError{Op: "update content", Err: err}
	}
	return &rec, nil
}

// Retain attaches a new reference to the record and returns the new count.
func (s *Service) Retain(ctx context.Context, identifier string) (int, error) {
	return s.adjustRefCount(ctx, identifier, +1)
}

// Release detaches a reference. The stored count never goes below zero; a
// record at zero is eligible for reclamation by the storage owner.
func (s *Service) Release(ctx context.Context, identifier string) (int, error) {
	return s.adjustRefCount(ctx, identifier, -1)
}

func (s *Service) adjustRefCount(ctx context.Context, identifier string, delta int) (int, error) {
	rec, err := s.Get(ctx, identifier)
	if err != nil {
		return 0, err
	}
	rec.RefCount += delta
	if rec.RefCount < 0 {
		rec.RefCount = 0
	}
	if err := s.store.DB().WithContext(ctx).Save(rec).Error; err != nil {
		return 0, &store.DBError{Op: "update content", Err: err}
	}
	return rec.RefCount, nil
}

// SetPath records where the content payload is materialized. For content
// extracted from a distribution archive the local last-updated timestamp is
// taken from the on-disk modification time.
func (s *Service) SetPath(ctx context.Context, identifier, path string) (*model.ContentRecord, error) {
	rec, err := s.Get(ctx, identifier)
	if err != nil {
		return nil, err
	}
	rec.Path = path
	rec.LocalLastUpdatedOn = s.localLastUpdated(rec)
	if err := s.store.DB().WithContext(ctx).Save(rec).Error; err != nil {
		return nil, &store.DBError{Op: "update content", Err: err}
	}
	return rec, nil
}

func (s *Service) localLastUpdated(rec *model.ContentRecord) string {
	if rec.IsExternal() {
		if info, err := s.fs.Stat(rec.Path); err == nil {
			return info.ModTime().Format(timePattern)
		}
	}
	if rec.LocalData != nil {
		return s.now().Format(timePattern)
	}
	return rec.LocalLastUpdatedOn
}

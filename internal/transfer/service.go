package transfer

import (
	"context"
	"fmt"

	"github.com/arghyam/sunbird-android-sdk/internal/config"
	"github.com/arghyam/sunbird-android-sdk/internal/content"
	"github.com/arghyam/sunbird-android-sdk/internal/store"
	"github.com/arghyam/sunbird-android-sdk/internal/tasks"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Service assembles and runs the export/import pipelines. Two operations
// sharing a destination folder must not run concurrently; the service does
// not serialize them.
type Service struct {
	store   *store.Store
	content *content.Service
	fs      afero.Fs
	cfg     *config.Config
	runner  tasks.Submitter
}

// NewService creates the transfer service. The runner receives async runs;
// a nil runner leaves only the synchronous entry points usable.
func NewService(st *store.Store, cs *content.Service, fs afero.Fs, cfg *config.Config, runner tasks.Submitter) *Service {
	return &Service{store: st, content: cs, fs: fs, cfg: cfg, runner: runner}
}

// ContentExportResponse is the success payload of a content export.
type ContentExportResponse struct {
	ArchivePath string
	ContentIDs  []string
}

// ContentImportResponse is the success payload of a content import.
type ContentImportResponse struct {
	ContentIDs []string
}

// ProfileExportResponse is the success payload of a profile export.
type ProfileExportResponse struct {
	ArchivePath string
	UserIDs     []string
}

// ProfileImportResponse is the success payload of a profile import.
type ProfileImportResponse struct {
	UserIDs []string
}

// ExportContent runs the content export chain synchronously.
func (s *Service) ExportContent(ctx context.Context, req ContentExportRequest) (*ContentExportResponse, error) {
	name := fmt.Sprintf("content-%s.ecar", uuid.NewString())
	chain := contentExportChain(s.content, s.cfg.ResolvedTempDir(), name)
	tc := &Context{
		Store:             s.store,
		FS:                s.fs,
		ContentIDs:        req.contentIDs,
		IncludeChildren:   req.includeChildren,
		DestinationFolder: req.destinationFolder,
	}
	if err := chain.Execute(ctx, tc); err != nil {
		return nil, err
	}
	return &ContentExportResponse{ArchivePath: tc.ArchivePath, ContentIDs: req.contentIDs}, nil
}

// ImportContent runs the content import chain synchronously.
func (s *Service) ImportContent(ctx context.Context, req ContentImportRequest) (*ContentImportResponse, error) {
	chain := contentImportChain(s.content, s.cfg.ResolvedTempDir())
	tc := &Context{
		Store:             s.store,
		FS:                s.fs,
		ContentIDs:        req.contentIDs,
		IsChildContent:    req.isChildContent,
		SourceArchive:     req.sourceArchive,
		DestinationFolder: req.destinationFolder,
	}
	if err := chain.Execute(ctx, tc); err != nil {
		return nil, err
	}
	return &ContentImportResponse{ContentIDs: tc.Imported}, nil
}

// ExportProfile runs the profile export chain synchronously.
func (s *Service) ExportProfile(ctx context.Context, req ProfileExportRequest) (*ProfileExportResponse, error) {
	name := fmt.Sprintf("profile-%s.epar", uuid.NewString())
	chain := profileExportChain(s.cfg.ResolvedTempDir(), name)
	tc := &Context{
		Store:             s.store,
		FS:                s.fs,
		UserIDs:           req.userIDs,
		DestinationFolder: req.destinationFolder,
	}
	if err := chain.Execute(ctx, tc); err != nil {
		return nil, err
	}
	return &ProfileExportResponse{ArchivePath: tc.ArchivePath, UserIDs: req.userIDs}, nil
}

// ImportProfile runs the profile import chain synchronously.
func (s *Service) ImportProfile(ctx context.Context, req ProfileImportRequest) (*ProfileImportResponse, error) {
	chain := profileImportChain(s.cfg.ResolvedTempDir())
	tc := &Context{
		Store:         s.store,
		FS:            s.fs,
		SourceArchive: req.sourceArchive,
	}
	if err := chain.Execute(ctx, tc); err != nil {
		return nil, err
	}
	return &ProfileImportResponse{UserIDs: tc.Imported}, nil
}

// ExportContentAsync dispatches the export to the task runner; the callback
// receives the outcome. Returns false when the runner rejected the work.
func (s *Service) ExportContentAsync(req ContentExportRequest, cb func(*ContentExportResponse, error)) bool {
	return s.submit("content-export", func(ctx context.Context) {
		cb(s.ExportContent(ctx, req))
	})
}

// ImportContentAsync dispatches the import to the task runner.
func (s *Service) ImportContentAsync(req ContentImportRequest, cb func(*ContentImportResponse, error)) bool {
	return s.submit("content-import", func(ctx context.Context) {
		cb(s.ImportContent(ctx, req))
	})
}

// ExportProfileAsync dispatches the export to the task runner.
func (s *Service) ExportProfileAsync(req ProfileExportRequest, cb func(*ProfileExportResponse, error)) bool {
	return s.submit("profile-export", func(ctx context.Context) {
		cb(s.ExportProfile(ctx, req))
	})
}

// ImportProfileAsync dispatches the import to the task runner.
func (s *Service) ImportProfileAsync(req ProfileImportRequest, cb func(*ProfileImportResponse, error)) bool {
	return s.submit("profile-import", func(ctx context.Context) {
		cb(s.ImportProfile(ctx, req))
	})
}

func (s *Service) submit(name string, fn func(ctx context.Context)) bool {
	if s.runner == nil {
		return false
	}
	return s.runner.Submit(name, fn)
}

package transfer

import (
	"github.com/arghyam/sunbird-android-sdk/internal/store"
)

// Request objects are immutable once constructed; the constructors reject
// malformed input before any I/O happens.

// ContentExportRequest describes a content export.
type ContentExportRequest struct {
	contentIDs        []string
	destinationFolder string
	includeChildren   bool
}

// NewContentExportRequest validates and builds a content export request.
func NewContentExportRequest(contentIDs []string, destinationFolder string, includeChildren bool) (ContentExportRequest, error) {
	if destinationFolder == "" {
		return ContentExportRequest{}, &store.ValidationError{Field: "destinationFolder", Message: "destination folder is required"}
	}
	if len(contentIDs) == 0 {
		return ContentExportRequest{}, &store.ValidationError{Field: "contentIDs", Message: "at least one content identifier is required"}
	}
	return ContentExportRequest{
		contentIDs:        append([]string(nil), contentIDs...),
		destinationFolder: destinationFolder,
		includeChildren:   includeChildren,
	}, nil
}

// ContentImportRequest describes a content import from an archive.
type ContentImportRequest struct {
	sourceArchive     string
	destinationFolder string
	contentIDs        []string
	isChildContent    bool
}

// NewContentImportRequest validates and builds a content import request.
func NewContentImportRequest(sourceArchive, destinationFolder string, contentIDs []string, isChildContent bool) (ContentImportRequest, error) {
	if sourceArchive == "" {
		return ContentImportRequest{}, &store.ValidationError{Field: "sourceArchive", Message: "source archive is required"}
	}
	if destinationFolder == "" {
		return ContentImportRequest{}, &store.ValidationError{Field: "destinationFolder", Message: "destination folder is required"}
	}
	if len(contentIDs) == 0 {
		return ContentImportRequest{}, &store.ValidationError{Field: "contentIDs", Message: "at least one content identifier is required"}
	}
	return ContentImportRequest{
		sourceArchive:     sourceArchive,
		destinationFolder: destinationFolder,
		contentIDs:        append([]string(nil), contentIDs...),
		isChildContent:    isChildContent,
	}, nil
}

// ProfileExportRequest describes a profile export.
type ProfileExportRequest struct {
	userIDs           []string
	destinationFolder string
}

// NewProfileExportRequest validates and builds a profile export request.
func NewProfileExportRequest(userIDs []string, destinationFolder string) (ProfileExportRequest, error) {
	if destinationFolder == "" {
		return ProfileExportRequest{}, &store.ValidationError{Field: "destinationFolder", Message: "destination folder is required"}
	}
	if len(userIDs) == 0 {
		return ProfileExportRequest{}, &store.ValidationError{Field: "userIDs", Message: "at least one user id is required"}
	}
	return ProfileExportRequest{
		userIDs:           append([]string(nil), userIDs...),
		destinationFolder: destinationFolder,
	}, nil
}

// ProfileImportRequest describes a profile import from an archive.
type ProfileImportRequest struct {
	sourceArchive string
}

// NewProfileImportRequest validates and builds a profile import request.
func NewProfileImportRequest(sourceArchive string) (ProfileImportRequest, error) {
	if sourceArchive == "" {
		return ProfileImportRequest{}, &store.ValidationError{Field: "sourceArchive", Message: "source archive is required"}
	}
	return ProfileImportRequest{sourceArchive: sourceArchive}, nil
}

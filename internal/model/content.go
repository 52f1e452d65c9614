package model

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Visibility values for a content record.
const (
	VisibilityDefault = "default"
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Content lifecycle states.
const (
	// ContentStateOnlySpine marks content known from the catalog but with no
	// artifact materialized on disk.
	ContentStateOnlySpine = 1
	// ContentStateArtifactAvailable marks content whose payload has been
	// extracted locally.
	ContentStateArtifactAvailable = 2
)

// MimeTypeApplication is the bundle mime type whose search index is always
// derived from server data.
const MimeTypeApplication = "application/vnd.android.package-archive"

// ExtractedArchiveMarker appears in the path of content that was unpacked
// from a distributed archive rather than authored in the current session.
const ExtractedArchiveMarker = "/extracted_archives/"

// Keys looked up inside server/local data payloads.
const (
	KeyIdentifier    = "identifier"
	KeyMimeType      = "mimeType"
	KeyContentType   = "contentType"
	KeyVisibility    = "visibility"
	KeyLastUpdatedOn = "lastUpdatedOn"
	KeyChildren      = "children"
	KeyPreRequisites = "pre_requisites"
)

// JSONMap is a JSON object column.
type JSONMap map[string]any

// ContentRecord is the locally cached representation of a piece of learning
// content. ServerData is populated only from the remote catalog, LocalData
// only from a locally extracted package; the two are never merged into one
// map, readers choose between them (see computeSearchIndex).
type ContentRecord struct {
	ID                  uint    `gorm:"primaryKey;autoIncrement"`
	Identifier          string  `gorm:"uniqueIndex;not null"`
	ServerData          JSONMap `gorm:"type:text;serializer:json"`
	LocalData           JSONMap `gorm:"type:text;serializer:json"`
	MimeType            string
	ContentType         string
	Visibility          string
	Path                string
	RefCount            int `gorm:"not null"`
	ContentState        int
	ManifestVersion     string
	LocalLastUpdatedOn  string
	ServerLastUpdatedOn string
	SearchIndex         string `gorm:"column:search_index"`
}

func (ContentRecord) TableName() string { return "content" }

// BeforeSave keeps the stored invariants: refCount never goes negative and
// the search index always reflects the current payloads.
func (c *ContentRecord) BeforeSave(*gorm.DB) error {
	if c.RefCount < 0 {
		c.RefCount = 0
	}
	c.SearchIndex = c.computeSearchIndex()
	if c.ServerData != nil {
		if v, ok := c.ServerData[KeyLastUpdatedOn].(string); ok {
			c.ServerLastUpdatedOn = v
		}
	}
	return nil
}

// IsExternal reports whether the record's payload came from an extracted
// distribution archive folder.
func (c *ContentRecord) IsExternal() bool {
	return c.Path != "" && strings.Contains(c.Path, ExtractedArchiveMarker)
}

// HasChildren reports whether the local payload lists child content.
func (c *ContentRecord) HasChildren() bool {
	return c.LocalData != nil && c.LocalData[KeyChildren] != nil
}

// ChildIdentifiers returns the identifiers of child content listed in the
// local payload.
func (c *ContentRecord) ChildIdentifiers() []string {
	return identifiersOf(c.LocalData, KeyChildren)
}

// HasPreRequisites reports whether the local payload lists prerequisites.
func (c *ContentRecord) HasPreRequisites() bool {
	return c.LocalData != nil && c.LocalData[KeyPreRequisites] != nil
}

// PreRequisiteIdentifiers returns the identifiers of prerequisite content
// listed in the local payload.
func (c *ContentRecord) PreRequisiteIdentifiers() []string {
	return identifiersOf(c.LocalData, KeyPreRequisites)
}

func identifiersOf(data JSONMap, key string) []string {
	if data == nil {
		return nil
	}
	entries, ok := data[key].([]any)
	if !ok {
		return nil
	}
	var ids []string
	for _, entry := range entries {
		child, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := child[KeyIdentifier].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// computeSearchIndex flattens the record into the single full-text field.
// Priority: serverData for the application bundle mime type, else localData
// when present, else serverData.
func (c *ContentRecord) computeSearchIndex() string {
	if c.MimeType == MimeTypeApplication {
		if c.ServerData != nil {
			return flattenValues(c.ServerData)
		}
		return ""
	}
	if c.LocalData != nil {
		return flattenValues(c.LocalData)
	}
	if c.ServerData != nil {
		return flattenValues(c.ServerData)
	}
	return ""
}

// flattenValues joins the map's values into a comma-separated string. Keys
// are visited in sorted order so the index is stable across writes.
func flattenValues(data JSONMap) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v", data[k]))
	}
	return strings.Join(parts, ", ")
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// DefaultVersionRetention is the number of versions kept per page before the
// oldest ones are evicted.
const DefaultVersionRetention = 50

// Element is one editable element snapshot inside a page version. The content
// store treats it as opaque: it is deep-copied on save and returned as-is on load.
type Element map[string]any

// ContentVersion is an immutable record of one saved state of a page's
// editable content. Versions are created by Save and never mutated afterwards.
type ContentVersion struct {
	ID          string    `json:"id"`
	PageID      string    `json:"page_id"`
	Elements    []Element `json:"elements"`
	Timestamp   time.Time `json:"timestamp"`
	AuthorID    string    `json:"author_id"`
	Version     int64     `json:"version"`
	Description string    `json:"description,omitempty"`
	Published   bool      `json:"published"`
}

// VersionID derives the identifier for a version from its page, number and
// creation instant.
func VersionID(pageID string, version int64, ts time.Time) string {
	return fmt.Sprintf("%s-v%d-%d", pageID, version, ts.UnixMilli())
}

// PageMetadata tracks per-page bookkeeping maintained alongside the version list.
type PageMetadata struct {
	PageID        string     `json:"page_id"`
	LastModified  time.Time  `json:"last_modified"`
	LastPublished *time.Time `json:"last_published,omitempty"`
	// CurrentVersion is the highest version number issued so far. It never
	// decreases except via ClearPage.
	CurrentVersion int64 `json:"current_version"`
	// TotalVersions counts versions ever created; eviction and deletion do
	// not decrease it.
	TotalVersions int64  `json:"total_versions"`
	AuthorID      string `json:"author_id"`
}

// PublishedContent is the single live snapshot served to site visitors. It is
// a copy of whichever version was most recently saved with publish=true, not a
// pointer into the version list, so deleting that version leaves it intact.
type PublishedContent struct {
	PageID      string    `json:"page_id"`
	Elements    []Element `json:"elements"`
	Version     int64     `json:"version"`
	PublishedAt time.Time `json:"published_at"`
	AuthorID    string    `json:"author_id"`
}

// PageBundle is the export/import unit for one page: metadata, the full
// version list and the published snapshot, serialized as a single document.
type PageBundle struct {
	PageID    string            `json:"page_id"`
	Metadata  *PageMetadata     `json:"metadata,omitempty"`
	Versions  []ContentVersion  `json:"versions,omitempty"`
	Published *PublishedContent `json:"published,omitempty"`
}

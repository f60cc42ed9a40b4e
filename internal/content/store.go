// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content implements the page content version store: an append-only
// version history per page, a single published snapshot per page, and
// export/import of whole pages, persisted through a key-value backend.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redux-collective/redux-go/internal/kv"
	"github.com/redux-collective/redux-go/internal/model"
	"github.com/redux-collective/redux-go/internal/util"
)

// Key prefixes partitioning the shared KV store. The slot registry uses its
// own key, so content and slot operations never contend on the same key.
const (
	keyPrefixMeta      = "content:meta:"
	keyPrefixVersions  = "content:versions:"
	keyPrefixPublished = "content:published:"
)

// Store owns page content as an append-only sequence of immutable versions
// plus one published snapshot per page. It is safe for concurrent use as long
// as the execution model keeps a single logical writer per page; concurrent
// writers on the same page are last-write-wins by design.
type Store struct {
	kv        kv.Store
	retention int
	now       func() time.Time
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Retention is the maximum number of versions kept per page
	// (0 = model.DefaultVersionRetention).
	Retention int
}

// NewStore creates a version store on top of the given KV backend.
func NewStore(kvs kv.Store, opts StoreOptions) *Store {
	retention := opts.Retention
	if retention <= 0 {
		retention = model.DefaultVersionRetention
	}
	return &Store{
		kv:        kvs,
		retention: retention,
		now:       time.Now,
	}
}

// Retention returns the per-page version cap.
func (s *Store) Retention() int {
	return s.retention
}

// Save validates the input, assigns the next version number, persists the new
// version and updates page metadata. When publish is true the published
// snapshot is overwritten with this version's elements.
//
// Write ordering: version list first, then published content, then metadata,
// so a failure mid-way leaves at most a harmless orphan version rather than
// metadata pointing at a version that was never written. On a metadata write
// failure the earlier writes are rolled back best-effort.
func (s *Store) Save(ctx context.Context, pageID string, elements []model.Element, authorID, description string, publish bool) (*model.ContentVersion, error) {
	if !util.IsValidSlug(pageID) {
		return nil, model.NewValidationError("pageId", "must be a non-empty slug")
	}
	if authorID == "" {
		return nil, model.NewValidationError("authorId", "must not be empty")
	}

	meta, err := s.readMeta(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = &model.PageMetadata{PageID: pageID}
	}

	prevVersions, err := s.readVersions(ctx, pageID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	version := model.ContentVersion{
		ID:          model.VersionID(pageID, meta.CurrentVersion+1, now),
		PageID:      pageID,
		Elements:    cloneElements(elements),
		Timestamp:   now,
		AuthorID:    authorID,
		Version:     meta.CurrentVersion + 1,
		Description: description,
		Published:   publish,
	}

	versions := append(append([]model.ContentVersion(nil), prevVersions...), version)
	versions = s.evictOldest(versions)

	if err := s.writeVersions(ctx, pageID, versions); err != nil {
		return nil, err
	}

	var prevPublished *model.PublishedContent
	if publish {
		prevPublished, err = s.readPublished(ctx, pageID)
		if err != nil {
			return nil, err
		}
		published := &model.PublishedContent{
			PageID:      pageID,
			Elements:    version.Elements,
			Version:     version.Version,
			PublishedAt: now,
			AuthorID:    authorID,
		}
		if err := s.writePublished(ctx, pageID, published); err != nil {
			s.rollbackVersions(ctx, pageID, prevVersions)
			return nil, err
		}
	}

	meta.LastModified = now
	meta.CurrentVersion = version.Version
	meta.TotalVersions++
	meta.AuthorID = authorID
	if publish {
		meta.LastPublished = &now
	}

	if err := s.writeMeta(ctx, pageID, meta); err != nil {
		s.rollbackVersions(ctx, pageID, prevVersions)
		if publish {
			s.rollbackPublished(ctx, pageID, prevPublished)
		}
		return nil, err
	}

	return &version, nil
}

// Load returns the elements surfaces should render for a page: the published
// snapshot if one exists, otherwise the latest saved version. A page that was
// never saved yields a NotFoundError.
func (s *Store) Load(ctx context.Context, pageID string) ([]model.Element, error) {
	published, err := s.readPublished(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if published != nil {
		return published.Elements, nil
	}

	meta, err := s.readMeta(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, model.NewNotFoundError("page", pageID)
	}

	versions, err := s.readVersions(ctx, pageID)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].Version == meta.CurrentVersion {
			return versions[i].Elements, nil
		}
	}

	// Metadata pointing at a version that no longer exists is a broken
	// invariant, not an expected outcome; surface it instead of returning
	// an empty result.
	return nil, model.NewStorageError("load",
		fmt.Errorf("page %q metadata references missing version %d", pageID, meta.CurrentVersion))
}

// LoadVersion returns the elements of one exact version, or a NotFoundError
// if it was evicted or deleted.
func (s *Store) LoadVersion(ctx context.Context, pageID string, version int64) ([]model.Element, error) {
	versions, err := s.readVersions(ctx, pageID)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].Version == version {
			return versions[i].Elements, nil
		}
	}
	return nil, model.NewNotFoundError("version", fmt.Sprintf("%s@%d", pageID, version))
}

// VersionHistory returns all surviving versions of a page, newest first.
// A page that was never saved yields an empty history.
func (s *Store) VersionHistory(ctx context.Context, pageID string) ([]model.ContentVersion, error) {
	versions, err := s.readVersions(ctx, pageID)
	if err != nil {
		return nil, err
	}
	sort.Slice(versions, func(i, j int) bool {
		if versions[i].Timestamp.Equal(versions[j].Timestamp) {
			return versions[i].Version > versions[j].Version
		}
		return versions[i].Timestamp.After(versions[j].Timestamp)
	})
	return versions, nil
}

// Metadata returns the page bookkeeping record, or nil if the page was never
// saved.
func (s *Store) Metadata(ctx context.Context, pageID string) (*model.PageMetadata, error) {
	return s.readMeta(ctx, pageID)
}

// Published returns the published snapshot for a page, or nil if nothing was
// ever published.
func (s *Store) Published(ctx context.Context, pageID string) (*model.PublishedContent, error) {
	return s.readPublished(ctx, pageID)
}

// DeleteVersion removes one version by number and reports whether it existed.
// It never alters CurrentVersion, TotalVersions or the published snapshot:
// published content is a copy, not a pointer into history.
func (s *Store) DeleteVersion(ctx context.Context, pageID string, version int64) (bool, error) {
	versions, err := s.readVersions(ctx, pageID)
	if err != nil {
		return false, err
	}

	kept := versions[:0:0]
	found := false
	for i := range versions {
		if versions[i].Version == version {
			found = true
			continue
		}
		kept = append(kept, versions[i])
	}
	if !found {
		return false, nil
	}

	if err := s.writeVersions(ctx, pageID, kept); err != nil {
		return false, err
	}
	return true, nil
}

// RevertToVersion saves a copy of the target version's elements as a new
// draft version, preserving the full audit trail. History is never rewound.
func (s *Store) RevertToVersion(ctx context.Context, pageID string, version int64, authorID string) (*model.ContentVersion, error) {
	elements, err := s.LoadVersion(ctx, pageID, version)
	if err != nil {
		return nil, err
	}
	description := fmt.Sprintf("Reverted to version %d", version)
	return s.Save(ctx, pageID, elements, authorID, description, false)
}

// ExportPage serializes a page's metadata, versions and published snapshot
// into one bundle for backup or migration.
func (s *Store) ExportPage(ctx context.Context, pageID string) (*model.PageBundle, error) {
	meta, err := s.readMeta(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, model.NewNotFoundError("page", pageID)
	}

	versions, err := s.readVersions(ctx, pageID)
	if err != nil {
		return nil, err
	}
	published, err := s.readPublished(ctx, pageID)
	if err != nil {
		return nil, err
	}

	return &model.PageBundle{
		PageID:    pageID,
		Metadata:  meta,
		Versions:  versions,
		Published: published,
	}, nil
}

// ImportPage replaces a page's state wholesale with the given bundle. There
// is no merge: whatever the page held before is gone.
func (s *Store) ImportPage(ctx context.Context, pageID string, bundle *model.PageBundle, authorID string) error {
	if !util.IsValidSlug(pageID) {
		return model.NewValidationError("pageId", "must be a non-empty slug")
	}
	if bundle == nil || bundle.Metadata == nil {
		return model.NewValidationError("bundle", "must contain page metadata")
	}

	if err := s.ClearPage(ctx, pageID); err != nil {
		return err
	}

	meta := *bundle.Metadata
	meta.PageID = pageID
	if authorID != "" {
		meta.AuthorID = authorID
	}

	if err := s.writeVersions(ctx, pageID, bundle.Versions); err != nil {
		return err
	}
	if bundle.Published != nil {
		published := *bundle.Published
		published.PageID = pageID
		if err := s.writePublished(ctx, pageID, &published); err != nil {
			return err
		}
	}
	return s.writeMeta(ctx, pageID, &meta)
}

// ClearPage deletes metadata, all versions and published content for a page.
// Irreversible; the page restarts from version 1 on the next save.
func (s *Store) ClearPage(ctx context.Context, pageID string) error {
	for _, key := range []string{
		keyPrefixMeta + pageID,
		keyPrefixVersions + pageID,
		keyPrefixPublished + pageID,
	} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return model.NewStorageError("clear", err)
		}
	}
	return nil
}

// PageIDs lists every page that has metadata in the store.
func (s *Store) PageIDs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, keyPrefixMeta)
	if err != nil {
		return nil, model.NewStorageError("list pages", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(keyPrefixMeta):])
	}
	sort.Strings(ids)
	return ids, nil
}

// EnforceRetention re-applies the retention cap to every page and returns
// the number of versions evicted. Saves enforce the cap themselves; this
// repairs over-limit lists left behind by interrupted writes or imports of
// bundles produced with a larger cap.
func (s *Store) EnforceRetention(ctx context.Context) (int, error) {
	pages, err := s.PageIDs(ctx)
	if err != nil {
		return 0, err
	}

	evicted := 0
	for _, pageID := range pages {
		versions, err := s.readVersions(ctx, pageID)
		if err != nil {
			return evicted, err
		}
		if len(versions) <= s.retention {
			continue
		}
		trimmed := s.evictOldest(versions)
		if err := s.writeVersions(ctx, pageID, trimmed); err != nil {
			return evicted, err
		}
		evicted += len(versions) - len(trimmed)
	}
	return evicted, nil
}

// evictOldest drops the lowest version numbers until the list fits the cap.
func (s *Store) evictOldest(versions []model.ContentVersion) []model.ContentVersion {
	if len(versions) <= s.retention {
		return versions
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version < versions[j].Version
	})
	return versions[len(versions)-s.retention:]
}

func (s *Store) readMeta(ctx context.Context, pageID string) (*model.PageMetadata, error) {
	data, err := s.kv.Get(ctx, keyPrefixMeta+pageID)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError("read metadata", err)
	}
	var meta model.PageMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, model.NewStorageError("decode metadata", err)
	}
	return &meta, nil
}

func (s *Store) writeMeta(ctx context.Context, pageID string, meta *model.PageMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return model.NewStorageError("encode metadata", err)
	}
	if err := s.kv.Set(ctx, keyPrefixMeta+pageID, data); err != nil {
		return model.NewStorageError("write metadata", err)
	}
	return nil
}

func (s *Store) readVersions(ctx context.Context, pageID string) ([]model.ContentVersion, error) {
	data, err := s.kv.Get(ctx, keyPrefixVersions+pageID)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError("read versions", err)
	}
	var versions []model.ContentVersion
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, model.NewStorageError("decode versions", err)
	}
	return versions, nil
}

func (s *Store) writeVersions(ctx context.Context, pageID string, versions []model.ContentVersion) error {
	if versions == nil {
		versions = []model.ContentVersion{}
	}
	data, err := json.Marshal(versions)
	if err != nil {
		return model.NewStorageError("encode versions", err)
	}
	if err := s.kv.Set(ctx, keyPrefixVersions+pageID, data); err != nil {
		return model.NewStorageError("write versions", err)
	}
	return nil
}

func (s *Store) readPublished(ctx context.Context, pageID string) (*model.PublishedContent, error) {
	data, err := s.kv.Get(ctx, keyPrefixPublished+pageID)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError("read published", err)
	}
	var published model.PublishedContent
	if err := json.Unmarshal(data, &published); err != nil {
		return nil, model.NewStorageError("decode published", err)
	}
	return &published, nil
}

func (s *Store) writePublished(ctx context.Context, pageID string, published *model.PublishedContent) error {
	data, err := json.Marshal(published)
	if err != nil {
		return model.NewStorageError("encode published", err)
	}
	if err := s.kv.Set(ctx, keyPrefixPublished+pageID, data); err != nil {
		return model.NewStorageError("write published", err)
	}
	return nil
}

// rollbackVersions restores the previous version list after a failed save.
func (s *Store) rollbackVersions(ctx context.Context, pageID string, prev []model.ContentVersion) {
	if prev == nil {
		_ = s.kv.Delete(ctx, keyPrefixVersions+pageID)
		return
	}
	_ = s.writeVersions(ctx, pageID, prev)
}

// rollbackPublished restores the previous published snapshot after a failed save.
func (s *Store) rollbackPublished(ctx context.Context, pageID string, prev *model.PublishedContent) {
	if prev == nil {
		_ = s.kv.Delete(ctx, keyPrefixPublished+pageID)
		return
	}
	_ = s.writePublished(ctx, pageID, prev)
}

// cloneElements deep-copies an element sequence so later mutation of the
// caller's objects cannot corrupt history.
func cloneElements(elements []model.Element) []model.Element {
	if elements == nil {
		return []model.Element{}
	}
	out := make([]model.Element, len(elements))
	for i, el := range elements {
		out[i] = model.Element(util.CloneMap(map[string]any(el)))
	}
	return out
}

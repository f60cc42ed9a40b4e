// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/redux-collective/redux-go/internal/model"
)

// textSanitizer strips all HTML from free-text inputs such as version
// descriptions and slot captions.
var textSanitizer = bluemonday.StrictPolicy()

// SaveContentRequest is the body of PUT /pages/{pageID}/content.
type SaveContentRequest struct {
	Elements    []model.Element `json:"elements"`
	AuthorID    string          `json:"author_id"`
	Description string          `json:"description,omitempty"`
	Publish     bool            `json:"publish"`
}

// RevertRequest is the body of POST /pages/{pageID}/revert.
type RevertRequest struct {
	Version  int64  `json:"version"`
	AuthorID string `json:"author_id"`
}

// ImportPageRequest is the body of POST /pages/{pageID}/import.
type ImportPageRequest struct {
	Bundle   *model.PageBundle `json:"bundle"`
	AuthorID string            `json:"author_id,omitempty"`
}

// ContentResponse is the elements payload returned by content reads.
type ContentResponse struct {
	PageID   string          `json:"page_id"`
	Elements []model.Element `json:"elements"`
}

// ListPages returns the IDs of all pages that have ever been saved.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	ids, err := h.content.PageIDs(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, ids, &Meta{Total: len(ids)})
}

// SaveContent appends a new version for the page, optionally publishing it.
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	var req SaveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	description := textSanitizer.Sanitize(req.Description)
	version, err := h.content.Save(r.Context(), pageID, req.Elements, req.AuthorID, description, req.Publish)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, version)
}

// GetContent returns the latest editable content for a page: the published
// snapshot when one exists, otherwise the newest draft. With ?version=N it
// returns that exact version's elements.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	ctx := r.Context()

	var (
		elements []model.Element
		err      error
	)
	if raw := r.URL.Query().Get("version"); raw != "" {
		version, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			WriteBadRequest(w, "version must be an integer", nil)
			return
		}
		elements, err = h.content.LoadVersion(ctx, pageID, version)
	} else {
		elements, err = h.content.Load(ctx, pageID)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteSuccess(w, ContentResponse{PageID: pageID, Elements: elements}, nil)
}

// GetPublished returns the live snapshot for a page.
func (h *Handler) GetPublished(w http.ResponseWriter, r *http.Request) {
	published, err := h.content.Published(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, published, nil)
}

// ListVersions returns the page's version history, newest first.
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.content.VersionHistory(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, versions, &Meta{Total: len(versions)})
}

// GetVersion returns one version's elements.
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	version, ok := versionParam(w, r)
	if !ok {
		return
	}

	elements, err := h.content.LoadVersion(r.Context(), pageID, version)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, ContentResponse{PageID: pageID, Elements: elements}, nil)
}

// DeleteVersion removes one version from the history. The live snapshot is
// untouched even when it was produced from that version.
func (h *Handler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	version, ok := versionParam(w, r)
	if !ok {
		return
	}

	deleted, err := h.content.DeleteVersion(r.Context(), pageID, version)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !deleted {
		WriteNotFound(w, "version not found")
		return
	}
	WriteSuccess(w, map[string]any{"deleted": true, "version": version}, nil)
}

// RevertVersion saves the target version's elements as a new draft version.
// History is never rewound.
func (h *Handler) RevertVersion(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	var req RevertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	version, err := h.content.RevertToVersion(r.Context(), pageID, req.Version, req.AuthorID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, version)
}

// ExportPage returns the page's complete state as a single bundle.
func (h *Handler) ExportPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	bundle, err := h.content.ExportPage(r.Context(), pageID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+pageID+`.json"`)
	WriteSuccess(w, bundle, nil)
}

// ImportPage replaces the page's state wholesale with the uploaded bundle.
func (h *Handler) ImportPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	var req ImportPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if err := h.content.ImportPage(r.Context(), pageID, req.Bundle, req.AuthorID); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"imported": true, "page_id": pageID}, nil)
}

// ClearPage deletes all stored state for a page.
func (h *Handler) ClearPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	if err := h.content.ClearPage(r.Context(), pageID); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"cleared": true, "page_id": pageID}, nil)
}

// versionParam parses the {version} URL parameter, writing a 400 on failure.
func versionParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	version, err := strconv.ParseInt(chi.URLParam(r, "version"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "version must be an integer", nil)
		return 0, false
	}
	return version, true
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/redux-collective/redux-go/internal/transfer"
)

// ImportSiteRequest is the body of POST /import.
type ImportSiteRequest struct {
	Data     *transfer.ExportData `json:"data"`
	DryRun   bool                 `json:"dry_run,omitempty"`
	Pages    *bool                `json:"pages,omitempty"`
	Slots    *bool                `json:"slots,omitempty"`
	AuthorID string               `json:"author_id,omitempty"`
}

// ExportSite downloads the whole site as one JSON document.
func (h *Handler) ExportSite(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.Export(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="redux-export.json"`)
	WriteSuccess(w, data, nil)
}

// ImportSite restores a site export document. Validation failures come back
// as a 422 with the per-entity errors; partial failures return the result
// with Success=false.
func (h *Handler) ImportSite(w http.ResponseWriter, r *http.Request) {
	var req ImportSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Data == nil {
		WriteBadRequest(w, "Missing data field", nil)
		return
	}

	opts := transfer.DefaultImportOptions()
	opts.DryRun = req.DryRun
	opts.AuthorID = req.AuthorID
	if req.Pages != nil {
		opts.ImportPages = *req.Pages
	}
	if req.Slots != nil {
		opts.ImportSlots = *req.Slots
	}

	result, err := h.importer.Import(r.Context(), req.Data, opts)
	if err != nil {
		// Validation failures carry the detailed result
		if result != nil && !result.Success {
			WriteJSON(w, http.StatusUnprocessableEntity, Response{Data: result})
			return
		}
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, result, nil)
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redux-collective/redux-go/internal/model"
	"github.com/redux-collective/redux-go/internal/slots"
)

// maxUploadMemory is the in-memory buffer for multipart parsing; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

// UpdateSlotRequest is the body of PUT /slots/{slotID}.
type UpdateSlotRequest struct {
	URL         string `json:"url"`
	Filename    string `json:"filename,omitempty"`
	Alt         string `json:"alt,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Provider    string `json:"provider,omitempty"`
	EmbedID     string `json:"embed_id,omitempty"`
}

// AssignVideoRequest is the body of POST /slots/{slotID}/video.
type AssignVideoRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// ListSlots returns every slot, or the slots of one page with ?page=.
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	if pageID := r.URL.Query().Get("page"); pageID != "" {
		list := h.registry.SlotsForPage(pageID)
		WriteSuccess(w, list, &Meta{Total: len(list)})
		return
	}

	catalog := h.registry.Catalog()
	list := make([]*slots.Slot, 0, catalog.Len())
	for _, id := range catalog.IDs() {
		slot, err := h.registry.Slot(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		list = append(list, slot)
	}
	WriteSuccess(w, list, &Meta{Total: len(list)})
}

// GetSlot returns one slot's definition, assignment and transient state.
func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.registry.Slot(chi.URLParam(r, "slotID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, slot, nil)
}

// UpdateSlot assigns an asset descriptor to a slot directly, without going
// through the upload flow. Text fields are sanitized.
func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")

	var req UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	assignment := model.SlotAssignment{
		URL:         req.URL,
		Filename:    req.Filename,
		Alt:         textSanitizer.Sanitize(req.Alt),
		Title:       textSanitizer.Sanitize(req.Title),
		Description: textSanitizer.Sanitize(req.Description),
		Provider:    req.Provider,
		EmbedID:     req.EmbedID,
	}
	if err := h.registry.UpdateAssignment(r.Context(), slotID, assignment); err != nil {
		writeStoreError(w, err)
		return
	}

	slot, err := h.registry.Slot(slotID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, slot, nil)
}

// DeleteSlotAssignment empties a slot.
func (h *Handler) DeleteSlotAssignment(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")
	if err := h.registry.DeleteAssignment(r.Context(), slotID); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"deleted": true, "slot_id": slotID}, nil)
}

// ResetSlot restores a slot to its compiled-in default, or empties it when
// it has none, and clears its transient state.
func (h *Handler) ResetSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")
	if err := h.registry.ResetSlot(r.Context(), slotID); err != nil {
		writeStoreError(w, err)
		return
	}

	slot, err := h.registry.Slot(slotID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, slot, nil)
}

// ResetAllSlots resets every slot in the catalog.
func (h *Handler) ResetAllSlots(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.ResetAllSlots(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"reset": true}, nil)
}

// SlotStats returns aggregate counts over the whole registry.
func (h *Handler) SlotStats(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.registry.Stats(), nil)
}

// UploadToSlot accepts a multipart file upload for a slot.
func (h *Handler) UploadToSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	assignment, err := h.uploads.UploadToSlot(r.Context(), slotID, file, header)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, assignment)
}

// AssignVideo assigns an external video link (YouTube, Vimeo, Google Drive)
// to a video slot.
func (h *Handler) AssignVideo(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")

	var req AssignVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	assignment, err := h.uploads.AssignVideoLink(r.Context(), slotID, req.URL, textSanitizer.Sanitize(req.Title))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteCreated(w, assignment)
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the content version store and
// the media slot registry.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redux-collective/redux-go/internal/content"
	"github.com/redux-collective/redux-go/internal/logging"
	"github.com/redux-collective/redux-go/internal/model"
	"github.com/redux-collective/redux-go/internal/service"
	"github.com/redux-collective/redux-go/internal/slots"
	"github.com/redux-collective/redux-go/internal/transfer"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	content  *content.Store
	registry *slots.Registry
	uploads  *service.UploadService
	events   *logging.EventLog
	exporter *transfer.Exporter
	importer *transfer.Importer
	version  string
}

// NewHandler creates an API handler over the given stores.
func NewHandler(contentStore *content.Store, registry *slots.Registry, uploads *service.UploadService, events *logging.EventLog, exporter *transfer.Exporter, importer *transfer.Importer, version string) *Handler {
	return &Handler{
		content:  contentStore,
		registry: registry,
		uploads:  uploads,
		events:   events,
		exporter: exporter,
		importer: importer,
		version:  version,
	}
}

// Routes mounts all API endpoints on a fresh chi router. The caller mounts
// the result under /api/v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Get("/docs", h.ServeDocs)
	r.Get("/events", h.ListEvents)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Route("/{pageID}", func(r chi.Router) {
			r.Delete("/", h.ClearPage)
			r.Get("/content", h.GetContent)
			r.Put("/content", h.SaveContent)
			r.Get("/published", h.GetPublished)
			r.Get("/versions", h.ListVersions)
			r.Get("/versions/{version}", h.GetVersion)
			r.Delete("/versions/{version}", h.DeleteVersion)
			r.Post("/revert", h.RevertVersion)
			r.Get("/export", h.ExportPage)
			r.Post("/import", h.ImportPage)
		})
	})

	r.Route("/slots", func(r chi.Router) {
		r.Get("/", h.ListSlots)
		r.Get("/stats", h.SlotStats)
		r.Post("/reset", h.ResetAllSlots)
		r.Route("/{slotID}", func(r chi.Router) {
			r.Get("/", h.GetSlot)
			r.Put("/", h.UpdateSlot)
			r.Delete("/", h.DeleteSlotAssignment)
			r.Post("/reset", h.ResetSlot)
			r.Post("/upload", h.UploadToSlot)
			r.Post("/video", h.AssignVideo)
		})
	})

	r.Get("/export", h.ExportSite)
	r.Post("/import", h.ImportSite)

	return r
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains listing metadata.
type Meta struct {
	Total int `json:"total,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response.
func WriteValidationError(w http.ResponseWriter, field, message string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed",
		map[string]string{field: message})
}

// writeStoreError maps store errors onto HTTP status codes. Unknown errors
// are logged and reported as 500 without leaking internals.
func writeStoreError(w http.ResponseWriter, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		WriteValidationError(w, vErr.Field, vErr.Message)
		return
	}
	var nfErr *model.NotFoundError
	if errors.As(err, &nfErr) {
		WriteNotFound(w, nfErr.Error())
		return
	}
	slog.Error("api request failed", "error", err)
	WriteInternalError(w, "Internal error")
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: h.version,
	}, nil)
}

// ListEvents returns the most recent audit log entries, newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	events, err := h.events.List(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteSuccess(w, events, &Meta{Total: len(events)})
}

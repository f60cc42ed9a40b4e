// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package slots

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redux-collective/redux-go/internal/kv"
	"github.com/redux-collective/redux-go/internal/model"
)

// keyAssignments is the single KV key holding the whole assignment map. The
// content store partitions the same backend by per-page keys, so the two
// components never contend on a key.
const keyAssignments = "slots:assignments"

// Slot combines a catalog definition with its current dynamic state.
type Slot struct {
	Definition *model.MediaSlotDefinition `json:"definition"`
	Assignment *model.SlotAssignment      `json:"assignment,omitempty"`
	Loading    bool                       `json:"loading"`
	Error      string                     `json:"error,omitempty"`
}

// Stats is an aggregate over the catalog and the current assignment map.
type Stats struct {
	TotalSlots          int            `json:"total_slots"`
	SlotsWithAssignment int            `json:"slots_with_assignment"`
	EmptySlots          int            `json:"empty_slots"`
	LoadingSlots        int            `json:"loading_slots"`
	ErrorSlots          int            `json:"error_slots"`
	ProviderCounts      map[string]int `json:"provider_counts,omitempty"`
}

// Registry owns the slot catalog and the persisted slot-to-asset mapping,
// plus per-slot transient loading/error state that is never persisted:
// whatever an earlier process left behind, every slot starts idle and
// error-free.
type Registry struct {
	catalog *Catalog
	kv      kv.Store

	mu          sync.RWMutex
	assignments map[string]model.SlotAssignment
	loading     map[string]bool
	errs        map[string]string
}

// NewRegistry creates a registry over the given catalog, loading any
// previously persisted assignment map from the backend.
func NewRegistry(ctx context.Context, catalog *Catalog, kvs kv.Store) (*Registry, error) {
	r := &Registry{
		catalog:     catalog,
		kv:          kvs,
		assignments: make(map[string]model.SlotAssignment),
		loading:     make(map[string]bool),
		errs:        make(map[string]string),
	}

	data, err := kvs.Get(ctx, keyAssignments)
	if errors.Is(err, kv.ErrNotFound) {
		return r, nil
	}
	if err != nil {
		return nil, model.NewStorageError("read assignments", err)
	}
	if err := json.Unmarshal(data, &r.assignments); err != nil {
		return nil, model.NewStorageError("decode assignments", err)
	}
	return r, nil
}

// Catalog returns the static slot catalog.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// SlotsForPage returns every slot declared for a page with its current
// assignment and transient state. Unknown pages yield an empty result.
func (r *Registry) SlotsForPage(pageID string) []Slot {
	defs := r.catalog.ByPage(pageID)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Slot, 0, len(defs))
	for _, def := range defs {
		out = append(out, r.slotLocked(def))
	}
	return out
}

// Slot returns one slot with its current assignment and transient state.
func (r *Registry) Slot(slotID string) (*Slot, error) {
	def := r.catalog.ByID(slotID)
	if def == nil {
		return nil, model.NewNotFoundError("slot", slotID)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	slot := r.slotLocked(def)
	return &slot, nil
}

// slotLocked assembles a Slot; the caller holds at least a read lock.
func (r *Registry) slotLocked(def *model.MediaSlotDefinition) Slot {
	slot := Slot{
		Definition: def,
		Loading:    r.loading[def.ID],
		Error:      r.errs[def.ID],
	}
	if a, ok := r.assignments[def.ID]; ok {
		assignment := a
		slot.Assignment = &assignment
	}
	return slot
}

// UpdateAssignment overwrites (or creates) the assignment for a slot and
// clears any stored error for it. No validation against the slot's declared
// constraints happens here; that is the upload flow's responsibility, and
// the registry stores whatever it is given.
func (r *Registry) UpdateAssignment(ctx context.Context, slotID string, assignment model.SlotAssignment) error {
	if r.catalog.ByID(slotID) == nil {
		return model.NewNotFoundError("slot", slotID)
	}
	if assignment.URL == "" {
		return model.NewValidationError("url", "must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, hadPrev := r.assignments[slotID]
	r.assignments[slotID] = assignment
	if err := r.persistLocked(ctx); err != nil {
		if hadPrev {
			r.assignments[slotID] = prev
		} else {
			delete(r.assignments, slotID)
		}
		return err
	}
	delete(r.errs, slotID)
	return nil
}

// DeleteAssignment removes the assignment; the slot becomes empty. Stored
// errors for the slot are cleared as well.
func (r *Registry) DeleteAssignment(ctx context.Context, slotID string) error {
	if r.catalog.ByID(slotID) == nil {
		return model.NewNotFoundError("slot", slotID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, hadPrev := r.assignments[slotID]
	if !hadPrev {
		delete(r.errs, slotID)
		return nil
	}
	delete(r.assignments, slotID)
	if err := r.persistLocked(ctx); err != nil {
		r.assignments[slotID] = prev
		return err
	}
	delete(r.errs, slotID)
	return nil
}

// SetLoading flags a slot as having an in-flight upload. Transient,
// in-memory only.
func (r *Registry) SetLoading(slotID string, loading bool) error {
	if r.catalog.ByID(slotID) == nil {
		return model.NewNotFoundError("slot", slotID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if loading {
		r.loading[slotID] = true
	} else {
		delete(r.loading, slotID)
	}
	return nil
}

// SetError records a transient error message for a slot; an empty message
// clears it. Never persisted, never touches the assignment.
func (r *Registry) SetError(slotID, message string) error {
	if r.catalog.ByID(slotID) == nil {
		return model.NewNotFoundError("slot", slotID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if message == "" {
		delete(r.errs, slotID)
	} else {
		r.errs[slotID] = message
	}
	return nil
}

// SlotError returns the stored transient error for a slot, empty if none.
func (r *Registry) SlotError(slotID string) (string, error) {
	if r.catalog.ByID(slotID) == nil {
		return "", model.NewNotFoundError("slot", slotID)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.errs[slotID], nil
}

// ResetSlot restores a slot to its compiled-in default assignment if one
// exists, otherwise clears it. Transient state for the slot is dropped.
func (r *Registry) ResetSlot(ctx context.Context, slotID string) error {
	def := r.catalog.ByID(slotID)
	if def == nil {
		return model.NewNotFoundError("slot", slotID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, hadPrev := r.assignments[slotID]
	if def.Default != nil {
		r.assignments[slotID] = *def.Default
	} else {
		delete(r.assignments, slotID)
	}
	if err := r.persistLocked(ctx); err != nil {
		if hadPrev {
			r.assignments[slotID] = prev
		} else {
			delete(r.assignments, slotID)
		}
		return err
	}
	delete(r.loading, slotID)
	delete(r.errs, slotID)
	return nil
}

// ResetAllSlots restores every slot to its default (or empty) state and
// clears all transient state.
func (r *Registry) ResetAllSlots(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.assignments
	next := make(map[string]model.SlotAssignment)
	for _, id := range r.catalog.IDs() {
		if def := r.catalog.ByID(id); def.Default != nil {
			next[id] = *def.Default
		}
	}
	r.assignments = next
	if err := r.persistLocked(ctx); err != nil {
		r.assignments = prev
		return err
	}
	r.loading = make(map[string]bool)
	r.errs = make(map[string]string)
	return nil
}

// Stats computes aggregate counts over the catalog and assignment map.
// Provider counts cover video-slot assignments only.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalSlots:   r.catalog.Len(),
		LoadingSlots: len(r.loading),
		ErrorSlots:   len(r.errs),
	}
	providers := make(map[string]int)
	for _, id := range r.catalog.IDs() {
		a, ok := r.assignments[id]
		if !ok {
			stats.EmptySlots++
			continue
		}
		stats.SlotsWithAssignment++
		if def := r.catalog.ByID(id); def.IsVideo() && a.Provider != "" {
			providers[a.Provider]++
		}
	}
	if len(providers) > 0 {
		stats.ProviderCounts = providers
	}
	return stats
}

// Assignments returns a copy of the current assignment map, keyed by slot ID.
func (r *Registry) Assignments() map[string]model.SlotAssignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.SlotAssignment, len(r.assignments))
	for id, a := range r.assignments {
		out[id] = a
	}
	return out
}

// ReplaceAssignments swaps in a whole new assignment map, used by site
// import. Entries for slot IDs not in the catalog are dropped. All transient
// state is cleared.
func (r *Registry) ReplaceAssignments(ctx context.Context, assignments map[string]model.SlotAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.assignments
	next := make(map[string]model.SlotAssignment, len(assignments))
	for id, a := range assignments {
		if r.catalog.ByID(id) == nil || a.URL == "" {
			continue
		}
		next[id] = a
	}
	r.assignments = next
	if err := r.persistLocked(ctx); err != nil {
		r.assignments = prev
		return err
	}
	r.loading = make(map[string]bool)
	r.errs = make(map[string]string)
	return nil
}

// persistLocked writes the assignment map; the caller holds the write lock.
func (r *Registry) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(r.assignments)
	if err != nil {
		return model.NewStorageError("encode assignments", err)
	}
	if err := r.kv.Set(ctx, keyAssignments, data); err != nil {
		return model.NewStorageError("write assignments", err)
	}
	return nil
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/redux-collective/redux-go/internal/kv"
	"github.com/redux-collective/redux-go/internal/model"
)

// Event log keys sort chronologically: events:<unix-nanos>-<uuid>.
const keyPrefixEvents = "events:"

// EventLog is the KV-backed audit trail. Writes are fire-and-forget from the
// caller's perspective; a failed event write never fails the operation that
// produced it.
type EventLog struct {
	kv kv.Store
}

// NewEventLog creates an event log on top of the given store.
func NewEventLog(kvs kv.Store) *EventLog {
	return &EventLog{kv: kvs}
}

// Record persists one event. The stored ID encodes the timestamp so listing
// by key order yields chronological order.
func (l *EventLog) Record(ctx context.Context, level, category, message, metadata string) (*model.Event, error) {
	now := time.Now().UTC()
	event := &model.Event{
		ID:        fmt.Sprintf("%020d-%s", now.UnixNano(), uuid.New().String()),
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: now,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	if err := l.kv.Set(ctx, keyPrefixEvents+event.ID, data); err != nil {
		return nil, fmt.Errorf("write event: %w", err)
	}
	return event, nil
}

// List returns the most recent events, newest first, up to limit. A limit of
// zero or less returns everything.
func (l *EventLog) List(ctx context.Context, limit int) ([]model.Event, error) {
	keys, err := l.kv.Keys(ctx, keyPrefixEvents)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	events := make([]model.Event, 0, len(keys))
	for _, key := range keys {
		data, err := l.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue // pruned concurrently
			}
			return nil, fmt.Errorf("read event %s: %w", key, err)
		}
		var event model.Event
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", key, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// Prune deletes events older than the cutoff and returns how many were
// removed. Key order is chronological, so the scan stops at the first
// surviving key.
func (l *EventLog) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	keys, err := l.kv.Keys(ctx, keyPrefixEvents)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}
	sort.Strings(keys)

	cutoff := fmt.Sprintf("%s%020d", keyPrefixEvents, olderThan.UTC().UnixNano())
	pruned := 0
	for _, key := range keys {
		if key >= cutoff {
			break
		}
		if err := l.kv.Delete(ctx, key); err != nil {
			return pruned, fmt.Errorf("delete event %s: %w", key, err)
		}
		pruned++
	}
	return pruned, nil
}

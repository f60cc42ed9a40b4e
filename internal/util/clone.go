// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "time"

// CloneValue returns a structural deep copy of a decoded JSON-like value
// (maps, slices, scalars). Version snapshots must be independent of the
// caller's live objects, so the content store clones elements on save and
// on load instead of relying on serialization side effects.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []byte:
		out := make([]byte, len(val))
		copy(out, val)
		return out
	case time.Time:
		return val
	default:
		// Scalars (string, bool, numbers, nil) are immutable and safe to share.
		return val
	}
}

// CloneMap deep-copies a string-keyed map.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return CloneValue(m).(map[string]any)
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestIsSupportedMimeType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{MimeTypeMP4, true},
		{MimeTypeWebM, true},
		{"application/pdf", false},
		{"text/html", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsSupportedMimeType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedMimeType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestAllSupportedTypes(t *testing.T) {
	all := AllSupportedTypes()
	if len(all) != len(SupportedImageTypes())+len(SupportedVideoTypes()) {
		t.Errorf("AllSupportedTypes() has %d entries", len(all))
	}
	seen := make(map[string]bool)
	for _, mt := range all {
		if seen[mt] {
			t.Errorf("duplicate MIME type %q", mt)
		}
		seen[mt] = true
	}
}

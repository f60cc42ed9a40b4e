// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/redux-collective/redux-go/internal/model"
)

func TestParseVideoURL(t *testing.T) {
	tests := []struct {
		url          string
		wantProvider string
		wantEmbedID  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", model.ProviderYouTube, "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42", model.ProviderYouTube, "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", model.ProviderYouTube, "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", model.ProviderYouTube, "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abc123XYZ_-", model.ProviderYouTube, "abc123XYZ_-"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", model.ProviderYouTube, "dQw4w9WgXcQ"},
		{"https://vimeo.com/76979871", model.ProviderVimeo, "76979871"},
		{"https://www.vimeo.com/76979871", model.ProviderVimeo, "76979871"},
		{"https://player.vimeo.com/video/76979871", model.ProviderVimeo, "76979871"},
		{"https://drive.google.com/file/d/1aBcDeFgHiJ/view?usp=sharing", model.ProviderGoogleDrive, "1aBcDeFgHiJ"},
		{"https://drive.google.com/open?id=1aBcDeFgHiJ", model.ProviderGoogleDrive, "1aBcDeFgHiJ"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			link, err := ParseVideoURL(tt.url)
			if err != nil {
				t.Fatalf("ParseVideoURL(%q): %v", tt.url, err)
			}
			if link.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", link.Provider, tt.wantProvider)
			}
			if link.EmbedID != tt.wantEmbedID {
				t.Errorf("EmbedID = %q, want %q", link.EmbedID, tt.wantEmbedID)
			}
		})
	}
}

func TestParseVideoURL_Invalid(t *testing.T) {
	urls := []string{
		"",
		"not a url",
		"https://example.com/video.mp4",
		"https://www.youtube.com/",
		"https://vimeo.com/about",
		"https://drive.google.com/drive/folders/abc",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			if _, err := ParseVideoURL(u); err == nil {
				t.Errorf("ParseVideoURL(%q) succeeded, want error", u)
			}
		})
	}
}

func TestVideoLink_EmbedURL(t *testing.T) {
	tests := []struct {
		link VideoLink
		want string
	}{
		{VideoLink{Provider: model.ProviderYouTube, EmbedID: "dQw4w9WgXcQ"}, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{VideoLink{Provider: model.ProviderVimeo, EmbedID: "76979871"}, "https://player.vimeo.com/video/76979871"},
		{VideoLink{Provider: model.ProviderGoogleDrive, EmbedID: "1aBc"}, "https://drive.google.com/file/d/1aBc/preview"},
	}

	for _, tt := range tests {
		if got := tt.link.EmbedURL(); got != tt.want {
			t.Errorf("EmbedURL(%s) = %q, want %q", tt.link.Provider, got, tt.want)
		}
	}
}

func TestAssignVideoLink(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assignment, err := svc.AssignVideoLink(ctx, "reel", "https://youtu.be/dQw4w9WgXcQ", "Showreel 2026")
	if err != nil {
		t.Fatalf("AssignVideoLink: %v", err)
	}
	if assignment.Provider != model.ProviderYouTube {
		t.Errorf("Provider = %q, want youtube", assignment.Provider)
	}
	if assignment.EmbedID != "dQw4w9WgXcQ" {
		t.Errorf("EmbedID = %q", assignment.EmbedID)
	}
	if assignment.Title != "Showreel 2026" {
		t.Errorf("Title = %q", assignment.Title)
	}

	slot, err := svc.registry.Slot("reel")
	if err != nil {
		t.Fatalf("Slot: %v", err)
	}
	if slot.Assignment == nil || slot.Assignment.EmbedID != "dQw4w9WgXcQ" {
		t.Errorf("registry assignment = %+v", slot.Assignment)
	}
}

func TestAssignVideoLink_ImageSlot(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AssignVideoLink(context.Background(), "hero", "https://youtu.be/dQw4w9WgXcQ", "")
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAssignVideoLink_BadURL(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AssignVideoLink(context.Background(), "reel", "https://example.com/clip", "")
	if err == nil {
		t.Fatal("want error for unsupported URL")
	}

	// Parse failure lands in the slot's transient error state
	msg, slotErr := svc.registry.SlotError("reel")
	if slotErr != nil {
		t.Fatalf("SlotError: %v", slotErr)
	}
	if msg == "" {
		t.Error("slot error not recorded")
	}
}

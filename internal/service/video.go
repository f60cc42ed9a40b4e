// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/redux-collective/redux-go/internal/model"
)

// VideoLink is a parsed external video reference.
type VideoLink struct {
	Provider string
	EmbedID  string
}

// ParseVideoURL detects the hosting provider of a video URL and extracts the
// embed ID. Supported forms:
//
//	youtube.com/watch?v=ID, youtube.com/embed/ID, youtube.com/shorts/ID, youtu.be/ID
//	vimeo.com/ID
//	drive.google.com/file/d/ID/..., drive.google.com/open?id=ID
func ParseVideoURL(rawURL string) (*VideoLink, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, model.NewValidationError("url", "not a valid video URL")
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	segments := splitPath(u.Path)

	switch host {
	case "youtu.be":
		if len(segments) >= 1 {
			return &VideoLink{Provider: model.ProviderYouTube, EmbedID: segments[0]}, nil
		}
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if id := u.Query().Get("v"); id != "" {
			return &VideoLink{Provider: model.ProviderYouTube, EmbedID: id}, nil
		}
		if len(segments) >= 2 && (segments[0] == "embed" || segments[0] == "shorts") {
			return &VideoLink{Provider: model.ProviderYouTube, EmbedID: segments[1]}, nil
		}
	case "vimeo.com", "player.vimeo.com":
		for _, seg := range segments {
			if isDigits(seg) {
				return &VideoLink{Provider: model.ProviderVimeo, EmbedID: seg}, nil
			}
		}
	case "drive.google.com":
		if len(segments) >= 3 && segments[0] == "file" && segments[1] == "d" {
			return &VideoLink{Provider: model.ProviderGoogleDrive, EmbedID: segments[2]}, nil
		}
		if id := u.Query().Get("id"); id != "" {
			return &VideoLink{Provider: model.ProviderGoogleDrive, EmbedID: id}, nil
		}
	}

	return nil, model.NewValidationError("url",
		fmt.Sprintf("unsupported video URL %q", rawURL))
}

// EmbedURL builds the canonical embeddable player URL for a parsed link.
func (v *VideoLink) EmbedURL() string {
	switch v.Provider {
	case model.ProviderYouTube:
		return "https://www.youtube.com/embed/" + v.EmbedID
	case model.ProviderVimeo:
		return "https://player.vimeo.com/video/" + v.EmbedID
	case model.ProviderGoogleDrive:
		return "https://drive.google.com/file/d/" + v.EmbedID + "/preview"
	default:
		return ""
	}
}

// AssignVideoLink parses an external video URL and assigns it to a video
// slot. Image slots reject external links.
func (s *UploadService) AssignVideoLink(ctx context.Context, slotID, rawURL, title string) (*model.SlotAssignment, error) {
	def := s.registry.Catalog().ByID(slotID)
	if def == nil {
		return nil, model.NewNotFoundError("slot", slotID)
	}
	if !def.IsVideo() {
		return nil, model.NewValidationError("slot",
			fmt.Sprintf("slot %q does not accept video links", slotID))
	}

	link, err := ParseVideoURL(rawURL)
	if err != nil {
		_ = s.registry.SetError(slotID, err.Error())
		return nil, err
	}

	assignment := &model.SlotAssignment{
		URL:      link.EmbedURL(),
		Title:    title,
		Provider: link.Provider,
		EmbedID:  link.EmbedID,
	}
	if err := s.registry.UpdateAssignment(ctx, slotID, *assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

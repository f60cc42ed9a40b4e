// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Media slot kinds
const (
	SlotKindImage = "image"
	SlotKindVideo = "video"
)

// Video providers
const (
	ProviderUpload      = "upload"
	ProviderGoogleDrive = "google-drive"
	ProviderYouTube     = "youtube"
	ProviderVimeo       = "vimeo"
)

// SlotConstraints describes the optional limits an asset assigned to a slot
// should respect. Enforcement happens in the upload flow, not in the registry.
type SlotConstraints struct {
	MaxWidth     int      `json:"max_width,omitempty"`
	MaxHeight    int      `json:"max_height,omitempty"`
	MaxSizeBytes int64    `json:"max_size_bytes,omitempty"`
	AspectRatio  string   `json:"aspect_ratio,omitempty"` // e.g. "16:9"
	MimeTypes    []string `json:"mime_types,omitempty"`
}

// MediaSlotDefinition is one static catalog entry: a named placeholder for a
// single media asset at a fixed site location. Definitions are configuration
// and are never mutated at runtime.
type MediaSlotDefinition struct {
	ID          string           `json:"id"`
	PageID      string           `json:"page_id"`
	Kind        string           `json:"kind"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Folder      string           `json:"folder"`
	Tags        []string         `json:"tags,omitempty"`
	Constraints *SlotConstraints `json:"constraints,omitempty"`
	// Default is the compiled-in assignment restored by ResetSlot, if any.
	Default *SlotAssignment `json:"default,omitempty"`
}

// SlotAssignment is the asset currently assigned to a slot. Absence of an
// assignment means the slot is empty.
type SlotAssignment struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Alt         string `json:"alt,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	// Provider and EmbedID are set for video slots only.
	Provider string `json:"provider,omitempty"`
	EmbedID  string `json:"embed_id,omitempty"`
}

// IsImage returns true for image slot definitions.
func (d *MediaSlotDefinition) IsImage() bool {
	return d.Kind == SlotKindImage
}

// IsVideo returns true for video slot definitions.
func (d *MediaSlotDefinition) IsVideo() bool {
	return d.Kind == SlotKindVideo
}

// AllowsMimeType reports whether the slot's constraints permit the given MIME
// type. A slot without a MIME constraint allows any supported type.
func (d *MediaSlotDefinition) AllowsMimeType(mimeType string) bool {
	if d.Constraints == nil || len(d.Constraints.MimeTypes) == 0 {
		return true
	}
	for _, t := range d.Constraints.MimeTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

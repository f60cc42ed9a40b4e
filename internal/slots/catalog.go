// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package slots implements the media slot registry: a static catalog of named
// media placeholders across the REDUX site plus a persisted mapping from slot
// id to the currently assigned asset.
package slots

import (
	"fmt"

	"github.com/redux-collective/redux-go/internal/model"
)

// Catalog is an indexed, immutable set of slot definitions.
type Catalog struct {
	byID   map[string]*model.MediaSlotDefinition
	byPage map[string][]*model.MediaSlotDefinition
	order  []string
}

// NewCatalog builds a catalog from definitions. Duplicate ids are rejected
// because the catalog is compiled-in configuration and a duplicate is a
// programming error, not runtime input.
func NewCatalog(defs []model.MediaSlotDefinition) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[string]*model.MediaSlotDefinition, len(defs)),
		byPage: make(map[string][]*model.MediaSlotDefinition),
	}
	for i := range defs {
		def := defs[i]
		if def.ID == "" {
			return nil, fmt.Errorf("slot definition %d has no id", i)
		}
		if _, exists := c.byID[def.ID]; exists {
			return nil, fmt.Errorf("duplicate slot id %q", def.ID)
		}
		c.byID[def.ID] = &def
		c.byPage[def.PageID] = append(c.byPage[def.PageID], &def)
		c.order = append(c.order, def.ID)
	}
	return c, nil
}

// ByID returns a slot definition, or nil for an unknown id.
func (c *Catalog) ByID(slotID string) *model.MediaSlotDefinition {
	return c.byID[slotID]
}

// ByPage returns the slot definitions for a page, in declaration order.
// Unknown pages yield an empty result.
func (c *Catalog) ByPage(pageID string) []*model.MediaSlotDefinition {
	return c.byPage[pageID]
}

// IDs returns all slot ids in declaration order.
func (c *Catalog) IDs() []string {
	return c.order
}

// Len returns the number of slots in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// DefaultCatalog returns the compiled-in slot catalog for the REDUX site.
func DefaultCatalog() *Catalog {
	sixteenNine := &model.SlotConstraints{
		MaxWidth:     3840,
		MaxHeight:    2160,
		MaxSizeBytes: 20 << 20,
		AspectRatio:  "16:9",
		MimeTypes:    model.SupportedImageTypes(),
	}
	portrait := &model.SlotConstraints{
		MaxWidth:     1600,
		MaxHeight:    2400,
		MaxSizeBytes: 10 << 20,
		AspectRatio:  "2:3",
		MimeTypes:    model.SupportedImageTypes(),
	}
	square := &model.SlotConstraints{
		MaxWidth:     1200,
		MaxHeight:    1200,
		MaxSizeBytes: 8 << 20,
		AspectRatio:  "1:1",
		MimeTypes:    model.SupportedImageTypes(),
	}
	videoFile := &model.SlotConstraints{
		MaxSizeBytes: 200 << 20,
		MimeTypes:    model.SupportedVideoTypes(),
	}

	defs := []model.MediaSlotDefinition{
		// Home
		{
			ID: "hero-bg", PageID: "home", Kind: model.SlotKindImage,
			Name: "Hero background", Folder: "home/hero",
			Tags: []string{"hero", "fullscreen"}, Constraints: sixteenNine,
			Default: &model.SlotAssignment{
				URL: "/static/defaults/hero-bg.jpg", Filename: "hero-bg.jpg",
				Alt: "REDUX runway silhouette",
			},
		},
		{
			ID: "hero-reel", PageID: "home", Kind: model.SlotKindVideo,
			Name: "Hero reel", Description: "Looping runway reel behind the landing headline",
			Folder: "home/hero", Tags: []string{"hero", "loop"}, Constraints: videoFile,
		},
		{
			ID: "home-collection-1", PageID: "home", Kind: model.SlotKindImage,
			Name: "Collection teaser 1", Folder: "home/collections",
			Tags: []string{"teaser"}, Constraints: square,
		},
		{
			ID: "home-collection-2", PageID: "home", Kind: model.SlotKindImage,
			Name: "Collection teaser 2", Folder: "home/collections",
			Tags: []string{"teaser"}, Constraints: square,
		},
		{
			ID: "home-collection-3", PageID: "home", Kind: model.SlotKindImage,
			Name: "Collection teaser 3", Folder: "home/collections",
			Tags: []string{"teaser"}, Constraints: square,
		},

		// About
		{
			ID: "about-portrait", PageID: "about", Kind: model.SlotKindImage,
			Name: "Collective portrait", Folder: "about",
			Tags: []string{"portrait"}, Constraints: portrait,
		},
		{
			ID: "about-studio", PageID: "about", Kind: model.SlotKindImage,
			Name: "Studio interior", Folder: "about",
			Tags: []string{"studio"}, Constraints: sixteenNine,
		},
		{
			ID: "about-process", PageID: "about", Kind: model.SlotKindVideo,
			Name: "Process film", Description: "Behind-the-scenes making-of film",
			Folder: "about", Tags: []string{"film"}, Constraints: videoFile,
		},

		// Designers
		{
			ID: "designer-card-1", PageID: "designers", Kind: model.SlotKindImage,
			Name: "Designer card 1", Folder: "designers/cards",
			Tags: []string{"card"}, Constraints: portrait,
		},
		{
			ID: "designer-card-2", PageID: "designers", Kind: model.SlotKindImage,
			Name: "Designer card 2", Folder: "designers/cards",
			Tags: []string{"card"}, Constraints: portrait,
		},
		{
			ID: "designer-card-3", PageID: "designers", Kind: model.SlotKindImage,
			Name: "Designer card 3", Folder: "designers/cards",
			Tags: []string{"card"}, Constraints: portrait,
		},
		{
			ID: "designer-card-4", PageID: "designers", Kind: model.SlotKindImage,
			Name: "Designer card 4", Folder: "designers/cards",
			Tags: []string{"card"}, Constraints: portrait,
		},
		{
			ID: "designers-banner", PageID: "designers", Kind: model.SlotKindImage,
			Name: "Designers banner", Folder: "designers",
			Tags: []string{"banner"}, Constraints: sixteenNine,
		},

		// Exhibitions
		{
			ID: "exhibition-hero", PageID: "exhibitions", Kind: model.SlotKindImage,
			Name: "Exhibition hero", Folder: "exhibitions",
			Tags: []string{"hero"}, Constraints: sixteenNine,
		},
		{
			ID: "exhibition-walkthrough", PageID: "exhibitions", Kind: model.SlotKindVideo,
			Name: "Exhibition walkthrough", Description: "Gallery walkthrough, usually a hosted embed",
			Folder: "exhibitions", Tags: []string{"walkthrough"},
		},
		{
			ID: "exhibition-gallery-1", PageID: "exhibitions", Kind: model.SlotKindImage,
			Name: "Gallery image 1", Folder: "exhibitions/gallery",
			Tags: []string{"gallery"}, Constraints: sixteenNine,
		},
		{
			ID: "exhibition-gallery-2", PageID: "exhibitions", Kind: model.SlotKindImage,
			Name: "Gallery image 2", Folder: "exhibitions/gallery",
			Tags: []string{"gallery"}, Constraints: sixteenNine,
		},

		// Contact
		{
			ID: "contact-map", PageID: "contact", Kind: model.SlotKindImage,
			Name: "Studio map", Folder: "contact",
			Tags: []string{"map"}, Constraints: square,
		},
	}

	catalog, err := NewCatalog(defs)
	if err != nil {
		// The compiled-in catalog is validated by tests; failing here means
		// a broken build, not bad runtime input.
		panic(err)
	}
	return catalog
}

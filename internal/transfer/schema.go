// Package transfer provides whole-site export and import: every page's
// version history plus the media slot assignment map, serialized as one
// document.
package transfer

import (
	"time"

	"github.com/redux-collective/redux-go/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// ExportData is the complete export structure.
type ExportData struct {
	Version    string                          `json:"version"`
	ExportedAt time.Time                       `json:"exported_at"`
	Site       ExportSite                      `json:"site"`
	Pages      []model.PageBundle              `json:"pages,omitempty"`
	Slots      map[string]model.SlotAssignment `json:"slots,omitempty"`
}

// ExportSite carries basic site information.
type ExportSite struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// ImportOptions controls which parts of an export are restored.
type ImportOptions struct {
	// DryRun validates and counts without writing anything.
	DryRun bool
	// ImportPages restores page bundles.
	ImportPages bool
	// ImportSlots restores the slot assignment map.
	ImportSlots bool
	// AuthorID overrides the bundle authors when set.
	AuthorID string
}

// DefaultImportOptions restores everything.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ImportPages: true,
		ImportSlots: true,
	}
}

// ImportError describes one entity that failed to import.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Success  bool           `json:"success"`
	DryRun   bool           `json:"dry_run"`
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		Success:  true,
		DryRun:   dryRun,
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}
}

// AddError records a failed entity and marks the run unsuccessful.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Success = false
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}

// IncrementImported counts a restored entity.
func (r *ImportResult) IncrementImported(entity string) {
	r.Imported[entity]++
}

// IncrementSkipped counts a skipped entity.
func (r *ImportResult) IncrementSkipped(entity string) {
	r.Skipped[entity]++
}

// TotalImported sums restored entities across all types.
func (r *ImportResult) TotalImported() int {
	total := 0
	for _, n := range r.Imported {
		total += n
	}
	return total
}

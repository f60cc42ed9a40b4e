package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redux-collective/redux-go/internal/content"
	"github.com/redux-collective/redux-go/internal/slots"
	"github.com/redux-collective/redux-go/internal/util"
)

// Importer restores site export documents.
type Importer struct {
	content  *content.Store
	registry *slots.Registry
	logger   *slog.Logger
}

// NewImporter creates an importer over the given stores.
func NewImporter(contentStore *content.Store, registry *slots.Registry, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		content:  contentStore,
		registry: registry,
		logger:   logger,
	}
}

// Import restores an export document. Page restores are per-page wholesale
// replacements; a page that fails to validate is recorded and skipped, it
// does not abort the rest of the run.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	for _, verr := range i.Validate(data) {
		result.AddError(verr.Entity, verr.ID, verr.Message)
	}
	if !result.Success {
		return result, errors.New("validation failed")
	}

	if opts.DryRun {
		if opts.ImportPages {
			result.Imported["pages"] = len(data.Pages)
		}
		if opts.ImportSlots {
			result.Imported["slots"] = len(data.Slots)
		}
		return result, nil
	}

	if opts.ImportPages {
		for idx := range data.Pages {
			bundle := &data.Pages[idx]
			if err := i.content.ImportPage(ctx, bundle.PageID, bundle, opts.AuthorID); err != nil {
				i.logger.Warn("page import failed", "page", bundle.PageID, "error", err)
				result.AddError("page", bundle.PageID, err.Error())
				continue
			}
			result.IncrementImported("pages")
		}
	}

	if opts.ImportSlots {
		if err := i.registry.ReplaceAssignments(ctx, data.Slots); err != nil {
			result.AddError("slots", "", err.Error())
		} else {
			result.Imported["slots"] = len(data.Slots)
		}
	}

	i.logger.Info("site import finished",
		"imported", result.TotalImported(), "errors", len(result.Errors))
	return result, nil
}

// Validate checks the document's structural invariants without writing.
func (i *Importer) Validate(data *ExportData) []ImportError {
	var errs []ImportError

	if data == nil {
		return []ImportError{{Entity: "export", Message: "document is empty"}}
	}
	if data.Version != ExportVersion {
		errs = append(errs, ImportError{
			Entity:  "export",
			Message: fmt.Sprintf("unsupported format version %q, want %q", data.Version, ExportVersion),
		})
	}

	seen := make(map[string]bool)
	for _, bundle := range data.Pages {
		switch {
		case !util.IsValidSlug(bundle.PageID):
			errs = append(errs, ImportError{Entity: "page", ID: bundle.PageID, Message: "page ID is not a valid slug"})
		case seen[bundle.PageID]:
			errs = append(errs, ImportError{Entity: "page", ID: bundle.PageID, Message: "duplicate page ID"})
		case bundle.Metadata == nil:
			errs = append(errs, ImportError{Entity: "page", ID: bundle.PageID, Message: "bundle has no metadata"})
		}
		seen[bundle.PageID] = true
	}

	return errs
}

// ImportFromReader decodes and restores a JSON export document.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return i.Import(ctx, &data, opts)
}

// ImportFromFile restores an export document from a file.
func (i *Importer) ImportFromFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return i.ImportFromReader(ctx, f, opts)
}

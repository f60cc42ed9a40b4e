package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redux-collective/redux-go/internal/content"
	"github.com/redux-collective/redux-go/internal/slots"
)

// Exporter assembles site export documents.
type Exporter struct {
	content  *content.Store
	registry *slots.Registry
	site     ExportSite
	logger   *slog.Logger
}

// NewExporter creates an exporter over the given stores.
func NewExporter(contentStore *content.Store, registry *slots.Registry, site ExportSite, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		content:  contentStore,
		registry: registry,
		site:     site,
		logger:   logger,
	}
}

// Export collects every page bundle and the slot assignment map.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Site:       e.site,
		Slots:      e.registry.Assignments(),
	}

	pageIDs, err := e.content.PageIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	for _, pageID := range pageIDs {
		bundle, err := e.content.ExportPage(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("export page %s: %w", pageID, err)
		}
		data.Pages = append(data.Pages, *bundle)
	}

	e.logger.Info("site export assembled",
		"pages", len(data.Pages), "slots", len(data.Slots))
	return data, nil
}

// ExportToWriter streams the export document as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportToFile writes the export document to a file.
func (e *Exporter) ExportToFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return e.ExportToWriter(ctx, f)
}

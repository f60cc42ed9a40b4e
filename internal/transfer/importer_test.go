package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redux-collective/redux-go/internal/model"
)

func TestImportOptions_Defaults(t *testing.T) {
	opts := DefaultImportOptions()

	assert.False(t, opts.DryRun)
	assert.True(t, opts.ImportPages)
	assert.True(t, opts.ImportSlots)
	assert.Empty(t, opts.AuthorID)
}

func TestImportResult_Operations(t *testing.T) {
	result := NewImportResult(false)

	assert.True(t, result.Success)
	assert.False(t, result.DryRun)
	assert.Empty(t, result.Errors)

	result.IncrementImported("pages")
	result.IncrementImported("pages")
	result.IncrementSkipped("slots")

	assert.Equal(t, 2, result.Imported["pages"])
	assert.Equal(t, 1, result.Skipped["slots"])
	assert.Equal(t, 2, result.TotalImported())

	result.AddError("page", "home", "boom")
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)
}

func TestImport_RoundTrip(t *testing.T) {
	srcStore, srcRegistry := testStores(t)
	seedSite(t, srcStore, srcRegistry)
	ctx := context.Background()

	exporter := NewExporter(srcStore, srcRegistry, ExportSite{Name: "REDUX"}, nil)
	data, err := exporter.Export(ctx)
	require.NoError(t, err)

	dstStore, dstRegistry := testStores(t)
	importer := NewImporter(dstStore, dstRegistry, nil)

	result, err := importer.Import(ctx, data, DefaultImportOptions())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Imported["pages"])
	assert.Equal(t, 1, result.Imported["slots"])

	// Page state arrived intact
	elements, err := dstStore.Load(ctx, "home")
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, "REDUX", elements[0]["content"])

	meta, err := dstStore.Metadata(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.CurrentVersion)

	// Slot assignment arrived intact
	slot, err := dstRegistry.Slot("hero-bg")
	require.NoError(t, err)
	require.NotNil(t, slot.Assignment)
	assert.Equal(t, "/uploads/home/hero.jpg", slot.Assignment.URL)
}

func TestImport_DryRun(t *testing.T) {
	srcStore, srcRegistry := testStores(t)
	seedSite(t, srcStore, srcRegistry)
	ctx := context.Background()

	data, err := NewExporter(srcStore, srcRegistry, ExportSite{}, nil).Export(ctx)
	require.NoError(t, err)

	dstStore, dstRegistry := testStores(t)
	importer := NewImporter(dstStore, dstRegistry, nil)

	opts := DefaultImportOptions()
	opts.DryRun = true
	result, err := importer.Import(ctx, data, opts)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.Imported["pages"])

	// Nothing was written
	ids, err := dstStore.PageIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestImport_RejectsWrongVersion(t *testing.T) {
	dstStore, dstRegistry := testStores(t)
	importer := NewImporter(dstStore, dstRegistry, nil)

	data := &ExportData{Version: "9.9"}
	result, err := importer.Import(context.Background(), data, DefaultImportOptions())
	require.Error(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "export", result.Errors[0].Entity)
}

func TestValidate(t *testing.T) {
	importer := NewImporter(nil, nil, nil)
	meta := &model.PageMetadata{PageID: "home"}

	tests := []struct {
		name     string
		data     *ExportData
		wantErrs int
	}{
		{
			name:     "valid",
			data:     &ExportData{Version: ExportVersion, Pages: []model.PageBundle{{PageID: "home", Metadata: meta}}},
			wantErrs: 0,
		},
		{
			name:     "bad page id",
			data:     &ExportData{Version: ExportVersion, Pages: []model.PageBundle{{PageID: "Home Page", Metadata: meta}}},
			wantErrs: 1,
		},
		{
			name: "duplicate page",
			data: &ExportData{Version: ExportVersion, Pages: []model.PageBundle{
				{PageID: "home", Metadata: meta},
				{PageID: "home", Metadata: meta},
			}},
			wantErrs: 1,
		},
		{
			name:     "missing metadata",
			data:     &ExportData{Version: ExportVersion, Pages: []model.PageBundle{{PageID: "home"}}},
			wantErrs: 1,
		},
		{
			name:     "nil document",
			data:     nil,
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, importer.Validate(tt.data), tt.wantErrs)
		})
	}
}

func TestImport_SkipsSlotsWhenDisabled(t *testing.T) {
	srcStore, srcRegistry := testStores(t)
	seedSite(t, srcStore, srcRegistry)
	ctx := context.Background()

	data, err := NewExporter(srcStore, srcRegistry, ExportSite{}, nil).Export(ctx)
	require.NoError(t, err)

	dstStore, dstRegistry := testStores(t)
	importer := NewImporter(dstStore, dstRegistry, nil)

	opts := DefaultImportOptions()
	opts.ImportSlots = false
	result, err := importer.Import(ctx, data, opts)
	require.NoError(t, err)
	assert.Zero(t, result.Imported["slots"])

	slot, err := dstRegistry.Slot("hero-bg")
	require.NoError(t, err)
	assert.Nil(t, slot.Assignment)
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redux-collective/redux-go/internal/content"
	"github.com/redux-collective/redux-go/internal/kv"
	"github.com/redux-collective/redux-go/internal/logging"
	"github.com/redux-collective/redux-go/internal/model"
	"github.com/redux-collective/redux-go/internal/service"
	"github.com/redux-collective/redux-go/internal/slots"
	"github.com/redux-collective/redux-go/internal/transfer"
)

// testEnv bundles the API server with the backing components that tests
// need to poke at directly.
type testEnv struct {
	srv    *httptest.Server
	events *logging.EventLog
}

// newTestServer builds a full API stack on an in-memory backend.
func newTestServer(t *testing.T) *httptest.Server {
	return newTestEnv(t).srv
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kvs := kv.NewMemoryStore()
	store := content.NewStore(kvs, content.StoreOptions{})

	catalog, err := slots.NewCatalog([]model.MediaSlotDefinition{
		{ID: "hero-bg", PageID: "home", Kind: model.SlotKindImage, Name: "Hero Background", Folder: "home"},
		{ID: "hero-reel", PageID: "home", Kind: model.SlotKindVideo, Name: "Showreel", Folder: "video"},
		{ID: "about-portrait", PageID: "about", Kind: model.SlotKindImage, Name: "Portrait", Folder: "about"},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	registry, err := slots.NewRegistry(context.Background(), catalog, kvs)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	uploads := service.NewUploadService(registry, t.TempDir())
	events := logging.NewEventLog(kvs)
	site := transfer.ExportSite{Name: "REDUX"}
	exporter := transfer.NewExporter(store, registry, site, nil)
	importer := transfer.NewImporter(store, registry, nil)

	h := NewHandler(store, registry, uploads, events, exporter, importer, "test")
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, events: events}
}

// doJSON issues a request with a JSON body and decodes the response wrapper.
func doJSON(t *testing.T, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// data extracts the "data" object from a response wrapper.
func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	return d
}

// saveVersion saves one version through the API and returns its payload.
func saveVersion(t *testing.T, base, pageID string, publish bool, contentText string) map[string]any {
	t.Helper()
	status, body := doJSON(t, http.MethodPut, base+"/pages/"+pageID+"/content", SaveContentRequest{
		Elements: []model.Element{{"type": "headline", "content": contentText}},
		AuthorID: "alice",
		Publish:  publish,
	})
	if status != http.StatusCreated {
		t.Fatalf("save version: status = %d, body %v", status, body)
	}
	return data(t, body)
}

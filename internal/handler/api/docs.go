// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
)

//go:embed docs/editor-guide.md
var editorGuideMarkdown []byte

var (
	docsOnce sync.Once
	docsHTML []byte
	docsErr  error
)

// ServeDocs renders the embedded editor guide as HTML. The markdown is
// compiled once and cached for the process lifetime.
func (h *Handler) ServeDocs(w http.ResponseWriter, _ *http.Request) {
	docsOnce.Do(func() {
		var buf bytes.Buffer
		if err := goldmark.Convert(editorGuideMarkdown, &buf); err != nil {
			docsErr = err
			return
		}
		docsHTML = buf.Bytes()
	})
	if docsErr != nil {
		WriteInternalError(w, "Failed to render documentation")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(docsHTML)
}

// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging probes uploaded image data for its real format and
// dimensions. Assets are stored as uploaded; no resizing or format
// conversion happens here.
package imaging

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/redux-collective/redux-go/internal/model"
)

// ProbeResult describes an uploaded image.
type ProbeResult struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
}

// Probe decodes image data and returns its display dimensions and detected
// MIME type. Dimensions honor the EXIF orientation tag: a camera photo
// stored rotated reports the width and height a browser will render.
func Probe(data []byte) (*ProbeResult, error) {
	mimeType := DetectMimeType(data)
	if !isImageMimeType(mimeType) {
		return nil, fmt.Errorf("unsupported image format %q", mimeType)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Orientations 5-8 are 90° rotations: rendered width and height swap.
	if orientation := readExifOrientation(bytes.NewReader(data)); orientation >= 5 && orientation <= 8 {
		width, height = height, width
	}

	return &ProbeResult{
		Width:    width,
		Height:   height,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

// DetectMimeType sniffs the MIME type of uploaded data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	// http.DetectContentType returns types like "image/jpeg; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

func isImageMimeType(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}

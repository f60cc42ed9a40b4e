package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/redux-collective/redux-go/internal/model"
)

// encodePNG renders a blank image of the given size.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestProbe_PNG(t *testing.T) {
	data := encodePNG(t, 640, 360)

	result, err := Probe(data)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if result.Width != 640 || result.Height != 360 {
		t.Errorf("dimensions = %dx%d, want 640x360", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", result.MimeType, model.MimeTypePNG)
	}
	if result.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", result.Size, len(data))
	}
}

func TestProbe_JPEG(t *testing.T) {
	result, err := Probe(encodeJPEG(t, 100, 200))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if result.Width != 100 || result.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 100x200", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", result.MimeType, model.MimeTypeJPEG)
	}
}

func TestProbe_RejectsNonImage(t *testing.T) {
	if _, err := Probe([]byte("just some text, definitely not pixels")); err == nil {
		t.Error("Probe should reject non-image data")
	}
}

func TestDetectMimeType(t *testing.T) {
	if got := DetectMimeType(encodePNG(t, 1, 1)); got != model.MimeTypePNG {
		t.Errorf("DetectMimeType(png) = %q", got)
	}
	if got := DetectMimeType([]byte("plain text")); got == model.MimeTypePNG {
		t.Errorf("DetectMimeType(text) = %q", got)
	}
}

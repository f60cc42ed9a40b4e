// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the upload flow that feeds the media slot
// registry. Constraint checking lives here: the registry stores whatever it
// is given, so everything about a file that can be wrong must be caught
// before the assignment is written.
package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"

	"github.com/redux-collective/redux-go/internal/imaging"
	"github.com/redux-collective/redux-go/internal/model"
	"github.com/redux-collective/redux-go/internal/slots"
	"github.com/redux-collective/redux-go/internal/util"
)

// Upload limits
const (
	// MaxUploadSize is the hard ceiling regardless of slot constraints.
	MaxUploadSize    = 200 * 1024 * 1024
	DefaultUploadDir = "./uploads"
)

// aspectTolerance is the relative deviation allowed when checking a slot's
// declared aspect ratio, to absorb off-by-a-pixel crops.
const aspectTolerance = 0.01

// UploadService stores uploaded files on disk and assigns the resulting
// descriptor to a media slot.
type UploadService struct {
	registry  *slots.Registry
	uploadDir string
}

// NewUploadService creates an upload service writing under uploadDir.
func NewUploadService(registry *slots.Registry, uploadDir string) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &UploadService{
		registry:  registry,
		uploadDir: uploadDir,
	}
}

// UploadToSlot validates an uploaded file against the slot's declared
// constraints, stores it under the slot's folder and updates the slot
// assignment. While the upload is in flight the slot is flagged loading;
// failures are recorded as the slot's transient error before returning.
func (s *UploadService) UploadToSlot(ctx context.Context, slotID string, file multipart.File, header *multipart.FileHeader) (*model.SlotAssignment, error) {
	def := s.registry.Catalog().ByID(slotID)
	if def == nil {
		return nil, model.NewNotFoundError("slot", slotID)
	}

	_ = s.registry.SetLoading(slotID, true)
	defer func() { _ = s.registry.SetLoading(slotID, false) }()

	assignment, err := s.processUpload(ctx, def, file, header)
	if err != nil {
		_ = s.registry.SetError(slotID, err.Error())
		return nil, err
	}

	if err := s.registry.UpdateAssignment(ctx, slotID, *assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *UploadService) processUpload(_ context.Context, def *model.MediaSlotDefinition, file multipart.File, header *multipart.FileHeader) (*model.SlotAssignment, error) {
	if header.Size > MaxUploadSize {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("size exceeds maximum allowed (%d bytes)", int64(MaxUploadSize)))
	}
	if c := def.Constraints; c != nil && c.MaxSizeBytes > 0 && header.Size > c.MaxSizeBytes {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("size %d exceeds slot limit of %d bytes", header.Size, c.MaxSizeBytes))
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, model.NewStorageError("read upload", err)
	}
	// Re-check against the bytes actually read: header.Size is
	// client-supplied and may understate the payload.
	if int64(len(data)) > MaxUploadSize {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("size exceeds maximum allowed (%d bytes)", int64(MaxUploadSize)))
	}
	if c := def.Constraints; c != nil && c.MaxSizeBytes > 0 && int64(len(data)) > c.MaxSizeBytes {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("size %d exceeds slot limit of %d bytes", int64(len(data)), c.MaxSizeBytes))
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}

	if def.IsImage() {
		probe, err := imaging.Probe(data)
		if err != nil {
			return nil, model.NewValidationError("file", err.Error())
		}
		// Trust the bytes over the declared header
		mimeType = probe.MimeType
		if err := checkImageConstraints(def, probe); err != nil {
			return nil, err
		}
	}

	if !model.IsSupportedMimeType(mimeType) {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("file type %s is not allowed", mimeType))
	}
	if !def.AllowsMimeType(mimeType) {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("slot %q does not accept %s", def.ID, mimeType))
	}
	if def.IsVideo() && !isVideoMimeType(mimeType) {
		return nil, model.NewValidationError("file",
			fmt.Sprintf("slot %q accepts video files, got %s", def.ID, mimeType))
	}

	filename := sanitizeFilename(header.Filename)
	storedName := uuid.New().String() + "-" + filename

	if err := s.saveFile(def.Folder, storedName, data); err != nil {
		return nil, err
	}

	assignment := &model.SlotAssignment{
		URL:      "/uploads/" + path.Join(filepath.ToSlash(def.Folder), storedName),
		Filename: filename,
	}
	if def.IsVideo() {
		assignment.Provider = model.ProviderUpload
	}
	return assignment, nil
}

// saveFile writes upload data under the slot's folder inside the upload dir.
func (s *UploadService) saveFile(folder, filename string, data []byte) error {
	dir, err := util.SafeJoinPath(s.uploadDir, filepath.FromSlash(folder))
	if err != nil {
		return model.NewValidationError("folder", err.Error())
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return model.NewStorageError("create upload directory", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return model.NewStorageError("write upload", err)
	}
	return nil
}

// checkImageConstraints validates probed dimensions against the slot's
// declared limits.
func checkImageConstraints(def *model.MediaSlotDefinition, probe *imaging.ProbeResult) error {
	c := def.Constraints
	if c == nil {
		return nil
	}
	if c.MaxWidth > 0 && probe.Width > c.MaxWidth {
		return model.NewValidationError("file",
			fmt.Sprintf("width %dpx exceeds slot limit of %dpx", probe.Width, c.MaxWidth))
	}
	if c.MaxHeight > 0 && probe.Height > c.MaxHeight {
		return model.NewValidationError("file",
			fmt.Sprintf("height %dpx exceeds slot limit of %dpx", probe.Height, c.MaxHeight))
	}
	if c.AspectRatio != "" {
		want, err := parseAspectRatio(c.AspectRatio)
		if err != nil {
			return model.NewValidationError("constraints", err.Error())
		}
		got := float64(probe.Width) / float64(probe.Height)
		if math.Abs(got-want)/want > aspectTolerance {
			return model.NewValidationError("file",
				fmt.Sprintf("aspect ratio %dx%d does not match required %s", probe.Width, probe.Height, c.AspectRatio))
		}
	}
	return nil
}

// parseAspectRatio converts "16:9" into 16/9.
func parseAspectRatio(ratio string) (float64, error) {
	parts := strings.SplitN(ratio, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid aspect ratio %q", ratio)
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, fmt.Errorf("invalid aspect ratio %q", ratio)
	}
	return w / h, nil
}

// sanitizeFilename reduces an uploaded filename to a safe ASCII name.
func sanitizeFilename(filename string) string {
	// Remove path separators
	filename = filepath.Base(filepath.FromSlash(filename))

	// Transliterate to ASCII so object names survive any filesystem
	filename = unidecode.Unidecode(filename)

	// Replace problematic characters
	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)

	// Ensure we have an extension
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	return filename
}

// mimeTypeFromExtension guesses a MIME type when the upload carries no
// Content-Type header.
func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".mp4":
		return model.MimeTypeMP4
	case ".webm":
		return model.MimeTypeWebM
	default:
		return "application/octet-stream"
	}
}

func isVideoMimeType(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeMP4, model.MimeTypeWebM:
		return true
	default:
		return false
	}
}

package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/redux-collective/redux-go/internal/kv"
	"github.com/redux-collective/redux-go/internal/model"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestEventLogHandler_ErrorLevel(t *testing.T) {
	events := NewEventLog(kv.NewMemoryStore())
	logger := slog.New(NewEventLogHandler(discardHandler{}, events))

	logger.Error("redis connection failed", "host", "localhost", "port", 6379)

	got, err := events.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want error", got[0].Level)
	}
	if got[0].Message != "redis connection failed" {
		t.Errorf("Message = %q", got[0].Message)
	}
	if !strings.Contains(got[0].Metadata, `"host":"localhost"`) {
		t.Errorf("Metadata = %q, want host attribute", got[0].Metadata)
	}
}

func TestEventLogHandler_InfoNotForwarded(t *testing.T) {
	events := NewEventLog(kv.NewMemoryStore())
	logger := slog.New(NewEventLogHandler(discardHandler{}, events))

	logger.Info("page published", "page", "home")
	logger.Warn("slot assignment rejected", "slot", "hero-bg")

	got, err := events.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want only the warning", len(got))
	}
	if got[0].Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want warning", got[0].Level)
	}
	if got[0].Category != model.EventCategorySlots {
		t.Errorf("Category = %q, want slots", got[0].Category)
	}
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	events := NewEventLog(kv.NewMemoryStore())
	logger := slog.New(NewEventLogHandler(discardHandler{}, events))

	logger.Error("something odd", "category", model.EventCategoryUpload)

	got, err := events.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Category != model.EventCategoryUpload {
		t.Errorf("Category = %q, want upload", got[0].Category)
	}
	// The category attribute must not leak into metadata
	if strings.Contains(got[0].Metadata, "category") {
		t.Errorf("Metadata = %q, category should be stripped", got[0].Metadata)
	}
}

func TestExtractCategory_Inference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"failed to write page version", model.EventCategoryContent},
		{"slot hero-bg has no assignment", model.EventCategorySlots},
		{"upload rejected", model.EventCategoryUpload},
		{"invalid config value", model.EventCategoryConfig},
		{"scheduler tick overran", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := slog.NewRecord(time.Now(), slog.LevelWarn, tt.message, 0)
			if got := extractCategory(r); got != tt.want {
				t.Errorf("extractCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestEventLog_ListNewestFirst(t *testing.T) {
	events := NewEventLog(kv.NewMemoryStore())
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		if _, err := events.Record(ctx, model.EventLevelInfo, model.EventCategorySystem, msg, "{}"); err != nil {
			t.Fatalf("Record(%q): %v", msg, err)
		}
	}

	got, err := events.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Message != "third" || got[1].Message != "second" {
		t.Errorf("order = [%s %s], want [third second]", got[0].Message, got[1].Message)
	}
}

func TestEventLog_Prune(t *testing.T) {
	events := NewEventLog(kv.NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := events.Record(ctx, model.EventLevelInfo, model.EventCategorySystem, "old", "{}"); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	cutoff := time.Now().Add(time.Second)

	pruned, err := events.Prune(ctx, cutoff)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 5 {
		t.Errorf("pruned = %d, want 5", pruned)
	}

	got, err := events.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d events after prune, want 0", len(got))
	}
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInit_SetsProcessDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	log := Init()

	if log == nil {
		t.Fatal("Init returned nil logger")
	}
	if slog.Default() != log {
		t.Error("Init must install the logger as the process default")
	}
}

func TestInit_HonorsLogLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	t.Setenv("LOG_LEVEL", "error")
	log := Init()

	ctx := context.Background()
	if log.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be suppressed at error level")
	}
	if !log.Enabled(ctx, slog.LevelError) {
		t.Error("error level must stay enabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTraceContextHandler_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewTraceContextHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(original)

	ctx, span := tp.Tracer("test").Start(context.Background(), "test-span")
	log.InfoContext(ctx, "hello")
	span.End()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if _, ok := entry["trace_id"]; !ok {
		t.Error("expected trace_id in log entry")
	}
	if _, ok := entry["span_id"]; !ok {
		t.Error("expected span_id in log entry")
	}
}

func TestTraceContextHandler_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	handler := NewTraceContextHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	log.InfoContext(context.Background(), "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if _, ok := entry["trace_id"]; ok {
		t.Error("did not expect trace_id without an active span")
	}
}

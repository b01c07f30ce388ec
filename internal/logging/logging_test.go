package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	debug := New("debug", "text")
	if !debug.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug logger should enable debug records")
	}

	errOnly := New("error", "json")
	if errOnly.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("error logger should suppress info records")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if id := RequestID(ctx); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}

	ctx = WithRequestID(ctx, "req_abc")
	if id := RequestID(ctx); id != "req_abc" {
		t.Errorf("got %q, want req_abc", id)
	}

	ctx = WithRequestID(ctx, "req_def")
	if id := RequestID(ctx); id != "req_def" {
		t.Errorf("latest request ID should win, got %q", id)
	}
}

func TestLoggerRoundTrip(t *testing.T) {
	ctx := context.Background()

	if FromContext(ctx) == nil {
		t.Fatal("expected default logger when none set")
	}

	custom := New("debug", "json")
	ctx = WithLogger(ctx, custom)
	if FromContext(ctx) != custom {
		t.Error("expected the context logger back")
	}
}

func TestLAttachesRequestID(t *testing.T) {
	ctx := WithLogger(context.Background(), New("info", "text"))

	if L(ctx) == nil {
		t.Fatal("L without request ID should return the base logger")
	}

	ctx = WithRequestID(ctx, "req_xyz")
	if L(ctx) == nil {
		t.Fatal("L with request ID should return an annotated logger")
	}
}

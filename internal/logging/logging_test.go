package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupRespectsLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	Setup("stdout", "error")
	ctx := context.Background()
	if slog.Default().Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be suppressed at level error")
	}
	if !slog.Default().Enabled(ctx, slog.LevelError) {
		t.Error("error should be enabled at level error")
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return out
}

func TestLogger_Fields(t *testing.T) {
	tests := []struct {
		name  string
		build func(l *Logger) *Logger
		key   string
		want  string
	}{
		{"component", func(l *Logger) *Logger { return l.WithComponent("virustotal") }, "component", "virustotal"},
		{"request id", func(l *Logger) *Logger { return l.WithRequestID("req-1") }, "request_id", "req-1"},
		{"error", func(l *Logger) *Logger { return l.WithError(errors.New("boom")) }, "error", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

			tt.build(base).Info().Msg("hello")

			line := decodeLine(t, &buf)
			if line[tt.key] != tt.want {
				t.Errorf("%s = %v, want %q", tt.key, line[tt.key], tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"warning", "warn"},
		{"off", "disabled"},
		{"", "info"},
		{"nonsense", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in).String(); got != tt.want {
				t.Errorf("parseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

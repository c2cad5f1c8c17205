package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"upper case", "WARN", zerolog.WarnLevel},
		{"unknown falls back to info", "loud", zerolog.InfoLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLogger(tt.level, &bytes.Buffer{})
			if got := log.GetLevel(); got != tt.want {
				t.Errorf("NewLogger(%q) level = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("info", &buf)
	log.Debug().Msg("hidden")
	log.Info().Str("ticker", "AAPL").Msg("loaded")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %s", out)
	}
	if !strings.Contains(out, `"ticker":"AAPL"`) || !strings.Contains(out, `"time"`) {
		t.Errorf("unexpected log line: %s", out)
	}
}

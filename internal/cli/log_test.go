package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maskgen/pkg/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("placed device") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("placed device") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("placed device") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	f, err := formatter("json")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.SetFormatter(f)
	l.Info("generated mask", "devices", 5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "generated mask" {
		t.Errorf("entry = %v", entry)
	}

	for _, name := range []string{"", "text", "logfmt"} {
		if _, err := formatter(name); err != nil {
			t.Errorf("formatter(%q): %v", name, err)
		}
	}
	if _, err := formatter("xml"); !errors.Is(err, errors.ErrCodeInvalidParam) {
		t.Errorf("formatter(xml) err = %v", err)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Wrote chip.gds")

	out := buf.String()
	if !strings.Contains(out, "Wrote chip.gds (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output %q", out)
	}
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestInitConsoleOnly(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	if err := Init(Options{NoFile: true, Console: &buf}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestInitVerboseWritesFile(t *testing.T) {
	restoreGlobals(t)
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer

	if err := Init(Options{Verbose: true, LogDir: dir, Console: &buf}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	log.Debug().Str("k", "v").Msg("trace line")

	if !strings.Contains(buf.String(), "trace line") {
		t.Errorf("console missing debug message: %q", buf.String())
	}
	raw, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(raw), `"message":"trace line"`) {
		t.Errorf("log file missing JSON entry: %q", raw)
	}
}

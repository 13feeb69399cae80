package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"lowmedian/internal/median"
)

// isolateEnv registers cleanup for keys and clears them for the test.
func isolateEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

var solverKeys = []string{
	"MEDIAN_MAXDIFF", "MEDIAN_FACTOR", "MEDIAN_DECREASE", "MEDIAN_CHUNKS",
	"MEDIAN_NTHREADS", "MEDIAN_MAX_ITERATIONS", "MEDIAN_METRICS_FILE", "LOGS_FOLDER",
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t, solverKeys...)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := SolverConfig{
		MaxDiff:  median.DefaultMaxDiff,
		Factor:   median.DefaultFactor,
		Decrease: median.DefaultDecrease,
		Chunks:   median.DefaultChunks,
	}
	if cfg.Solver != want {
		t.Errorf("Load() solver = %+v, want %+v", cfg.Solver, want)
	}
	if cfg.MetricsFile != "" {
		t.Errorf("Load() metrics file = %q, want empty", cfg.MetricsFile)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	isolateEnv(t, solverKeys...)
	t.Chdir(t.TempDir())
	t.Setenv("MEDIAN_MAXDIFF", "-0.01")
	t.Setenv("MEDIAN_FACTOR", "0.3")
	t.Setenv("MEDIAN_DECREASE", "bogus")
	t.Setenv("MEDIAN_NTHREADS", "4")
	t.Setenv("MEDIAN_MAX_ITERATIONS", "100")
	t.Setenv("LOGS_FOLDER", "/tmp/median-logs")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := SolverConfig{MaxDiff: -0.01, Factor: 0.3, Decrease: median.DefaultDecrease, Chunks: 4, MaxIterations: 100}
	if cfg.Solver != want {
		t.Errorf("Load() solver = %+v, want %+v", cfg.Solver, want)
	}
	if cfg.LogDir != "/tmp/median-logs" {
		t.Errorf("Load() log dir = %q, want /tmp/median-logs", cfg.LogDir)
	}

	// MEDIAN_CHUNKS wins over the legacy name.
	t.Setenv("MEDIAN_CHUNKS", "2")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Solver.Chunks != 2 {
		t.Errorf("Load() chunks = %d, want 2", cfg.Solver.Chunks)
	}
}

func TestLoadDotenvInWorkingDirectory(t *testing.T) {
	isolateEnv(t, solverKeys...)
	dir := t.TempDir()
	t.Chdir(dir)

	content := "MEDIAN_FACTOR='0.25'\nMEDIAN_CHUNKS=3\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Solver.Factor != 0.25 || cfg.Solver.Chunks != 3 {
		t.Errorf("Load() solver = %+v, want factor 0.25 and chunks 3", cfg.Solver)
	}
}

func TestLoadTOMLOverridesEnvironment(t *testing.T) {
	isolateEnv(t, solverKeys...)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MEDIAN_FACTOR", "0.3")
	t.Setenv("MEDIAN_DECREASE", "0.4")

	path := filepath.Join(dir, "median.toml")
	content := `metrics_file = "/tmp/median.prom"

[solver]
factor = 0.1
chunks = 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Solver.Factor != 0.1 {
		t.Errorf("factor = %v, want 0.1 from file", cfg.Solver.Factor)
	}
	if cfg.Solver.Decrease != 0.4 {
		t.Errorf("decrease = %v, want 0.4 from environment", cfg.Solver.Decrease)
	}
	if cfg.Solver.Chunks != 0 {
		t.Errorf("chunks = %d, want 0 from file", cfg.Solver.Chunks)
	}
	if cfg.MetricsFile != "/tmp/median.prom" {
		t.Errorf("metrics file = %q, want /tmp/median.prom", cfg.MetricsFile)
	}
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t, solverKeys...)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "median.toml")
	if err := os.WriteFile(path, []byte("[solver]\nfactr = 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for unknown key, got nil")
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestResolveChunks(t *testing.T) {
	cpus := runtime.NumCPU()
	tests := []struct {
		name     string
		chunks   int
		n        int
		expected int
	}{
		{"Explicit", 4, 100, 4},
		{"ExplicitTooLarge", 8, 3, 8},
		{"AutoLarge", 0, 1 << 30, cpus},
		{"AutoCapped", 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SolverConfig{Chunks: tt.chunks}
			if got := s.ResolveChunks(tt.n); got != tt.expected {
				t.Errorf("ResolveChunks() = %d, want %d", got, tt.expected)
			}
		})
	}
}

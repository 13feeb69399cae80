package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"lowmedian/internal/median"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// SolverConfig holds the tuning of the partition search.
type SolverConfig struct {
	MaxDiff       float64
	Factor        float64
	Decrease      float64
	Chunks        int // 0 means one per CPU
	MaxIterations int
}

// Params converts the configuration into solver parameters for a dataset
// of n values.
func (s SolverConfig) Params(n int) median.Params {
	return median.Params{
		MaxDiff:       s.MaxDiff,
		Factor:        s.Factor,
		Decrease:      s.Decrease,
		Chunks:        s.ResolveChunks(n),
		MaxIterations: s.MaxIterations,
	}
}

// ResolveChunks maps the configured chunk count onto a dataset of n values.
// Zero selects one chunk per CPU, capped at n. Explicit counts pass through
// unchanged so the solver can reject them.
func (s SolverConfig) ResolveChunks(n int) int {
	if s.Chunks != 0 {
		return s.Chunks
	}
	chunks := runtime.NumCPU()
	if n > 0 && chunks > n {
		chunks = n
	}
	return chunks
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Solver      SolverConfig
	DataPath    string
	LogDir      string
	MetricsFile string
}

// fileConfig mirrors the optional TOML file. Pointers tell unset keys apart.
type fileConfig struct {
	MetricsFile *string `toml:"metrics_file"`
	LogDir      *string `toml:"log_dir"`
	Solver      struct {
		MaxDiff       *float64 `toml:"maxdiff"`
		Factor        *float64 `toml:"factor"`
		Decrease      *float64 `toml:"decrease"`
		Chunks        *int     `toml:"chunks"`
		MaxIterations *int     `toml:"max_iterations"`
	} `toml:"solver"`
}

// Load loads the configuration from .env files and environment variables,
// then applies configFile (TOML) on top when it is not empty.
func Load(configFile string) (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))

	chunksKey := "MEDIAN_CHUNKS"
	if _, ok := os.LookupEnv(chunksKey); !ok {
		chunksKey = "MEDIAN_NTHREADS"
	}

	cfg := &AppConfig{
		Solver: SolverConfig{
			MaxDiff:       getEnvFloat("MEDIAN_MAXDIFF", median.DefaultMaxDiff),
			Factor:        getEnvFloat("MEDIAN_FACTOR", median.DefaultFactor),
			Decrease:      getEnvFloat("MEDIAN_DECREASE", median.DefaultDecrease),
			Chunks:        getEnvInt(chunksKey, median.DefaultChunks),
			MaxIterations: getEnvInt("MEDIAN_MAX_ITERATIONS", 0),
		},
		DataPath:    dataPath,
		LogDir:      logDir,
		MetricsFile: getEnv("MEDIAN_METRICS_FILE", ""),
	}

	if configFile != "" {
		if err := cfg.applyFile(configFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	var fc fileConfig
	if err := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&fc); err != nil {
		return fmt.Errorf("failed to decode configuration %s: %w", path, err)
	}

	if fc.MetricsFile != nil {
		c.MetricsFile = *fc.MetricsFile
	}
	if fc.LogDir != nil {
		c.LogDir = *fc.LogDir
	}
	if v := fc.Solver.MaxDiff; v != nil {
		c.Solver.MaxDiff = *v
	}
	if v := fc.Solver.Factor; v != nil {
		c.Solver.Factor = *v
	}
	if v := fc.Solver.Decrease; v != nil {
		c.Solver.Decrease = *v
	}
	if v := fc.Solver.Chunks; v != nil {
		c.Solver.Chunks = *v
	}
	if v := fc.Solver.MaxIterations; v != nil {
		c.Solver.MaxIterations = *v
	}
	log.Debug().Str("path", path).Msg("Applied configuration file")
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid number in environment")
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid integer in environment")
	}
	return fallback
}

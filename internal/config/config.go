// Package config loads settings for both binaries.
//
// LAYERING:
// Default() → TOML file → environment variables. Each layer only overrides
// what it sets, so a config file can name a single key and keep every other
// default. Env always wins, which makes one-off overrides easy:
//
//	PYSNAP_SERVER_URL=http://10.0.0.5:8000 pysnap
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is read when PYSNAP_CONFIG is unset.
const DefaultPath = "pysnap.toml"

type Config struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
}

type ClientConfig struct {
	ServerURL      string   `toml:"server_url"`
	Locale         string   `toml:"locale"` // empty: detect from the environment
	PrefsPath      string   `toml:"prefs_path"`
	DownloadDir    string   `toml:"download_dir"`
	TimeoutSeconds float64  `toml:"timeout_seconds"`
	TimeoutEnabled bool     `toml:"timeout_enabled"`
	LogFile        string   `toml:"log_file"`
	LogLevel       string   `toml:"log_level"`
	RequestTimeout Duration `toml:"request_timeout"`
	HistoryFile    string   `toml:"history_file"`
}

type ServerConfig struct {
	Addr        string `toml:"addr"`
	TempDir     string `toml:"temp_dir"`
	DBPath      string `toml:"db_path"`
	PythonBin   string `toml:"python_bin"`
	Executor    string `toml:"executor"` // "subprocess" or "docker"
	DockerImage string `toml:"docker_image"`
	MaxList     int    `toml:"max_list"`
	LogFile     string `toml:"log_file"`
	LogLevel    string `toml:"log_level"`
}

// Duration lets TOML carry Go durations as strings ("30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a Config with all defaults applied.
func Default() Config {
	dataDir := "data"
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		dataDir = filepath.Join(dir, "pysnap")
	}
	return Config{
		Client: ClientConfig{
			ServerURL:      "http://127.0.0.1:8000",
			PrefsPath:      filepath.Join(dataDir, "prefs.db"),
			DownloadDir:    ".",
			TimeoutSeconds: 5,
			TimeoutEnabled: true,
			LogLevel:       "info",
			RequestTimeout: Duration{60 * time.Second},
			HistoryFile:    filepath.Join(dataDir, "repl_history"),
		},
		Server: ServerConfig{
			Addr:        ":8000",
			TempDir:     filepath.Join(os.TempDir(), "pysnap"),
			DBPath:      "data/pysnap.db",
			PythonBin:   "python3",
			Executor:    "subprocess",
			DockerImage: "python:3.12-alpine",
			MaxList:     100,
			LogLevel:    "info",
		},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PYSNAP_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	// Client
	if v := os.Getenv("PYSNAP_SERVER_URL"); v != "" {
		cfg.Client.ServerURL = v
	}
	if v := os.Getenv("PYSNAP_LOCALE"); v != "" {
		cfg.Client.Locale = v
	}
	if v := os.Getenv("PYSNAP_PREFS"); v != "" {
		cfg.Client.PrefsPath = v
	}
	if v := os.Getenv("PYSNAP_DOWNLOAD_DIR"); v != "" {
		cfg.Client.DownloadDir = v
	}
	if v := os.Getenv("PYSNAP_LOG_FILE"); v != "" {
		cfg.Client.LogFile = v
		cfg.Server.LogFile = v
	}
	if v := os.Getenv("PYSNAP_LOG_LEVEL"); v != "" {
		cfg.Client.LogLevel = v
		cfg.Server.LogLevel = v
	}

	// Server
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT value %q", v)
		}
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("PYSNAP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PYSNAP_TEMP_DIR"); v != "" {
		cfg.Server.TempDir = v
	}
	if v := os.Getenv("PYSNAP_DB_PATH"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("PYSNAP_PYTHON"); v != "" {
		cfg.Server.PythonBin = v
	}
	if v := os.Getenv("PYSNAP_EXECUTOR"); v != "" {
		cfg.Server.Executor = strings.ToLower(v)
	}

	switch cfg.Server.Executor {
	case "subprocess", "docker":
	default:
		return fmt.Errorf("unknown executor %q (want subprocess or docker)", cfg.Server.Executor)
	}
	if cfg.Server.MaxList <= 0 {
		cfg.Server.MaxList = 100
	}
	return nil
}

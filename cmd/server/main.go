// Package main is the entry point for the reference execution service.
//
// MAIN PACKAGE IN GO:
// main stays minimal: read configuration, create the logger and the
// executor, start the server. Everything else lives in internal/.
//
// WHY cmd/server/?
// cmd/ holds one directory per executable. This repo has two: the service
// (cmd/server) and the terminal client (cmd/pysnap).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/pysnap/internal/config"
	"github.com/sakif/pysnap/internal/executor"
	"github.com/sakif/pysnap/internal/executor/docker"
	"github.com/sakif/pysnap/internal/executor/subprocess"
	"github.com/sakif/pysnap/internal/logging"
	"github.com/sakif/pysnap/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default $PYSNAP_CONFIG or pysnap.toml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "pysnap-server:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// === 1. READ CONFIGURATION ===
	// Defaults, then the TOML file, then env vars (PORT, PYSNAP_*).
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// === 2. SET UP LOGGING ===
	// Text on stderr, plus JSON lines in log_file when one is configured.
	log, err := logging.New(logging.Options{
		File:  cfg.Server.LogFile,
		Level: cfg.Server.LogLevel,
	})
	if err != nil {
		return err
	}
	defer log.Close()
	logger := log.Logger

	// === 3. INITIALIZE EXECUTOR ===
	exec, closeExec, err := newExecutor(cfg.Server, logger)
	if err != nil {
		return err
	}
	defer closeExec()

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(server.ConfigFrom(cfg.Server), logger, exec)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT or SIGTERM.
	return srv.Start()
}

// newExecutor builds the executor named in the config. The returned func
// releases it.
func newExecutor(cfg config.ServerConfig, logger *slog.Logger) (executor.Executor, func(), error) {
	switch cfg.Executor {
	case "docker":
		dcfg := docker.DefaultConfig()
		if cfg.DockerImage != "" {
			dcfg.Image = cfg.DockerImage
		}
		exec, err := docker.New(dcfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("starting docker executor: %w", err)
		}
		return exec, func() { exec.Close() }, nil
	default:
		logger.Info("using local interpreter", slog.String("python", cfg.PythonBin))
		return subprocess.New(cfg.PythonBin, logger), func() {}, nil
	}
}

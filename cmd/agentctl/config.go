package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"agentprog/internal/storage"
	"agentprog/pkg/agentprog"
)

const (
	envStore  = "AGENTCTL_STORE"
	envDBPath = "AGENTCTL_DB_PATH"
)

type globalOptions struct {
	storeKind string
	dbPath    string
	logLevel  string
	envFile   string
}

// loadEnvFile applies a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

func (o *globalOptions) resolve() {
	if o.storeKind == "" {
		o.storeKind = envOrDefault(envStore, storage.DefaultStoreKind())
	}
	if o.dbPath == "" {
		o.dbPath = envOrDefault(envDBPath, "agentprog.db")
	}
}

func (o *globalOptions) newClient(stderr io.Writer, reg prometheus.Registerer) (*agentprog.Client, error) {
	if err := loadEnvFile(o.envFile); err != nil {
		return nil, err
	}
	o.resolve()
	level, err := parseLogLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return agentprog.New(agentprog.Options{
		StoreKind:  o.storeKind,
		DBPath:     o.dbPath,
		Logger:     logger,
		Registerer: reg,
	})
}

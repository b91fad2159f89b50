package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Prefix of all environment variables, e.g. VIEWSCAN_DAEMON_URL.
const Prefix = "VIEWSCAN"

// Config contains the environment configuration of the scanner.
type Config struct {
	DaemonURL     string        `envconfig:"DAEMON_URL" default:"http://127.0.0.1:18081"`
	DaemonTimeout time.Duration `envconfig:"DAEMON_TIMEOUT" default:"30s"`
	DBPath        string        `envconfig:"DB_PATH" default:"viewscan.db"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	Workers       int           `envconfig:"WORKERS" default:"0"`
	LogDir        string        `envconfig:"LOG_DIR" default:"logs"`
	DebugLevel    string        `envconfig:"DEBUG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid %s_WORKERS %d", Prefix, cfg.Workers)
	}
	if cfg.DaemonTimeout <= 0 {
		return nil, fmt.Errorf("invalid %s_DAEMON_TIMEOUT %v", Prefix, cfg.DaemonTimeout)
	}
	return cfg, nil
}

// PromptForSpendKey reads the private spend key from the terminal without
// echoing it.
func PromptForSpendKey() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal: pass the spend key with --spendkey")
	}
	fmt.Fprint(os.Stderr, "Enter private spend key: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read spend key: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	clear(raw)
	if key == "" {
		return "", errors.New("spend key cannot be empty")
	}
	return key, nil
}

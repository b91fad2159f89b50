package main

import (
	"fmt"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"xmr_viewscan/config"
)

const defaultLogFilename = "viewscan.log"

// options are the command line options. Values not given on the command
// line come from the VIEWSCAN_* environment.
type options struct {
	ViewKey    string `long:"viewkey" description:"Private view key (64 hex characters)" required:"true"`
	SpendKey   string `long:"spendkey" description:"Private spend key (64 hex characters); prompted for when omitted"`
	PublicView string `long:"publicview" description:"Public view key to check the private view key against"`

	Store     string `long:"store" description:"Transaction source" choice:"daemon" choice:"leveldb" default:"daemon"`
	Cache     bool   `long:"cache" description:"Keep fetched transactions in a TTL cache"`
	Import    string `long:"import" description:"File of hex transaction blobs, one per line, to add to the LevelDB store"`
	DaemonURL string `long:"daemon" description:"Daemon RPC address"`
	DBPath    string `long:"db" description:"LevelDB directory"`

	Parallel bool `long:"parallel" description:"Scan the whole batch in two parallel phases"`
	Workers  int  `long:"workers" description:"Parallel workers (0 = number of CPUs)"`
	JSON     bool `long:"json" description:"Print the report as JSON"`

	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical} or <subsystem>=<level>,..."`

	Args struct {
		Hashes []string `positional-arg-name:"txhash" description:"Transaction hashes in scan order"`
	} `positional-args:"yes"`

	env *config.Config
}

// loadConfig reads the environment, then the command line, and sets up
// logging.
func loadConfig(args []string) (*options, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}

	cfg := options{
		DaemonURL:  env.DaemonURL,
		DBPath:     env.DBPath,
		Workers:    env.Workers,
		LogDir:     env.LogDir,
		DebugLevel: env.DebugLevel,
		env:        env,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid --workers %d", cfg.Workers)
	}
	if len(cfg.Args.Hashes) == 0 && cfg.Import == "" {
		return nil, fmt.Errorf("no transaction hashes given")
	}
	if cfg.Import != "" && cfg.Store != "leveldb" {
		return nil, fmt.Errorf("--import requires --store=leveldb")
	}

	if cfg.DaemonURL, err = normalizeDaemonURL(cfg.DaemonURL); err != nil {
		return nil, err
	}

	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, err
	}

	if cfg.LogDir != "" {
		if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

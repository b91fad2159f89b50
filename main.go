package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"

	"xmr_viewscan/config"
	"xmr_viewscan/scanner"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run scans the transactions named in args. Configuration errors are
// written to stderr since logging is not set up yet.
func run(args []string, stderr io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			// Already printed by the parser.
			if ferr.Type == flags.ErrHelp {
				return nil
			}
			return err
		}
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, "Use viewscan -h to show usage")
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	keys, err := loadKeys(cfg)
	if err != nil {
		log.Errorf("Unable to load keys: %v", err)
		return err
	}

	hashes, err := parseHashes(cfg.Args.Hashes)
	if err != nil {
		log.Error(err)
		return err
	}

	src, err := openStore(cfg)
	if err != nil {
		log.Errorf("Unable to open %s store: %v", cfg.Store, err)
		return err
	}
	defer src.Close()

	if len(hashes) == 0 {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	txs, err := scanner.FetchAll(ctx, src.TransactionStore, hashes)
	if err != nil {
		log.Errorf("Fetch failed: %v", err)
		return err
	}

	var res *scanner.Result
	if cfg.Parallel {
		res, err = scanner.ScanBatch(ctx, keys, txs, cfg.Workers)
	} else {
		res, err = scanner.Scan(ctx, keys, txs)
	}
	if err != nil {
		log.Errorf("Scan failed: %v", err)
		return err
	}
	log.Infof("Scanned %d transactions", len(res.Summaries))

	r := newReport(keys, res)
	if cfg.JSON {
		err = r.writeJSON(os.Stdout)
	} else {
		err = r.writeText(os.Stdout)
	}
	if err != nil {
		log.Errorf("Unable to write report: %v", err)
	}
	return err
}

func loadKeys(cfg *options) (*scanner.AccountKeys, error) {
	spend := cfg.SpendKey
	if spend == "" {
		var err error
		if spend, err = config.PromptForSpendKey(); err != nil {
			return nil, err
		}
	}

	keys, err := scanner.ParseAccountKeys(spend, cfg.ViewKey)
	if err != nil {
		return nil, err
	}
	if cfg.PublicView != "" {
		if err := keys.VerifyPublicView(cfg.PublicView); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

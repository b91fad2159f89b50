package main

import (
	"fmt"
	"os"

	"xmr_viewscan/store"
)

// txSource is the transaction store selected on the command line.
type txSource struct {
	store.TransactionStore
	close func() error
}

func (s txSource) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore opens the store named by cfg.Store. Blobs from cfg.Import are
// added to the LevelDB store before it is returned.
func openStore(cfg *options) (*txSource, error) {
	src := txSource{}

	switch cfg.Store {
	case "daemon":
		src.TransactionStore = store.NewDaemon(cfg.DaemonURL, cfg.env.DaemonTimeout)
	case "leveldb":
		db, err := store.OpenLevelDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if cfg.Import != "" {
			if err := importBlobs(db, cfg.Import); err != nil {
				db.Close()
				return nil, err
			}
		}
		src.TransactionStore = db
		src.close = db.Close
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.Cache {
		src.TransactionStore = store.NewCached(src.TransactionStore, cfg.env.CacheTTL)
	}
	return &src, nil
}

func importBlobs(db *store.LevelDB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	blobs, err := readBlobs(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	added := 0
	for i, blob := range blobs {
		hash, ok, err := db.Put(blob)
		if err != nil {
			return fmt.Errorf("%s: blob %d: %w", path, i+1, err)
		}
		if !ok {
			log.Debugf("Transaction %v already stored", hash)
			continue
		}
		log.Debugf("Imported transaction %v", hash)
		added++
	}
	if err := db.Write(); err != nil {
		return err
	}
	log.Infof("Imported %d of %d transactions from %s, %d stored", added,
		len(blobs), path, db.Count())
	return nil
}

package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// Cached keeps recently fetched transactions of an inner store for ttl.
// Misses are not cached.
type Cached struct {
	inner TransactionStore
	txs   *cache.Cache
}

func NewCached(inner TransactionStore, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		txs:   cache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Fetch(ctx context.Context, hash moneroutil.Hash) (*transaction.Transaction, error) {
	key := hash.String()
	if v, found := c.txs.Get(key); found {
		log.Tracef("cache hit %v", hash)
		return v.(*transaction.Transaction), nil
	}

	tx, err := c.inner.Fetch(ctx, hash)
	if err != nil {
		return nil, err
	}
	c.txs.Set(key, tx, cache.DefaultExpiration)
	return tx, nil
}

// FetchBatch serves cached hashes and fetches the rest from the inner store,
// in one batch when it supports that.
func (c *Cached) FetchBatch(ctx context.Context, hashes []moneroutil.Hash) ([]*transaction.Transaction, error) {
	txs := make([]*transaction.Transaction, len(hashes))
	var (
		missing []moneroutil.Hash
		slots   []int
	)
	for i, h := range hashes {
		if v, found := c.txs.Get(h.String()); found {
			txs[i] = v.(*transaction.Transaction)
			continue
		}
		missing = append(missing, h)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return txs, nil
	}

	bf, ok := c.inner.(BatchFetcher)
	if !ok {
		for j, h := range missing {
			tx, err := c.Fetch(ctx, h)
			if err != nil {
				return nil, err
			}
			txs[slots[j]] = tx
		}
		return txs, nil
	}

	fetched, err := bf.FetchBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, tx := range fetched {
		c.txs.Set(missing[j].String(), tx, cache.DefaultExpiration)
		txs[slots[j]] = tx
	}
	log.Debugf("cache served %d of %d transactions", len(hashes)-len(missing), len(hashes))
	return txs, nil
}

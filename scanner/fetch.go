package scanner

import (
	"context"
	"fmt"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/store"
	"xmr_viewscan/transaction"
)

// FetchAll retrieves every hash once, in order, before any scanning starts.
// Repeated hashes are dropped so a transaction is never counted twice.
func FetchAll(ctx context.Context, st store.TransactionStore, hashes []moneroutil.Hash) ([]*transaction.Transaction, error) {
	seen := make(map[moneroutil.Hash]struct{}, len(hashes))
	unique := make([]moneroutil.Hash, 0, len(hashes))
	for _, h := range hashes {
		if _, ok := seen[h]; ok {
			log.Debugf("dropping repeated hash %v", h)
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, h)
	}

	if bf, ok := st.(store.BatchFetcher); ok && len(unique) > 0 {
		txs, err := bf.FetchBatch(ctx, unique)
		if err != nil {
			return nil, classify("fetch transactions", err)
		}
		return txs, nil
	}

	txs := make([]*transaction.Transaction, 0, len(unique))
	for _, h := range unique {
		tx, err := st.Fetch(ctx, h)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, classify(fmt.Sprintf("fetch %v", h), err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

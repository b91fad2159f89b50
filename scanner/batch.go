package scanner

import (
	"context"
	"math/big"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"xmr_viewscan/transaction"
)

// ScanBatch scans txs in two phases. Phase 1 scans outputs and generates key
// images for every transaction concurrently. Its images are merged into one
// set, which phase 2 uses to check the inputs of every transaction, again
// concurrently. The whole batch therefore counts as prior to each spend
// check. Summaries are returned in input order with running balances
// accumulated in that order. On failure the error of the lowest failing
// transaction is returned and no balance is reported.
func ScanBatch(ctx context.Context, keys *AccountKeys, txs []*transaction.Transaction, workers int) (*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	scans := make([]*TxScan, len(txs))
	err := runPhase(ctx, len(txs), workers, func(i int) error {
		scan, err := keys.ScanTransaction(txs[i])
		scans[i] = scan
		return err
	})
	if err != nil {
		return nil, err
	}

	known := make(KnownImages)
	for _, scan := range scans {
		known.addOwned(scan.Owned)
	}
	log.Debugf("phase 1 done: %d transactions, %d key images", len(txs), len(known))

	checks := make([]*SpendCheck, len(txs))
	err = runPhase(ctx, len(txs), workers, func(i int) error {
		check, err := CheckSpends(txs[i], known)
		checks[i] = check
		return err
	})
	if err != nil {
		return nil, err
	}

	state := &ScanState{Known: make(KnownImages, len(known)), RunningBalance: new(big.Int)}
	summaries := make([]TxSummary, 0, len(txs))
	for i := range txs {
		summaries = append(summaries, state.commit(scans[i], checks[i]))
	}

	return &Result{
		RunningBalance: state.RunningBalance,
		Summaries:      summaries,
		KnownImages:    state.Known,
	}, nil
}

// runPhase calls fn for every index in [0, n) on at most workers
// goroutines. Once an index fails, higher indexes are skipped while lower
// ones still run, so the error returned is always that of the lowest
// failing index.
func runPhase(ctx context.Context, n, workers int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(workers)

	var firstFailed atomic.Int64
	firstFailed.Store(int64(n))

	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil || int64(i) > firstFailed.Load() {
				return nil
			}
			if err := fn(i); err != nil {
				errs[i] = err
				for {
					cur := firstFailed.Load()
					if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

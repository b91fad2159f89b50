package scanner

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"xmr_viewscan/transaction"
)

// State is the lifecycle state of an Aggregator.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDone
	StateFailed
)

var stateStrings = map[State]string{
	StateIdle:     "Idle",
	StateScanning: "Scanning",
	StateDone:     "Done",
	StateFailed:   "Failed",
}

func (s State) String() string {
	if str := stateStrings[s]; str != "" {
		return str
	}
	return fmt.Sprintf("Unknown State (%d)", int(s))
}

// Aggregator drives the scan of an ordered transaction sequence. The first
// error is terminal: the aggregator moves to StateFailed and never reports
// a balance.
type Aggregator struct {
	mtx sync.Mutex

	keys      *AccountKeys
	state     State
	scan      *ScanState
	summaries []TxSummary
	err       error
}

func NewAggregator(keys *AccountKeys) *Aggregator {
	return &Aggregator{
		keys:  keys,
		state: StateIdle,
		scan:  NewScanState(),
	}
}

// State returns the current lifecycle state.
func (a *Aggregator) State() State {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.state
}

// Err returns the error that failed the scan, if any.
func (a *Aggregator) Err() error {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.err
}

func (a *Aggregator) checkActive() error {
	switch a.state {
	case StateFailed:
		return scanError(ErrScanFailed, "scan already failed", a.err)
	case StateDone:
		return scanError(ErrScanDone, "scan already finished", nil)
	}
	return nil
}

// Process scans the next transaction in sequence.
func (a *Aggregator) Process(tx *transaction.Transaction) (*TxSummary, error) {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if err := a.checkActive(); err != nil {
		return nil, err
	}
	a.state = StateScanning

	summary, err := a.scan.Apply(a.keys, tx)
	if err != nil {
		a.fail(err)
		return nil, err
	}
	a.summaries = append(a.summaries, *summary)
	log.Tracef("tx %v: net %v, balance %v", tx.Hash, summary.Net, summary.RunningBalance)
	return summary, nil
}

// Abort fails the scan with err. It has no effect on a finished or already
// failed scan.
func (a *Aggregator) Abort(err error) {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.checkActive() == nil {
		a.fail(err)
	}
}

func (a *Aggregator) fail(err error) {
	a.state = StateFailed
	a.err = err
	log.Debugf("scan failed after %d transactions: %v", len(a.summaries), err)
}

// Finish ends the scan and returns its result.
func (a *Aggregator) Finish() (*Result, error) {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if err := a.checkActive(); err != nil {
		return nil, err
	}
	a.state = StateDone

	return &Result{
		RunningBalance: new(big.Int).Set(a.scan.RunningBalance),
		Summaries:      a.summaries,
		KnownImages:    a.scan.Known,
	}, nil
}

// Scan processes txs in order with a new aggregator. Cancelling ctx aborts
// the remaining transactions.
func Scan(ctx context.Context, keys *AccountKeys, txs []*transaction.Transaction) (*Result, error) {
	agg := NewAggregator(keys)
	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			agg.Abort(err)
			return nil, err
		}
		if _, err := agg.Process(tx); err != nil {
			return nil, err
		}
	}
	return agg.Finish()
}

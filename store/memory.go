package store

import (
	"context"
	"sync"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// Memory keeps decoded transactions in a map.
type Memory struct {
	txs map[moneroutil.Hash]*transaction.Transaction
	mu  sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{
		txs: make(map[moneroutil.Hash]*transaction.Transaction),
	}
}

func (m *Memory) Add(tx *transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txs[tx.Hash] = tx
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.txs)
}

func (m *Memory) Fetch(ctx context.Context, hash moneroutil.Hash) (*transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.txs[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

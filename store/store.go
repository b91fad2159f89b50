package store

import (
	"context"
	"errors"
	"fmt"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// ErrNotFound is returned when a store does not know a transaction hash.
var ErrNotFound = errors.New("transaction not found")

// ErrPruned is returned when a daemon serves a transaction without its
// prunable section, so the blob cannot be hashed.
var ErrPruned = errors.New("daemon returned pruned transaction")

// TransactionStore retrieves decoded transactions by hash.
type TransactionStore interface {
	Fetch(ctx context.Context, hash moneroutil.Hash) (*transaction.Transaction, error)
}

// decodeBlob parses a blob and checks that it hashes to the requested hash.
func decodeBlob(hash moneroutil.Hash, blob []byte) (*transaction.Transaction, error) {
	tx, err := transaction.Parse(blob)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", hash, err)
	}
	if tx.Hash != hash {
		return nil, fmt.Errorf("%w: blob for %v hashes to %v", transaction.ErrMalformed, hash, tx.Hash)
	}
	return tx, nil
}

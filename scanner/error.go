package scanner

import (
	"errors"
	"fmt"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/store"
	"xmr_viewscan/transaction"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific ScanError.
const (
	// ErrInvalidKeyEncoding indicates a key string that is not 64 hex
	// characters or a scalar that is not reduced modulo the group order.
	ErrInvalidKeyEncoding ErrorCode = iota

	// ErrInvalidPoint indicates a key or key image that does not decode to
	// a curve point.
	ErrInvalidPoint

	// ErrMissingTxPublicKey indicates a transaction without a public key in
	// its extra field.
	ErrMissingTxPublicKey

	// ErrTransactionNotFound indicates a hash unknown to the store.
	ErrTransactionNotFound

	// ErrUnsupportedOutputType indicates an output target the scanner cannot
	// test for ownership.
	ErrUnsupportedOutputType

	// ErrUnsupportedInputType indicates an input the spend check cannot
	// interpret.
	ErrUnsupportedInputType

	// ErrAmountOverflow indicates received or spent totals that do not fit
	// in 64 bits.
	ErrAmountOverflow

	// ErrScanFailed indicates an operation on an aggregator that already
	// failed.
	ErrScanFailed

	// ErrScanDone indicates an operation on an aggregator that already
	// finished.
	ErrScanDone

	// ErrStore indicates a store failure other than a missing hash. The Err
	// field holds the underlying error.
	ErrStore

	// ErrMalformedTransaction indicates a transaction that could not be
	// decoded.
	ErrMalformedTransaction
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidKeyEncoding:    "ErrInvalidKeyEncoding",
	ErrInvalidPoint:          "ErrInvalidPoint",
	ErrMissingTxPublicKey:    "ErrMissingTxPublicKey",
	ErrTransactionNotFound:   "ErrTransactionNotFound",
	ErrUnsupportedOutputType: "ErrUnsupportedOutputType",
	ErrUnsupportedInputType:  "ErrUnsupportedInputType",
	ErrAmountOverflow:        "ErrAmountOverflow",
	ErrScanFailed:            "ErrScanFailed",
	ErrScanDone:              "ErrScanDone",
	ErrStore:                 "ErrStore",
	ErrMalformedTransaction:  "ErrMalformedTransaction",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// ScanError provides a single type for errors that can happen while
// scanning.
type ScanError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e ScanError) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error {
	return e.Err
}

func scanError(c ErrorCode, desc string, err error) ScanError {
	return ScanError{ErrorCode: c, Description: desc, Err: err}
}

// IsError returns whether err is a ScanError with a matching error code.
func IsError(err error, code ErrorCode) bool {
	var e ScanError
	return errors.As(err, &e) && e.ErrorCode == code
}

// classify maps errors of the lower packages to a ScanError. Errors that
// already are a ScanError are returned unchanged.
func classify(desc string, err error) error {
	var e ScanError
	switch {
	case errors.As(err, &e):
		return err
	case errors.Is(err, moneroutil.ErrInvalidKeyEncoding):
		return scanError(ErrInvalidKeyEncoding, desc, err)
	case errors.Is(err, moneroutil.ErrInvalidPoint):
		return scanError(ErrInvalidPoint, desc, err)
	case errors.Is(err, store.ErrNotFound):
		return scanError(ErrTransactionNotFound, desc, err)
	case errors.Is(err, transaction.ErrUnsupportedOutputType):
		return scanError(ErrUnsupportedOutputType, desc, err)
	case errors.Is(err, transaction.ErrUnsupportedInputType):
		return scanError(ErrUnsupportedInputType, desc, err)
	case errors.Is(err, transaction.ErrMalformed):
		return scanError(ErrMalformedTransaction, desc, err)
	default:
		return scanError(ErrStore, desc, err)
	}
}

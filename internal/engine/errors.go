package engine

import "errors"

// Recoverable scan/verification errors. The operator retries in place;
// none of these abort the order.
var (
	ErrNotMatched   = errors.New("scanned code does not belong to the order")
	ErrOverComplete = errors.New("product line already complete")
)

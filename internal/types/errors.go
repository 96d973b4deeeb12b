package types

import "errors"

var (
	// ErrNoHistory means the historical series came back empty; no bar can
	// be synthesized from nothing, so the whole cycle aborts.
	ErrNoHistory = errors.New("no historical bars")

	// ErrNoPrediction means the model produced no usable prediction, e.g.
	// indicator warm-up consumed every row.
	ErrNoPrediction = errors.New("insufficient data for prediction")

	// ErrQuoteUnavailable means the live quote fetch failed. The estimator
	// recovers by falling back to the last close; it is not fatal.
	ErrQuoteUnavailable = errors.New("live quote unavailable")

	// ErrPositionNotFound means the brokerage reports no open position for
	// the symbol. The decision engine folds it into "not holding".
	ErrPositionNotFound = errors.New("position not found")
)

package interfaces

import (
	"context"

	"ml-trading-bot/internal/types"
)

type Model interface {
	// Predict returns one prediction per feature row, most recent last.
	Predict(ctx context.Context, table types.FeatureTable) ([]float32, error)
	Close()
}

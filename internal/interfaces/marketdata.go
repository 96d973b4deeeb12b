package interfaces

import (
	"context"
	"time"

	"ml-trading-bot/internal/types"
)

type MarketData interface {
	// HistoricalBars returns daily bars in ascending date order, at most one
	// per trading day. Weekend/holiday gaps are returned as-is.
	HistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error)
	// LatestTrade returns the most recent trade price for the symbol.
	LatestTrade(ctx context.Context, symbol string) (types.Quote, error)
}

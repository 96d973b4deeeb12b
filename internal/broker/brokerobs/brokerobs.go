package brokerobs

import (
	"context"
	"time"

	"ml-trading-bot/internal/interfaces"
	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/trace"
	"ml-trading-bot/internal/types"
)

// observableBrokerage wraps a Brokerage with logging & tracing
type observableBrokerage struct {
	brokerage interfaces.Brokerage
}

var _ interfaces.Brokerage = (*observableBrokerage)(nil)

// WrapBrokerage wraps a brokerage with observability middleware
func WrapBrokerage(b interfaces.Brokerage) interfaces.Brokerage {
	return &observableBrokerage{brokerage: b}
}

func (ob *observableBrokerage) Position(ctx context.Context, symbol string) (types.PositionSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "brokerage.Position")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching position", "symbol", symbol)

	snap, err := ob.brokerage.Position(ctx, symbol)
	if err != nil {
		// Not-found is an expected outcome, not a failure.
		if err == types.ErrPositionNotFound {
			logger.DebugSkip(ctx, 1, "No open position", "symbol", symbol)
		} else {
			logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch position", err, "symbol", symbol)
		}
		return types.PositionSnapshot{}, err
	}

	logger.DebugSkip(ctx, 1, "Position fetched", "symbol", symbol, "qty", snap.Qty.String())
	return snap, nil
}

func (ob *observableBrokerage) BuyingPower(ctx context.Context) (types.AccountSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "brokerage.BuyingPower")
	defer span.End()

	acct, err := ob.brokerage.BuyingPower(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch buying power", err)
		return types.AccountSnapshot{}, err
	}

	logger.DebugSkip(ctx, 1, "Buying power fetched", "buying_power", acct.BuyingPower.String())
	return acct, nil
}

func (ob *observableBrokerage) SubmitOrder(ctx context.Context, intent types.OrderIntent) (types.OrderAck, error) {
	ctx, span := trace.StartSpan(ctx, "brokerage.SubmitOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"symbol", intent.Symbol,
		"side", string(intent.Side),
		"sizing_mode", intent.Mode.String(),
		"amount", intent.Amount.String(),
	)

	ack, err := ob.brokerage.SubmitOrder(ctx, intent)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"symbol", intent.Symbol,
			"side", string(intent.Side),
			"amount", intent.Amount.String(),
		)
		return types.OrderAck{}, err
	}

	logger.InfoSkip(ctx, 1, "Order placed", "symbol", intent.Symbol, "order_id", ack.ID, "status", ack.Status)
	return ack, nil
}

// observableMarketData wraps a MarketData with logging & tracing
type observableMarketData struct {
	md interfaces.MarketData
}

var _ interfaces.MarketData = (*observableMarketData)(nil)

// WrapMarketData wraps a market-data provider with observability middleware
func WrapMarketData(md interfaces.MarketData) interfaces.MarketData {
	return &observableMarketData{md: md}
}

func (om *observableMarketData) HistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.HistoricalBars")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching historical bars", "symbol", symbol, "start", start, "end", end)

	bars, err := om.md.HistoricalBars(ctx, symbol, start, end)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch historical bars", err, "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Historical bars fetched", "symbol", symbol, "count", len(bars))
	return bars, nil
}

func (om *observableMarketData) LatestTrade(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.LatestTrade")
	defer span.End()

	quote, err := om.md.LatestTrade(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch latest trade", err, "symbol", symbol)
		return types.Quote{}, err
	}

	logger.DebugSkip(ctx, 1, "Latest trade fetched", "symbol", symbol, "price", quote.Price)
	return quote, nil
}

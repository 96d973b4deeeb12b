package trader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ml-trading-bot/internal/engine"
	"ml-trading-bot/internal/interfaces"
	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/marketdata"
	"ml-trading-bot/internal/model"
	"ml-trading-bot/internal/store"
	"ml-trading-bot/internal/ta"
	"ml-trading-bot/internal/trace"
	"ml-trading-bot/internal/tradelog"
	"ml-trading-bot/internal/types"
)

// Trader runs one end-to-end decision cycle: fetch bars, estimate today's
// bar, compute features, predict, interpret, decide, and submit at most one
// order. One run = one decision; the caller schedules invocations.
type Trader struct {
	cfg *store.Config
	md  interfaces.MarketData
	brk interfaces.Brokerage
	mdl interfaces.Model
	eng *engine.Engine
}

func New(cfg *store.Config, md interfaces.MarketData, brk interfaces.Brokerage, mdl interfaces.Model) *Trader {
	return &Trader{
		cfg: cfg,
		md:  md,
		brk: brk,
		mdl: mdl,
		eng: engine.New(brk, cfg.SizingMode()),
	}
}

// Run decides and trades symbol using a signal derived from signalSymbol's
// price history (often the same instrument, but e.g. an index proxy works
// too). Data and model failures abort with an error; no-action and
// execution-failure outcomes come back as a structured result.
func (t *Trader) Run(ctx context.Context, symbol, signalSymbol string) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "trader.Run")
	defer span.End()

	now := exchangeNow()
	start := now.AddDate(0, 0, -t.cfg.MarketData.LookbackDays)

	bars, err := t.md.HistoricalBars(ctx, signalSymbol, start, now)
	if err != nil {
		return nil, fmt.Errorf("historical data for %s: %w", signalSymbol, err)
	}

	// A live-quote failure is recoverable: the estimator falls back to a
	// flat bar at the last close.
	var quote *types.Quote
	if q, err := t.md.LatestTrade(ctx, signalSymbol); err != nil {
		logger.Warn(ctx, "Live quote unavailable, falling back to last close", "symbol", signalSymbol, "error", err)
	} else {
		quote = &q
	}

	estimated, err := marketdata.Estimate(ctx, bars, quote, now)
	if err != nil {
		return nil, fmt.Errorf("estimate current bar for %s: %w", signalSymbol, err)
	}

	table, err := ta.Compute(estimated, t.indicatorConfig())
	if err != nil {
		return nil, fmt.Errorf("compute features for %s: %w", signalSymbol, err)
	}

	preds, err := t.mdl.Predict(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("predict for %s: %w", signalSymbol, err)
	}

	signal, err := model.Interpret(preds)
	if err != nil {
		if errors.Is(err, types.ErrNoPrediction) {
			return nil, fmt.Errorf("%w: %d feature rows for %s", err, table.Len(), signalSymbol)
		}
		return nil, err
	}
	logger.Info(ctx, "Signal derived", "symbol", symbol, "signal_symbol", signalSymbol, "signal", string(signal), "predictions", len(preds))

	decision := t.eng.Decide(ctx, symbol, signal, t.sizingPrice(ctx, symbol, signalSymbol, quote))

	logger.Decision(ctx, symbol, string(signal), decision.Reason, "action", decision.Action)
	_ = tradelog.AppendDecision(tradelog.DecisionEntry{
		Symbol:      symbol,
		Signal:      string(signal),
		Decision:    decision.Reason,
		AccountMode: t.cfg.Account.Mode,
	})

	return &types.RunResult{
		Symbol:      symbol,
		Signal:      signal,
		Decision:    decision.Reason,
		AccountMode: t.cfg.Account.Mode,
		Timestamp:   now,
	}, nil
}

// sizingPrice is the live price used for quantity sizing of the traded
// symbol. Only quantity mode needs a price, so no extra quote is fetched
// otherwise. When the signal comes from a different instrument, the traded
// symbol gets its own quote; a failure there yields 0, which quantity-mode
// sizing treats as insufficient funds.
func (t *Trader) sizingPrice(ctx context.Context, symbol, signalSymbol string, quote *types.Quote) float64 {
	if symbol == signalSymbol && quote != nil {
		return quote.Price
	}
	if t.cfg.SizingMode() != types.SizeByQuantity {
		return 0
	}
	q, err := t.md.LatestTrade(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "No live price for sizing", "symbol", symbol, "error", err)
		return 0
	}
	return q.Price
}

func (t *Trader) indicatorConfig() ta.Config {
	ind := t.cfg.Indicators
	return ta.Config{
		SMAWindows: ind.SMAWindows,
		EMAWindows: ind.EMAWindows,
		RSIPeriod:  ind.RSIPeriod,
		BBWindow:   ind.BBWindow,
		BBStdDev:   ind.BBStdDev,
		ATRPeriod:  ind.ATRPeriod,
		MACDFast:   ind.MACDFast,
		MACDSlow:   ind.MACDSlow,
		MACDSignal: ind.MACDSignal,
	}
}

func exchangeNow() time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ml-trading-bot/internal/interfaces"
	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/types"
)

// Engine decides what, if anything, to trade for one symbol given a model
// signal. It is stateless across calls: every decision starts from freshly
// fetched position and account snapshots. A read-decide-submit race with
// another actor is accepted; the resulting over/under-execution shows up in
// logs, not as a crash.
type Engine struct {
	brk  interfaces.Brokerage
	exec *orderExecutor
	mode types.SizingMode
}

func New(brk interfaces.Brokerage, mode types.SizingMode) *Engine {
	return &Engine{brk: brk, exec: newOrderExecutor(brk), mode: mode}
}

// Decide runs the four-state transition table over (holding, signal):
//
//	not holding + BUY  -> buy with available funds
//	holding     + SELL -> sell the whole position
//	not holding + SELL -> no-op
//	holding     + BUY  -> no-op (no averaging up)
//
// Execution failures are folded into the returned decision so one symbol's
// rejection cannot corrupt a batch; only the decision pipeline upstream of
// the engine aborts a cycle.
func (e *Engine) Decide(ctx context.Context, symbol string, signal types.Signal, livePrice float64) types.Decision {
	position, holding := e.currentHolding(ctx, symbol)

	switch {
	case !holding && signal == types.SignalBuy:
		return e.buy(ctx, symbol, signal, livePrice)

	case holding && signal == types.SignalSell:
		return e.sellAll(ctx, symbol, signal, position)

	case !holding && signal == types.SignalSell:
		return types.Decision{
			Action: "NO_ACTION",
			Reason: fmt.Sprintf("no position and SELL signal for %s: no action", symbol),
		}

	default: // holding && BUY
		return types.Decision{
			Action: "NO_ACTION",
			Reason: fmt.Sprintf("already holding %s and BUY signal: no action", symbol),
		}
	}
}

// currentHolding reads a fresh position snapshot. By policy, a lookup
// failure is folded into "not holding": the engine cannot distinguish "no
// position" from "lookup failed", and the transition table treats both as
// flat. Transport errors are still logged so the fold stays auditable.
func (e *Engine) currentHolding(ctx context.Context, symbol string) (types.PositionSnapshot, bool) {
	position, err := e.brk.Position(ctx, symbol)
	if err != nil {
		if !errors.Is(err, types.ErrPositionNotFound) {
			logger.Warn(ctx, "Position lookup failed, treating as not holding", "symbol", symbol, "error", err)
		}
		return types.PositionSnapshot{}, false
	}
	return position, position.Qty.IsPositive()
}

func (e *Engine) buy(ctx context.Context, symbol string, signal types.Signal, livePrice float64) types.Decision {
	funds := e.availableFunds(ctx)

	var amount decimal.Decimal
	switch e.mode {
	case types.SizeByNotional:
		// Brokers accept notional amounts at cent precision.
		amount = funds.Truncate(2)
	case types.SizeByQuantity:
		price := decimal.NewFromFloat(livePrice)
		if price.IsPositive() {
			amount = funds.Div(price).Floor()
		}
	}

	if !amount.IsPositive() {
		return types.Decision{
			Action: "NO_ACTION",
			Reason: fmt.Sprintf("insufficient buying power to buy %s: no action", symbol),
		}
	}

	intent := types.OrderIntent{Symbol: symbol, Side: types.Buy, Mode: e.mode, Amount: amount}
	ack, submitted, err := e.exec.submit(ctx, intent, signal)
	if err != nil {
		return types.Decision{
			Action: "BUY_FAILED",
			Reason: fmt.Sprintf("BUY failed for %s: %v", symbol, err),
		}
	}
	if !submitted {
		return types.Decision{
			Action: "NO_ACTION",
			Reason: fmt.Sprintf("insufficient buying power to buy %s: no action", symbol),
		}
	}
	return types.Decision{
		Action: "BUY",
		Reason: fmt.Sprintf("BUY order submitted for %s (%s=%s)", symbol, sizingLabel(e.mode), amount.String()),
		Orders: []types.OrderAck{ack},
	}
}

// sellAll liquidates the entire position by share quantity, regardless of
// the configured BUY sizing mode.
func (e *Engine) sellAll(ctx context.Context, symbol string, signal types.Signal, position types.PositionSnapshot) types.Decision {
	intent := types.OrderIntent{
		Symbol: symbol,
		Side:   types.Sell,
		Mode:   types.SizeByQuantity,
		Amount: position.Qty,
	}
	ack, submitted, err := e.exec.submit(ctx, intent, signal)
	if err != nil {
		return types.Decision{
			Action: "SELL_FAILED",
			Reason: fmt.Sprintf("SELL failed for %s: %v", symbol, err),
		}
	}
	if !submitted {
		return types.Decision{
			Action: "NO_ACTION",
			Reason: fmt.Sprintf("no sellable quantity for %s: no action", symbol),
		}
	}
	return types.Decision{
		Action: "SELL",
		Reason: fmt.Sprintf("SELL order submitted for %s (qty=%s)", symbol, position.Qty.String()),
		Orders: []types.OrderAck{ack},
	}
}

// availableFunds reads a fresh account snapshot. A failed lookup folds into
// zero funds: never buy on uncertain funds.
func (e *Engine) availableFunds(ctx context.Context) decimal.Decimal {
	acct, err := e.brk.BuyingPower(ctx)
	if err != nil {
		logger.Warn(ctx, "Buying power lookup failed, treating as zero funds", "error", err)
		return decimal.Zero
	}
	return acct.BuyingPower
}

func sizingLabel(m types.SizingMode) string {
	if m == types.SizeByQuantity {
		return "qty"
	}
	return "notional"
}

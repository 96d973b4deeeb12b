package engine

import (
	"context"
	"fmt"

	"ml-trading-bot/internal/interfaces"
	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/tradelog"
	"ml-trading-bot/internal/types"
)

// orderExecutor turns an order intent into at most one submitted brokerage
// order. No fill polling, no retry on rejection, no cancellation path.
type orderExecutor struct {
	brk interfaces.Brokerage
}

func newOrderExecutor(brk interfaces.Brokerage) *orderExecutor {
	return &orderExecutor{brk: brk}
}

// submit places one DAY market order for the intent. A non-positive amount
// short-circuits to "no submission" without an error: a degenerate
// zero-share order from upstream sizing is not worth a broker round-trip.
func (oe *orderExecutor) submit(ctx context.Context, intent types.OrderIntent, signal types.Signal) (types.OrderAck, bool, error) {
	if !intent.Amount.IsPositive() {
		logger.Debug(ctx, "Skipping non-positive order amount",
			"symbol", intent.Symbol,
			"side", string(intent.Side),
			"amount", intent.Amount.String(),
		)
		return types.OrderAck{}, false, nil
	}

	ack, err := oe.brk.SubmitOrder(ctx, intent)
	if err != nil {
		return types.OrderAck{}, false, fmt.Errorf("trade execution failed: %w", err)
	}

	logger.Trade(ctx, intent.Symbol, string(intent.Side), intent.Mode.String(), intent.Amount.String(), ack.ID)
	_ = tradelog.Append(tradelog.Entry{
		Symbol:     intent.Symbol,
		Side:       string(intent.Side),
		SizingMode: intent.Mode.String(),
		Amount:     intent.Amount.String(),
		OrderID:    ack.ID,
		Status:     ack.Status,
		Signal:     string(signal),
	})

	return ack, true, nil
}

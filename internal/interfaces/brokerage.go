package interfaces

import (
	"context"

	"ml-trading-bot/internal/types"
)

type Brokerage interface {
	// Position returns the open position for the symbol, or
	// types.ErrPositionNotFound when there is none. Transport failures come
	// back as other errors so callers can tell the two cases apart.
	Position(ctx context.Context, symbol string) (types.PositionSnapshot, error)
	// BuyingPower returns the account's non-marginable buying power.
	BuyingPower(ctx context.Context) (types.AccountSnapshot, error)
	// SubmitOrder places exactly one DAY market order for the intent.
	SubmitOrder(ctx context.Context, intent types.OrderIntent) (types.OrderAck, error)
}

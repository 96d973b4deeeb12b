package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"ml-trading-bot/internal/tradelog"
	"ml-trading-bot/internal/types"
)

func TestSubmitShortCircuitsNonPositiveAmount(t *testing.T) {
	tradelog.SetDir(t.TempDir())
	brk := &fakeBrokerage{}
	oe := newOrderExecutor(brk)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-3)} {
		intent := types.OrderIntent{Symbol: "SPY", Side: types.Buy, Mode: types.SizeByQuantity, Amount: amount}
		_, submitted, err := oe.submit(context.Background(), intent, types.SignalBuy)
		if err != nil {
			t.Fatalf("expected no error for amount %s, got %v", amount, err)
		}
		if submitted {
			t.Errorf("expected no submission for amount %s", amount)
		}
	}
	if len(brk.submitted) != 0 {
		t.Fatalf("expected zero broker calls, got %d", len(brk.submitted))
	}
}

func TestSubmitPlacesExactlyOneOrder(t *testing.T) {
	tradelog.SetDir(t.TempDir())
	brk := &fakeBrokerage{}
	oe := newOrderExecutor(brk)

	intent := types.OrderIntent{Symbol: "SPY", Side: types.Sell, Mode: types.SizeByQuantity, Amount: decimal.NewFromInt(5)}
	ack, submitted, err := oe.submit(context.Background(), intent, types.SignalSell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !submitted {
		t.Fatal("expected a submission")
	}
	if ack.ID != "order-1" {
		t.Errorf("expected broker handle, got %+v", ack)
	}
	if len(brk.submitted) != 1 {
		t.Fatalf("expected exactly one broker call, got %d", len(brk.submitted))
	}
}

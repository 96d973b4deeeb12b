package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"ml-trading-bot/internal/tradelog"
	"ml-trading-bot/internal/types"
)

// fakeBrokerage scripts snapshot responses and records submissions.
type fakeBrokerage struct {
	position    types.PositionSnapshot
	positionErr error
	buyingPower decimal.Decimal
	accountErr  error
	submitErr   error

	submitted []types.OrderIntent
}

func (f *fakeBrokerage) Position(ctx context.Context, symbol string) (types.PositionSnapshot, error) {
	if f.positionErr != nil {
		return types.PositionSnapshot{}, f.positionErr
	}
	return f.position, nil
}

func (f *fakeBrokerage) BuyingPower(ctx context.Context) (types.AccountSnapshot, error) {
	if f.accountErr != nil {
		return types.AccountSnapshot{}, f.accountErr
	}
	return types.AccountSnapshot{BuyingPower: f.buyingPower}, nil
}

func (f *fakeBrokerage) SubmitOrder(ctx context.Context, intent types.OrderIntent) (types.OrderAck, error) {
	if f.submitErr != nil {
		return types.OrderAck{}, f.submitErr
	}
	f.submitted = append(f.submitted, intent)
	return types.OrderAck{ID: "order-1", Status: "accepted"}, nil
}

func newTestEngine(t *testing.T, brk *fakeBrokerage, mode types.SizingMode) *Engine {
	t.Helper()
	tradelog.SetDir(t.TempDir())
	return New(brk, mode)
}

func TestDecideBuysWhenFlat(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: types.ErrPositionNotFound,
		buyingPower: decimal.NewFromFloat(1000.557),
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	dec := eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if dec.Action != "BUY" {
		t.Fatalf("expected BUY, got %s (%s)", dec.Action, dec.Reason)
	}
	if len(brk.submitted) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(brk.submitted))
	}
	order := brk.submitted[0]
	if order.Side != types.Buy || order.Mode != types.SizeByNotional {
		t.Errorf("unexpected order %+v", order)
	}
	// Notional sizing truncates to cent precision.
	if order.Amount.String() != "1000.55" {
		t.Errorf("expected notional 1000.55, got %s", order.Amount.String())
	}
}

func TestDecideBuyQuantityModeFloors(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: types.ErrPositionNotFound,
		buyingPower: decimal.NewFromInt(1000),
	}
	eng := newTestEngine(t, brk, types.SizeByQuantity)

	dec := eng.Decide(context.Background(), "SPY", types.SignalBuy, 300)
	if dec.Action != "BUY" {
		t.Fatalf("expected BUY, got %s (%s)", dec.Action, dec.Reason)
	}
	if got := brk.submitted[0].Amount.String(); got != "3" {
		t.Errorf("expected floor(1000/300)=3 shares, got %s", got)
	}
	if brk.submitted[0].Mode != types.SizeByQuantity {
		t.Errorf("expected quantity mode order")
	}
}

func TestDecideInsufficientBuyingPower(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: types.ErrPositionNotFound,
		buyingPower: decimal.Zero,
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	dec := eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if dec.Action != "NO_ACTION" {
		t.Fatalf("expected NO_ACTION, got %s", dec.Action)
	}
	if !strings.Contains(dec.Reason, "insufficient buying power") {
		t.Errorf("unexpected reason: %s", dec.Reason)
	}
	if len(brk.submitted) != 0 {
		t.Fatalf("expected zero orders, got %d", len(brk.submitted))
	}
}

func TestDecideSellsWholePosition(t *testing.T) {
	brk := &fakeBrokerage{
		position: types.PositionSnapshot{Symbol: "SPY", Qty: decimal.NewFromInt(5)},
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	dec := eng.Decide(context.Background(), "SPY", types.SignalSell, 500)
	if dec.Action != "SELL" {
		t.Fatalf("expected SELL, got %s (%s)", dec.Action, dec.Reason)
	}
	if len(brk.submitted) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(brk.submitted))
	}
	order := brk.submitted[0]
	if order.Side != types.Sell || order.Mode != types.SizeByQuantity {
		t.Errorf("unexpected order %+v", order)
	}
	if order.Amount.String() != "5" {
		t.Errorf("expected sell qty 5, got %s", order.Amount.String())
	}
}

func TestDecideNoOps(t *testing.T) {
	// Flat + SELL signal.
	brk := &fakeBrokerage{positionErr: types.ErrPositionNotFound}
	eng := newTestEngine(t, brk, types.SizeByNotional)
	dec := eng.Decide(context.Background(), "SPY", types.SignalSell, 500)
	if dec.Action != "NO_ACTION" || len(brk.submitted) != 0 {
		t.Errorf("expected no-op on flat+SELL, got %s with %d orders", dec.Action, len(brk.submitted))
	}

	// Holding + BUY signal: no averaging up.
	brk = &fakeBrokerage{
		position:    types.PositionSnapshot{Symbol: "SPY", Qty: decimal.NewFromInt(5)},
		buyingPower: decimal.NewFromInt(10000),
	}
	eng = newTestEngine(t, brk, types.SizeByNotional)
	dec = eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if dec.Action != "NO_ACTION" || len(brk.submitted) != 0 {
		t.Errorf("expected no-op on holding+BUY, got %s with %d orders", dec.Action, len(brk.submitted))
	}
	if !strings.Contains(dec.Reason, "already holding") {
		t.Errorf("unexpected reason: %s", dec.Reason)
	}
}

func TestDecideIdempotentAfterFill(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: types.ErrPositionNotFound,
		buyingPower: decimal.NewFromInt(1000),
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	first := eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if first.Action != "BUY" {
		t.Fatalf("expected first run to BUY, got %s", first.Action)
	}

	// The order filled: snapshot now reflects the new holding state.
	brk.positionErr = nil
	brk.position = types.PositionSnapshot{Symbol: "SPY", Qty: decimal.NewFromInt(2)}
	brk.buyingPower = decimal.Zero

	second := eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if second.Action != "NO_ACTION" {
		t.Fatalf("expected second run to no-op, got %s", second.Action)
	}
	if len(brk.submitted) != 1 {
		t.Fatalf("expected exactly one order across both runs, got %d", len(brk.submitted))
	}
}

func TestDecidePositionLookupFailureFoldsToFlat(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: errors.New("gateway timeout"),
		buyingPower: decimal.NewFromInt(1000),
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	// A SELL against an unknown position must not fire.
	dec := eng.Decide(context.Background(), "SPY", types.SignalSell, 500)
	if dec.Action != "NO_ACTION" || len(brk.submitted) != 0 {
		t.Errorf("expected no-op when position lookup fails, got %s", dec.Action)
	}
}

func TestDecideBuyingPowerFailureFoldsToZero(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: types.ErrPositionNotFound,
		accountErr:  errors.New("gateway timeout"),
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	dec := eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if dec.Action != "NO_ACTION" || len(brk.submitted) != 0 {
		t.Errorf("expected no buy on uncertain funds, got %s with %d orders", dec.Action, len(brk.submitted))
	}
}

func TestDecideReportsRejectionAsOutcome(t *testing.T) {
	brk := &fakeBrokerage{
		positionErr: types.ErrPositionNotFound,
		buyingPower: decimal.NewFromInt(1000),
		submitErr:   errors.New("asset not tradable"),
	}
	eng := newTestEngine(t, brk, types.SizeByNotional)

	dec := eng.Decide(context.Background(), "SPY", types.SignalBuy, 500)
	if dec.Action != "BUY_FAILED" {
		t.Fatalf("expected BUY_FAILED, got %s", dec.Action)
	}
	if !strings.Contains(dec.Reason, "asset not tradable") {
		t.Errorf("expected rejection reason in outcome, got %s", dec.Reason)
	}
}

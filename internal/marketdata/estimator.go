package marketdata

import (
	"context"
	"math"
	"time"

	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/types"
)

// Estimate completes the tail of a daily bar series so it always carries a
// row for today, intended to run near market close before the final bar
// settles. The input series is never mutated; gaps inside it (weekends,
// holidays) are passed through untouched.
//
// Rules:
//   - last bar dated today: overwrite its close with the live price and
//     widen high/low to include it; nothing else changes.
//   - last bar before today: append a synthetic bar for today, based on the
//     previous close and widened by the live price. Volume is 0 because no
//     intraday volume is observable here.
//   - quote == nil: same shape, fully flat at the previous close.
//   - empty series: types.ErrNoHistory.
func Estimate(ctx context.Context, bars []types.Bar, quote *types.Quote, today time.Time) ([]types.Bar, error) {
	if len(bars) == 0 {
		return nil, types.ErrNoHistory
	}

	out := make([]types.Bar, len(bars))
	copy(out, bars)
	last := out[len(out)-1]

	if sameDay(last.Date, today) {
		if quote != nil {
			last.Close = quote.Price
			last.High = math.Max(last.High, quote.Price)
			last.Low = math.Min(last.Low, quote.Price)
			out[len(out)-1] = last
		}
		return out, nil
	}

	price := last.Close
	if quote != nil {
		price = quote.Price
	} else {
		logger.Warn(ctx, "No live quote, synthesizing flat bar from last close", "close", last.Close)
	}

	synthetic := types.Bar{
		Date:      civilDay(today),
		Open:      last.Close,
		High:      math.Max(last.Close, price),
		Low:       math.Min(last.Close, price),
		Close:     price,
		Volume:    0,
		Estimated: true,
	}
	// Corporate-action columns are zeroed on the synthetic row only when the
	// source schema already carries them; otherwise they stay absent.
	if last.Dividend != nil {
		synthetic.Dividend = ptr(0.0)
	}
	if last.Split != nil {
		synthetic.Split = ptr(0.0)
	}

	return append(out, synthetic), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ptr(f float64) *float64 { return &f }

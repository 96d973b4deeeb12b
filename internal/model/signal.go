package model

import (
	"ml-trading-bot/internal/types"
)

// Interpret maps an ordered prediction sequence to a directional signal.
// Only the final element matters: nonzero means BUY, zero means SELL. An
// empty sequence (warm-up consumed every row) is unusable.
func Interpret(preds []float32) (types.Signal, error) {
	if len(preds) == 0 {
		return "", types.ErrNoPrediction
	}
	if preds[len(preds)-1] != 0 {
		return types.SignalBuy, nil
	}
	return types.SignalSell, nil
}

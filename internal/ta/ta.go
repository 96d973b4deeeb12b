package ta

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"ml-trading-bot/internal/types"
)

// Config holds the indicator windows used to build the feature table.
type Config struct {
	SMAWindows []int
	EMAWindows []int
	RSIPeriod  int
	BBWindow   int
	BBStdDev   float64
	ATRPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// Compute enriches the bar series into a feature table: raw ohlcv columns
// plus SMA/EMA/RSI/Bollinger/ATR/MACD. Deterministic, pure function of its
// input. Leading warm-up rows are trimmed so every emitted row is fully
// populated; a series shorter than the warm-up yields an empty table.
func Compute(bars []types.Bar, cfg Config) (types.FeatureTable, error) {
	if err := cfg.validate(); err != nil {
		return types.FeatureTable{}, err
	}

	n := len(bars)
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		opens[i] = b.Open
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	columns := []string{"open", "high", "low", "close", "volume"}
	series := [][]float64{opens, highs, lows, closes, volumes}

	// Corporate-action columns ride along only when the schema carries them.
	if hasColumn(bars, func(b types.Bar) *float64 { return b.Dividend }) {
		columns = append(columns, "dividend")
		series = append(series, optionalColumn(bars, func(b types.Bar) *float64 { return b.Dividend }))
	}
	if hasColumn(bars, func(b types.Bar) *float64 { return b.Split }) {
		columns = append(columns, "split")
		series = append(series, optionalColumn(bars, func(b types.Bar) *float64 { return b.Split }))
	}

	warmup := cfg.warmup()
	if n <= warmup {
		return types.FeatureTable{Columns: indicatorColumns(columns, cfg)}, nil
	}

	for _, w := range cfg.SMAWindows {
		series = append(series, talib.Sma(closes, w))
	}
	for _, w := range cfg.EMAWindows {
		series = append(series, talib.Ema(closes, w))
	}
	series = append(series, talib.Rsi(closes, cfg.RSIPeriod))

	upper, middle, lower := talib.BBands(closes, cfg.BBWindow, cfg.BBStdDev, cfg.BBStdDev, talib.SMA)
	series = append(series, middle, upper, lower)

	series = append(series, talib.Atr(highs, lows, closes, cfg.ATRPeriod))

	macd, macdSignal, macdHist := talib.Macd(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	series = append(series, macd, macdSignal, macdHist)

	columns = indicatorColumns(columns, cfg)

	rows := make([][]float64, 0, n-warmup)
	for i := warmup; i < n; i++ {
		row := make([]float64, len(series))
		for j, s := range series {
			row[j] = s[i]
		}
		rows = append(rows, row)
	}

	return types.FeatureTable{Columns: columns, Rows: rows}, nil
}

func (c Config) validate() error {
	if c.RSIPeriod <= 0 || c.BBWindow <= 0 || c.ATRPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	if c.MACDFast <= 0 || c.MACDSlow <= c.MACDFast || c.MACDSignal <= 0 {
		return fmt.Errorf("invalid macd periods fast=%d slow=%d signal=%d", c.MACDFast, c.MACDSlow, c.MACDSignal)
	}
	return nil
}

// warmup is the number of leading rows without a full set of indicator
// values. talib pads those rows with zeros, so they are dropped wholesale.
func (c Config) warmup() int {
	w := c.RSIPeriod + 1
	for _, s := range c.SMAWindows {
		w = maxInt(w, s)
	}
	for _, s := range c.EMAWindows {
		w = maxInt(w, s)
	}
	w = maxInt(w, c.BBWindow)
	w = maxInt(w, c.ATRPeriod+1)
	w = maxInt(w, c.MACDSlow+c.MACDSignal)
	return w
}

func indicatorColumns(base []string, cfg Config) []string {
	cols := base
	for _, w := range cfg.SMAWindows {
		cols = append(cols, fmt.Sprintf("sma_%d", w))
	}
	for _, w := range cfg.EMAWindows {
		cols = append(cols, fmt.Sprintf("ema_%d", w))
	}
	cols = append(cols, "rsi", "bb_middle", "bb_upper", "bb_lower", "atr", "macd", "macd_signal", "macd_hist")
	return cols
}

func hasColumn(bars []types.Bar, get func(types.Bar) *float64) bool {
	for _, b := range bars {
		if get(b) != nil {
			return true
		}
	}
	return false
}

func optionalColumn(bars []types.Bar, get func(types.Bar) *float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if v := get(b); v != nil {
			out[i] = *v
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

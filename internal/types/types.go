package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one daily price/volume record. Dividend and Split are optional
// corporate-action columns: nil means the column is absent from the source
// schema, not zero. Estimated marks a bar synthesized from a live quote
// before the trading day settles.
type Bar struct {
	Date                   time.Time
	Open, High, Low, Close float64
	Volume                 float64
	Dividend, Split        *float64
	Estimated              bool
}

// Quote is a transient last-trade observation; never persisted.
type Quote struct {
	Price float64
	At    time.Time
}

type PositionSnapshot struct {
	Symbol      string
	Qty         decimal.Decimal
	MarketValue decimal.Decimal
}

type AccountSnapshot struct {
	BuyingPower decimal.Decimal
}

type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// SizingMode selects how a BUY order amount is expressed: whole-dollar
// notional or a share quantity. SELL orders always liquidate by quantity.
type SizingMode int

const (
	SizeByNotional SizingMode = iota
	SizeByQuantity
)

func (m SizingMode) String() string {
	if m == SizeByQuantity {
		return "QUANTITY"
	}
	return "NOTIONAL"
}

// OrderIntent is the decision engine's output. Amount <= 0 is "no intent"
// and must never reach the broker.
type OrderIntent struct {
	Symbol string
	Side   Side
	Mode   SizingMode
	Amount decimal.Decimal
}

// OrderAck is the broker-assigned handle for a submitted order.
type OrderAck struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// FeatureTable holds indicator-enriched rows aligned most-recent-last with
// the bars that survived indicator warm-up.
type FeatureTable struct {
	Columns []string
	Rows    [][]float64
}

func (t FeatureTable) Len() int { return len(t.Rows) }

// Decision is the outcome of one decide-and-trade pass for one symbol.
type Decision struct {
	Action string     `json:"action"`
	Reason string     `json:"reason"`
	Orders []OrderAck `json:"orders,omitempty"`
}

// RunResult is the structured record emitted by every invocation,
// including no-action and failure outcomes.
type RunResult struct {
	Symbol      string    `json:"symbol"`
	Signal      Signal    `json:"signal"`
	Decision    string    `json:"decision"`
	AccountMode string    `json:"account_mode"`
	Timestamp   time.Time `json:"timestamp"`
}

package alpaca

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"ml-trading-bot/internal/interfaces"
	"ml-trading-bot/internal/store"
	"ml-trading-bot/internal/types"
)

const (
	paperBaseURL = "https://paper-api.alpaca.markets"
	liveBaseURL  = "https://api.alpaca.markets"
)

type Params struct {
	Paper       bool
	Credentials store.Credentials
	Feed        string
}

// Client wraps the Alpaca trading and market-data SDK clients behind the
// Brokerage and MarketData contracts.
type Client struct {
	trading *alpaca.Client
	data    *marketdata.Client
	feed    marketdata.Feed
}

var (
	_ interfaces.Brokerage  = (*Client)(nil)
	_ interfaces.MarketData = (*Client)(nil)
)

func New(p Params) *Client {
	baseURL := liveBaseURL
	if p.Paper {
		baseURL = paperBaseURL
	}
	return &Client{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    p.Credentials.APIKey,
			APISecret: p.Credentials.APISecret,
			BaseURL:   baseURL,
		}),
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    p.Credentials.APIKey,
			APISecret: p.Credentials.APISecret,
		}),
		feed: marketdata.Feed(p.Feed),
	}
}

func (c *Client) HistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error) {
	raw, err := c.data.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      c.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, types.Bar{
			Date:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return bars, nil
}

func (c *Client) LatestTrade(ctx context.Context, symbol string) (types.Quote, error) {
	trade, err := c.data.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{Feed: c.feed})
	if err != nil {
		return types.Quote{}, fmt.Errorf("%w: %s: %v", types.ErrQuoteUnavailable, symbol, err)
	}
	return types.Quote{Price: trade.Price, At: trade.Timestamp}, nil
}

func (c *Client) Position(ctx context.Context, symbol string) (types.PositionSnapshot, error) {
	pos, err := c.trading.GetPosition(symbol)
	if err != nil {
		var apiErr *alpaca.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return types.PositionSnapshot{}, types.ErrPositionNotFound
		}
		return types.PositionSnapshot{}, fmt.Errorf("fetch position for %s: %w", symbol, err)
	}

	snapshot := types.PositionSnapshot{Symbol: pos.Symbol, Qty: pos.Qty}
	if pos.MarketValue != nil {
		snapshot.MarketValue = *pos.MarketValue
	}
	return snapshot, nil
}

func (c *Client) BuyingPower(ctx context.Context) (types.AccountSnapshot, error) {
	acct, err := c.trading.GetAccount()
	if err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("fetch account: %w", err)
	}
	return types.AccountSnapshot{BuyingPower: acct.NonMarginBuyingPower}, nil
}

func (c *Client) SubmitOrder(ctx context.Context, intent types.OrderIntent) (types.OrderAck, error) {
	req := alpaca.PlaceOrderRequest{
		Symbol:      intent.Symbol,
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	}
	if intent.Side == types.Buy {
		req.Side = alpaca.Buy
	} else {
		req.Side = alpaca.Sell
	}
	amount := intent.Amount
	switch intent.Mode {
	case types.SizeByNotional:
		req.Notional = &amount
	case types.SizeByQuantity:
		req.Qty = &amount
	}

	order, err := c.trading.PlaceOrder(req)
	if err != nil {
		return types.OrderAck{}, fmt.Errorf("submit %s %s order for %s: %w", intent.Side, intent.Mode, intent.Symbol, err)
	}
	return types.OrderAck{ID: order.ID, Status: string(order.Status)}, nil
}

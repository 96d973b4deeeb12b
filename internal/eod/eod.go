package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// tradeLine mirrors tradelog.Entry on disk.
type tradeLine struct {
	Time, Symbol, Side string
	SizingMode         string
	Amount             string
	OrderID, Status    string
	Signal             string
}

type aggRow struct {
	Symbol         string
	BuyOrders      int
	SellOrders     int
	BoughtNotional decimal.Decimal
	BoughtQty      decimal.Decimal
	SoldQty        decimal.Decimal
}

func tradeFile(dir string, t time.Time) string {
	return filepath.Join(dir, t.Format("2006-01-02")+".txt")
}

func csvPath(dir string, t time.Time) string {
	return filepath.Join(dir, "eod", t.Format("2006-01-02")+".csv")
}

// SummarizeDay aggregates the day's submitted orders under dir into a
// per-symbol CSV. Returns the written path, or "" when there is nothing to
// summarize. dir is the same directory the trade log writes to.
func SummarizeDay(dir string, t time.Time) (string, error) {
	inPath := tradeFile(dir, t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var tl tradeLine
		if err := json.Unmarshal(sc.Bytes(), &tl); err != nil {
			continue
		}
		row := aggs[tl.Symbol]
		if row == nil {
			row = &aggRow{Symbol: tl.Symbol}
			aggs[tl.Symbol] = row
		}
		amount, err := decimal.NewFromString(tl.Amount)
		if err != nil {
			continue
		}
		switch tl.Side {
		case "BUY":
			row.BuyOrders++
			if tl.SizingMode == "NOTIONAL" {
				row.BoughtNotional = row.BoughtNotional.Add(amount)
			} else {
				row.BoughtQty = row.BoughtQty.Add(amount)
			}
		case "SELL":
			row.SellOrders++
			row.SoldQty = row.SoldQty.Add(amount)
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := csvPath(dir, t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"symbol", "buy_orders", "sell_orders", "bought_notional", "bought_qty", "sold_qty"}
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, k := range keys {
		r := aggs[k]
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.BuyOrders),
			strconv.Itoa(r.SellOrders),
			r.BoughtNotional.StringFixed(2),
			r.BoughtQty.String(),
			r.SoldQty.String(),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	return outPath, w.Error()
}

// SummarizeToday summarizes the current exchange-local day.
func SummarizeToday(dir string) (string, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return SummarizeDay(dir, time.Now().In(loc))
}

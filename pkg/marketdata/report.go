package marketdata

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/marketsim/pkg/orderbook"
)

// HistoryProvider is the slice of the exchange engine the report reads.
type HistoryProvider interface {
	Commodities() []string
	GetHistory(commodity string) []*orderbook.Trade
}

// Summary aggregates one commodity's trade history.
type Summary struct {
	Commodity string
	Trades    int
	Volume    int64
	VWAP      decimal.Decimal
	Min       decimal.Decimal
	Max       decimal.Decimal
	Last      decimal.Decimal
}

// Summarize folds a chronological trade sequence into a Summary. Price
// aggregation runs on decimals so long simulations do not accumulate
// float error in the VWAP.
func Summarize(commodity string, trades []*orderbook.Trade) Summary {
	s := Summary{Commodity: commodity, Trades: len(trades)}
	if len(trades) == 0 {
		return s
	}

	notional := decimal.Zero
	for i, tr := range trades {
		price := decimal.NewFromFloat(tr.Price)
		qty := decimal.NewFromInt(tr.Quantity)
		notional = notional.Add(price.Mul(qty))
		s.Volume += tr.Quantity

		if i == 0 || price.LessThan(s.Min) {
			s.Min = price
		}
		if i == 0 || price.GreaterThan(s.Max) {
			s.Max = price
		}
	}
	s.Last = decimal.NewFromFloat(trades[len(trades)-1].Price)
	if s.Volume > 0 {
		s.VWAP = notional.DivRound(decimal.NewFromInt(s.Volume), 4)
	}
	return s
}

// WriteReport writes a per-commodity CSV summary of the whole run and logs
// each line. Chart rendering stays an external concern; this file is the
// feed it consumes.
func WriteReport(engine HistoryProvider, path string) error {
	commodities := engine.Commodities()
	sort.Strings(commodities)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"commodity", "trades", "volume", "vwap", "min", "max", "last"}); err != nil {
		return err
	}

	for _, commodity := range commodities {
		s := Summarize(commodity, engine.GetHistory(commodity))
		record := []string{
			s.Commodity,
			strconv.Itoa(s.Trades),
			strconv.FormatInt(s.Volume, 10),
			s.VWAP.String(),
			s.Min.String(),
			s.Max.String(),
			s.Last.String(),
		}
		if err := w.Write(record); err != nil {
			return err
		}
		zap.S().Infow("commodity summary",
			"commodity", s.Commodity,
			"trades", s.Trades,
			"volume", s.Volume,
			"vwap", s.VWAP.String(),
		)
	}

	return nil
}

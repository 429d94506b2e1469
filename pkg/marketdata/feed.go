package marketdata

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/marketsim/pkg/orderbook"
)

// Feed publishes executed trades onto per-commodity redis streams so
// external consumers (charting, analytics) can tail the market without
// touching the engine. Publish is wired as an engine trade callback.
type Feed struct {
	client *redis.Client
}

const streamPrefix = "trades:"

func NewFeed(client *redis.Client) *Feed {
	return &Feed{client: client}
}

// Publish pushes the batch onto the streams. Failures are logged and the
// trades dropped; market data is best effort and must never stall
// matching or settlement.
func (f *Feed) Publish(trades []*orderbook.Trade) {
	ctx := context.Background()
	for _, tr := range trades {
		err := f.client.XAdd(ctx, &redis.XAddArgs{
			Stream: streamPrefix + tr.Commodity,
			Values: map[string]interface{}{
				"buyer":  tr.BuyOrderID,
				"seller": tr.SellOrderID,
				"price":  strconv.FormatFloat(tr.Price, 'f', -1, 64),
				"qty":    strconv.FormatInt(tr.Quantity, 10),
				"ts":     strconv.FormatInt(tr.Timestamp.UnixMilli(), 10),
			},
		}).Err()
		if err != nil {
			zap.S().Warnw("publish trade failed",
				"commodity", tr.Commodity,
				"err", err,
			)
		}
	}
}

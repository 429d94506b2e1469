package bot

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joripage/marketsim/pkg/auction"
	"github.com/joripage/marketsim/pkg/exchange"
	"github.com/joripage/marketsim/pkg/orderbook"
)

const pollInterval = 500 * time.Millisecond

// Bot simulates one trader working a single objective: move a quantity of
// one commodity near a target price. Each time an order times out
// unfilled the bot widens its price threshold and will quote more
// aggressively on the next attempt.
type Bot struct {
	ID          string
	Commodity   string
	IsSeller    bool
	Quantity    int64
	TargetPrice float64
	TimeLimit   time.Duration
	AuctionTime time.Duration
	Threshold   float64

	engine   *exchange.Engine
	auctions *auction.Manager
}

// NewRandomBot builds a bot with a random objective the way the simulation
// spawns them: random commodity and side, quantity 1-20, target price
// seeded from the current market value, threshold 1-10% for sellers and
// 1-20% for buyers.
func NewRandomBot(engine *exchange.Engine, auctions *auction.Manager, products []string, timeLimit, auctionTime time.Duration) *Bot {
	commodity := products[rand.Intn(len(products))]
	isSeller := rand.Intn(2) == 0

	threshold := 0.01 + rand.Float64()*0.09
	if !isSeller {
		threshold = 0.01 + rand.Float64()*0.19
	}

	return &Bot{
		ID:          "bot-" + uuid.NewString()[:8],
		Commodity:   commodity,
		IsSeller:    isSeller,
		Quantity:    1 + rand.Int63n(20),
		TargetPrice: math.Round(engine.GetMarketValue(commodity)*100) / 100,
		TimeLimit:   timeLimit,
		AuctionTime: auctionTime,
		Threshold:   threshold,
		engine:      engine,
		auctions:    auctions,
	}
}

// Trade runs one trading attempt. Sellers start an auction with 10%
// probability; buyers bid into an active auction if one exists; otherwise
// a regular limit order is worked until filled or timed out.
func (b *Bot) Trade(ctx context.Context) {
	if b.IsSeller && rand.Float64() < 0.1 {
		b.runAuction(ctx)
		return
	}

	if !b.IsSeller {
		if b.auctions.CheckActive(b.Commodity) != nil {
			bidPrice := b.TargetPrice * (1 + b.Threshold)
			bid := orderbook.NewOrder(b.nextOrderID(), orderbook.BUY, b.Commodity, b.Quantity, bidPrice)
			b.auctions.AddBid(b.Commodity, bid)
			zap.S().Debugw("bot placed auction bid",
				"bot_id", b.ID,
				"commodity", b.Commodity,
				"price", bidPrice,
			)
			return
		}
	}

	b.runLimitOrder(ctx)
}

// runAuction offers the bot's lot as a sealed-bid auction and waits for it
// to close. The lot is handed to the auction manager only; it never rests
// in the order book at the same time.
func (b *Bot) runAuction(ctx context.Context) {
	lotPrice := b.TargetPrice * (1 - b.Threshold)
	lot := orderbook.NewOrder(b.nextOrderID(), orderbook.SELL, b.Commodity, b.Quantity, lotPrice)

	a := b.auctions.StartAuction(lot, b.AuctionTime)
	if a == nil {
		return
	}

	for sleepCtx(ctx, pollInterval) {
		if b.auctions.CheckActive(b.Commodity) == nil {
			zap.S().Debugw("bot auction completed", "bot_id", b.ID, "commodity", b.Commodity)
			return
		}
	}
}

func (b *Bot) runLimitOrder(ctx context.Context) {
	side := orderbook.BUY
	price := b.TargetPrice * (1 + b.Threshold)
	if b.IsSeller {
		side = orderbook.SELL
		price = b.TargetPrice * (1 - b.Threshold)
	}

	order := orderbook.NewOrder(b.nextOrderID(), side, b.Commodity, b.Quantity, price)
	b.engine.PlaceOrder(order)

	deadline := time.Now().Add(b.TimeLimit)
	for time.Now().Before(deadline) && b.engine.RemainingQty(order.ID) > 0 {
		if !sleepCtx(ctx, pollInterval) {
			b.engine.CancelOrder(order.ID)
			return
		}
		b.engine.MatchAll()
	}

	if b.engine.RemainingQty(order.ID) > 0 {
		b.engine.CancelOrder(order.ID)
		b.widenThreshold()
		return
	}

	zap.S().Debugw("bot filled order",
		"bot_id", b.ID,
		"commodity", b.Commodity,
		"price", price,
	)
}

// widenThreshold loosens the quote by five points after a timeout; seller
// discounts cap at 50%, buyer premiums are unbounded.
func (b *Bot) widenThreshold() {
	old := b.Threshold
	if b.IsSeller {
		b.Threshold = min(b.Threshold+0.05, 0.50)
	} else {
		b.Threshold += 0.05
	}
	zap.S().Debugw("bot order timed out, widening threshold",
		"bot_id", b.ID,
		"commodity", b.Commodity,
		"old", old,
		"new", b.Threshold,
	)
}

func (b *Bot) nextOrderID() string {
	return fmt.Sprintf("%s-%s", b.ID, uuid.NewString()[:8])
}

// sleepCtx waits for d and reports true, or false if ctx was cancelled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

package auction

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/marketsim/pkg/orderbook"
)

// TradeRecorder receives auction-settled trades. The exchange engine
// implements it. AppendTrade may block on its own lock and on trade
// callbacks; the sweep therefore calls it with the manager lock released.
type TradeRecorder interface {
	AppendTrade(trade *orderbook.Trade)
}

// Manager keeps at most one active auction per commodity and runs the
// settlement sweep. Its lock covers the active map, every bid append and
// the sweep's scan-and-remove step.
type Manager struct {
	recorder TradeRecorder

	mu     sync.Mutex
	active map[string]*Auction
}

func NewManager(recorder TradeRecorder) *Manager {
	return &Manager{
		recorder: recorder,
		active:   make(map[string]*Auction),
	}
}

// StartAuction opens a sealed-bid auction for the lot. Returns nil when
// the commodity already has an active auction; the refusal leaves the
// existing auction untouched.
func (m *Manager) StartAuction(seller *orderbook.Order, duration time.Duration) *Auction {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.active[seller.Commodity]; busy {
		zap.S().Warnw("auction refused, commodity already has one",
			"commodity", seller.Commodity,
			"order_id", seller.ID,
		)
		return nil
	}

	a := NewAuction(seller, duration)
	m.active[seller.Commodity] = a
	zap.S().Infow("auction started",
		"commodity", seller.Commodity,
		"order_id", seller.ID,
		"duration", duration,
	)
	return a
}

// AddBid appends the bid to the commodity's active auction. Reports false
// when there is none; the bid is dropped.
func (m *Manager) AddBid(commodity string, bid *orderbook.Order) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.active[commodity]
	if !ok {
		zap.S().Warnw("no active auction to bid into",
			"commodity", commodity,
			"order_id", bid.ID,
		)
		return false
	}

	a.AddBid(bid)
	zap.S().Debugw("bid added to auction",
		"commodity", commodity,
		"order_id", bid.ID,
		"price", bid.Price,
	)
	return true
}

// CheckActive returns the commodity's active auction at this instant, or
// nil. Callers poll it to learn when an auction they care about closed.
func (m *Manager) CheckActive(commodity string) *Auction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[commodity]
}

// Run drives the settlement sweep until ctx is cancelled. Every interval
// it settles all auctions that expired since the last pass.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.S().Info("auction sweep stopped")
			return
		case <-ticker.C:
			m.SettleExpired()
		}
	}
}

// SettleExpired removes every expired auction from the active set under
// the lock, then settles them after releasing it. Removal happens before
// any settlement work, so an auction settles at most once even with
// overlapping sweeps — and StartAuction/AddBid/CheckActive never wait on
// the recorder or its trade callbacks.
func (m *Manager) SettleExpired() {
	m.mu.Lock()
	var expired []*Auction
	for commodity, a := range m.active {
		if !a.IsExpired() {
			continue
		}
		delete(m.active, commodity)
		expired = append(expired, a)
	}
	m.mu.Unlock()

	for _, a := range expired {
		m.settle(a)
	}
}

// settle runs outside the manager lock. Once removed from the active map
// the auction is unreachable to bidders, so the sweep is the sole owner of
// its lot and bids; their remaining quantities are mutated here and
// nowhere else.
func (m *Manager) settle(a *Auction) {
	winner := a.Finalize()
	if winner == nil {
		zap.S().Infow("auction ended with no bids",
			"commodity", a.Commodity,
			"order_id", a.Seller.ID,
		)
		return
	}

	qty := min(a.Seller.Remaining, winner.Remaining)
	trade := &orderbook.Trade{
		BuyOrderID:  winner.ID,
		SellOrderID: a.Seller.ID,
		Commodity:   a.Commodity,
		Price:       winner.Price, // the winner pays their own bid
		Quantity:    qty,
		Timestamp:   time.Now(),
	}
	a.Seller.Remaining -= qty
	winner.Remaining -= qty

	m.recorder.AppendTrade(trade)
	zap.S().Infow("auction trade executed",
		"commodity", a.Commodity,
		"qty", qty,
		"price", trade.Price,
		"buyer", winner.ID,
		"seller", a.Seller.ID,
	)
}

package exchange

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/joripage/marketsim/pkg/orderbook"
)

// Engine routes orders into per-commodity books, runs matching and keeps
// the executed-trade history. A single lock covers the book map, the
// order registry and the history, so every read sees committed state only.
type Engine struct {
	mu        sync.Mutex
	books     map[string]*orderbook.OrderBook
	orders    map[string]*orderbook.Order
	history   map[string][]*orderbook.Trade
	callbacks []func([]*orderbook.Trade)
}

func NewEngine() *Engine {
	return &Engine{
		books:   make(map[string]*orderbook.OrderBook),
		orders:  make(map[string]*orderbook.Order),
		history: make(map[string][]*orderbook.Trade),
	}
}

// RegisterTradeCallback adds a listener for recorded trades. Callbacks run
// outside the engine lock. Register before any concurrent use; the slice
// itself is not guarded.
func (e *Engine) RegisterTradeCallback(fn func([]*orderbook.Trade)) {
	e.callbacks = append(e.callbacks, fn)
}

// PlaceOrder registers the order and rests it on its commodity's book,
// creating the book on first use.
func (e *Engine) PlaceOrder(order *orderbook.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.orders[order.ID] = order
	e.getOrCreateBook(order.Commodity).AddOrder(order)

	zap.S().Debugw("placed order",
		"order_id", order.ID,
		"side", order.Side,
		"commodity", order.Commodity,
		"qty", order.Quantity,
		"price", order.Price,
	)
}

// MatchAll matches every commodity's book and records the resulting trades
// in emission order. Commodities are independent; cross-commodity order is
// unspecified.
func (e *Engine) MatchAll() {
	var executed []*orderbook.Trade

	e.mu.Lock()
	for _, book := range e.books {
		trades := book.MatchOrders()
		if len(trades) == 0 {
			continue
		}
		e.history[book.Commodity()] = append(e.history[book.Commodity()], trades...)
		executed = append(executed, trades...)
	}
	e.mu.Unlock()

	if len(executed) > 0 {
		for _, tr := range executed {
			zap.S().Infow("executed trade",
				"commodity", tr.Commodity,
				"qty", tr.Quantity,
				"price", tr.Price,
				"buyer", tr.BuyOrderID,
				"seller", tr.SellOrderID,
			)
		}
		e.fireCallbacks(executed)
	}
}

// AppendTrade records an externally settled trade (auction settlement) in
// the commodity's history. Safe for concurrent callers; the engine lock is
// taken here, never while the caller's own lock is wanted by engine paths.
func (e *Engine) AppendTrade(trade *orderbook.Trade) {
	e.mu.Lock()
	e.history[trade.Commodity] = append(e.history[trade.Commodity], trade)
	e.mu.Unlock()

	e.fireCallbacks([]*orderbook.Trade{trade})
}

// CancelAllOrders deactivates every registered order regardless of fill
// state. Books evict them lazily on the next match.
func (e *Engine) CancelAllOrders() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, order := range e.orders {
		order.Active = false
	}
	zap.S().Infow("cancelled all pending orders", "count", len(e.orders))
}

// CancelOrder deactivates one registered order; its book evicts it lazily.
// Unknown ids are ignored.
func (e *Engine) CancelOrder(orderID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if order, ok := e.orders[orderID]; ok {
		order.Active = false
	}
}

// RemainingQty reports the unfilled quantity of a registered order, 0 for
// unknown ids. Traders poll it instead of reading the order directly,
// which would race with in-flight matching.
func (e *Engine) RemainingQty(orderID string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if order, ok := e.orders[orderID]; ok {
		return order.Remaining
	}
	return 0
}

// GetMarketValue returns the most recent trade price for the commodity.
// With no history it falls back to a bounded random quote in [1, 100);
// callers must not treat that as authoritative.
func (e *Engine) GetMarketValue(commodity string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if history := e.history[commodity]; len(history) > 0 {
		return history[len(history)-1].Price
	}
	return 1.0 + rand.Float64()*99.0
}

// GetHistory returns the commodity's chronological trade history. The
// returned slice is a copy; the trades it points at are immutable.
func (e *Engine) GetHistory(commodity string) []*orderbook.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := e.history[commodity]
	out := make([]*orderbook.Trade, len(history))
	copy(out, history)
	return out
}

// Commodities returns every commodity with at least one recorded trade.
func (e *Engine) Commodities() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.history))
	for commodity := range e.history {
		out = append(out, commodity)
	}
	return out
}

func (e *Engine) getOrCreateBook(commodity string) *orderbook.OrderBook {
	if book, ok := e.books[commodity]; ok {
		return book
	}
	book := orderbook.NewOrderBook(commodity)
	e.books[commodity] = book
	return book
}

func (e *Engine) fireCallbacks(trades []*orderbook.Trade) {
	for _, cb := range e.callbacks {
		cb(trades)
	}
}

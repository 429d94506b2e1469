package orderbook

import "time"

// Trade is an immutable execution record between two orders. Trades are
// created only by book matching or auction settlement and are appended to
// the per-commodity history in execution order, never mutated.
type Trade struct {
	BuyOrderID  string
	SellOrderID string
	Commodity   string
	Price       float64
	Quantity    int64
	Timestamp   time.Time
}

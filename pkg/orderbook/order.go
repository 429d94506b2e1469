package orderbook

import "time"

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Order is a limit order for one commodity. Remaining and Active are the
// only mutable fields; both change only under the owning component's lock
// (the exchange engine's for book orders, the auction manager's for lots
// and bids). Once Remaining reaches 0 the order is inert for good.
type Order struct {
	ID        string
	Side      Side
	Commodity string
	Quantity  int64
	Price     float64
	Remaining int64
	Timestamp time.Time
	Active    bool
}

func NewOrder(id string, side Side, commodity string, qty int64, price float64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Commodity: commodity,
		Quantity:  qty,
		Price:     price,
		Remaining: qty,
		Timestamp: time.Now(),
		Active:    true,
	}
}

func (o *Order) Filled() bool {
	return o.Remaining == 0
}

package auction

import (
	"time"

	"github.com/joripage/marketsim/pkg/orderbook"
)

// Auction is one seller lot's sealed-bid window. Bids accumulate until the
// duration elapses; the highest-priced bid wins. The struct itself is not
// synchronized; the Manager serializes all access under its lock.
type Auction struct {
	Seller    *orderbook.Order
	Commodity string
	Duration  time.Duration
	Start     time.Time

	bids []*orderbook.Order
}

func NewAuction(seller *orderbook.Order, duration time.Duration) *Auction {
	return &Auction{
		Seller:    seller,
		Commodity: seller.Commodity,
		Duration:  duration,
		Start:     time.Now(),
	}
}

// AddBid appends the order to the bid sequence. Any order handed in is
// accepted; price and eligibility checks are the caller's concern.
func (a *Auction) AddBid(bid *orderbook.Order) {
	a.bids = append(a.bids, bid)
}

func (a *Auction) BidCount() int {
	return len(a.bids)
}

func (a *Auction) IsExpired() bool {
	return !time.Now().Before(a.Start.Add(a.Duration))
}

// Finalize returns the bid with the strictly highest price; among equal
// prices the first-seen bid wins. Nil when no bids were ever added.
// Finalize mutates nothing; settlement is the Manager's job.
func (a *Auction) Finalize() *orderbook.Order {
	var winner *orderbook.Order
	for _, bid := range a.bids {
		if winner == nil || bid.Price > winner.Price {
			winner = bid
		}
	}
	return winner
}

package orderbook

import (
	"container/heap"
	"time"

	"github.com/gammazero/deque"
)

// OrderBook keeps one commodity's resting orders in price-time priority:
// best price first, FIFO within a price level. A cancelled order stays in
// its level queue until it reaches the front, where it is evicted lazily.
// The book itself is not synchronized; the exchange engine serializes all
// access under its lock.
type OrderBook struct {
	commodity string

	buyOrders  map[float64]*deque.Deque[*Order]
	sellOrders map[float64]*deque.Deque[*Order]

	buyHeap  *PriceHeap
	sellHeap *PriceHeap
}

func NewOrderBook(commodity string) *OrderBook {
	buyHeap := NewPriceHeap(func(i, j float64) bool { return i > j })  // Max-heap
	sellHeap := NewPriceHeap(func(i, j float64) bool { return i < j }) // Min-heap

	return &OrderBook{
		commodity:  commodity,
		buyOrders:  make(map[float64]*deque.Deque[*Order]),
		sellOrders: make(map[float64]*deque.Deque[*Order]),
		buyHeap:    buyHeap,
		sellHeap:   sellHeap,
	}
}

func (ob *OrderBook) Commodity() string {
	return ob.commodity
}

// AddOrder rests the order on its side of the book. The caller guarantees
// a non-negative price and Remaining == Quantity at insertion.
func (ob *OrderBook) AddOrder(order *Order) {
	if order.Side == BUY {
		ob.addToBook(ob.buyOrders, ob.buyHeap, order)
	} else {
		ob.addToBook(ob.sellOrders, ob.sellHeap, order)
	}
}

func (ob *OrderBook) addToBook(book map[float64]*deque.Deque[*Order], priceHeap *PriceHeap, order *Order) {
	if book[order.Price] == nil {
		book[order.Price] = &deque.Deque[*Order]{}
		heap.Push(priceHeap, order.Price)
	}
	book[order.Price].PushBack(order)
}

// MatchOrders crosses the book until the best buy no longer meets the best
// sell, returning the trades in execution order. Price rule: the common
// price when best buy equals best sell, otherwise the exact midpoint of the
// two (the spread is split evenly; kept as-is for compatibility). Quantity
// is the smaller of the two remainings. An empty or uncrossed book returns
// an empty result.
func (ob *OrderBook) MatchOrders() []*Trade {
	var trades []*Trade

	for {
		bestBuy := ob.bestActive(ob.buyOrders, ob.buyHeap)
		bestSell := ob.bestActive(ob.sellOrders, ob.sellHeap)
		if bestBuy == nil || bestSell == nil || bestBuy.Price < bestSell.Price {
			break
		}

		tradePrice := bestBuy.Price
		if bestBuy.Price != bestSell.Price {
			tradePrice = (bestBuy.Price + bestSell.Price) / 2
		}
		tradeQty := min(bestBuy.Remaining, bestSell.Remaining)

		trades = append(trades, &Trade{
			BuyOrderID:  bestBuy.ID,
			SellOrderID: bestSell.ID,
			Commodity:   ob.commodity,
			Price:       tradePrice,
			Quantity:    tradeQty,
			Timestamp:   time.Now(),
		})

		bestBuy.Remaining -= tradeQty
		bestSell.Remaining -= tradeQty
		if bestBuy.Remaining == 0 {
			ob.buyOrders[bestBuy.Price].PopFront()
		}
		if bestSell.Remaining == 0 {
			ob.sellOrders[bestSell.Price].PopFront()
		}
	}

	return trades
}

// bestActive evicts inactive and filled orders from the front of the best
// price levels (dropping drained levels) and returns the best resting
// order, or nil if the side is empty.
func (ob *OrderBook) bestActive(book map[float64]*deque.Deque[*Order], priceHeap *PriceHeap) *Order {
	for {
		bestPrice, ok := priceHeap.Peek()
		if !ok {
			return nil
		}

		q := book[bestPrice]
		for q.Len() > 0 {
			front := q.Front()
			if front.Active && front.Remaining > 0 {
				return front
			}
			q.PopFront()
		}

		heap.Pop(priceHeap)
		delete(book, bestPrice)
	}
}

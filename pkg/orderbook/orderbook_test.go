package orderbook

import (
	"fmt"
	"testing"
)

func TestSimpleMatchMidpoint(t *testing.T) {
	ob := NewOrderBook("test")

	ob.AddOrder(NewOrder("S1", SELL, "test", 10, 99.0))
	ob.AddOrder(NewOrder("B1", BUY, "test", 10, 100.0))

	trades := ob.MatchOrders()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.BuyOrderID != "B1" || tr.SellOrderID != "S1" {
		t.Errorf("incorrect order IDs in trade: %+v", tr)
	}
	if tr.Quantity != 10 || tr.Price != 99.5 {
		t.Errorf("incorrect qty/price, want 10@99.5: %+v", tr)
	}
}

func TestEqualPriceTradesAtCommonPrice(t *testing.T) {
	ob := NewOrderBook("test")

	ob.AddOrder(NewOrder("S1", SELL, "test", 10, 100.0))
	ob.AddOrder(NewOrder("B1", BUY, "test", 10, 100.0))

	trades := ob.MatchOrders()
	if len(trades) != 1 || trades[0].Price != 100.0 {
		t.Errorf("expected 1 trade at common price 100.0, got %+v", trades)
	}
}

func TestNoMatchDueToPrice(t *testing.T) {
	ob := NewOrderBook("test")

	ob.AddOrder(NewOrder("S1", SELL, "test", 10, 100.0))
	ob.AddOrder(NewOrder("B1", BUY, "test", 10, 98.0))

	if trades := ob.MatchOrders(); len(trades) != 0 {
		t.Fatalf("expected no match, got %d", len(trades))
	}
}

func TestPartialMatch(t *testing.T) {
	ob := NewOrderBook("test")

	sell := NewOrder("S1", SELL, "test", 5, 100.0)
	buy := NewOrder("B1", BUY, "test", 10, 100.0)
	ob.AddOrder(sell)
	ob.AddOrder(buy)

	trades := ob.MatchOrders()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Quantity != 5 {
		t.Errorf("expected matched qty 5, got %d", trades[0].Quantity)
	}
	if sell.Remaining != 0 || buy.Remaining != 5 {
		t.Errorf("expected remainings 0/5, got %d/%d", sell.Remaining, buy.Remaining)
	}
}

func TestFIFOMatch(t *testing.T) {
	ob := NewOrderBook("test")

	// Two SELLs at the same price; S1 rested first and must fill first.
	ob.AddOrder(NewOrder("S1", SELL, "test", 5, 100.0))
	ob.AddOrder(NewOrder("S2", SELL, "test", 5, 100.0))
	ob.AddOrder(NewOrder("B1", BUY, "test", 10, 100.0))

	trades := ob.MatchOrders()
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].SellOrderID != "S1" || trades[1].SellOrderID != "S2" {
		t.Errorf("expected FIFO match order, got %+v", trades)
	}
}

func TestMultiLevelMatch(t *testing.T) {
	ob := NewOrderBook("test")

	sells := []*Order{
		NewOrder("S1", SELL, "test", 5, 101.0),
		NewOrder("S2", SELL, "test", 5, 102.0),
		NewOrder("S3", SELL, "test", 5, 103.0),
	}
	for _, o := range sells {
		ob.AddOrder(o)
	}
	ob.AddOrder(NewOrder("B1", BUY, "test", 15, 105.0))

	trades := ob.MatchOrders()
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}
	if trades[0].Price != 103.0 || trades[2].Price != 104.0 {
		t.Errorf("expected matching from best price outward, got %+v", trades)
	}
}

func TestInactiveOrderNeverMatches(t *testing.T) {
	ob := NewOrderBook("test")

	cancelled := NewOrder("S1", SELL, "test", 5, 99.0)
	ob.AddOrder(cancelled)
	ob.AddOrder(NewOrder("S2", SELL, "test", 5, 100.0))
	cancelled.Active = false

	ob.AddOrder(NewOrder("B1", BUY, "test", 5, 100.0))

	trades := ob.MatchOrders()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	// S1 is evicted lazily; the live order behind it fills.
	if trades[0].SellOrderID != "S2" {
		t.Errorf("expected S2 to fill, got %+v", trades[0])
	}
	if cancelled.Remaining != 5 {
		t.Errorf("cancelled order remaining changed: %d", cancelled.Remaining)
	}
}

func TestWidgetScenario(t *testing.T) {
	ob := NewOrderBook("Widget")

	buy := NewOrder("O1", BUY, "Widget", 10, 50.0)
	sell1 := NewOrder("O2", SELL, "Widget", 5, 48.0)
	sell2 := NewOrder("O3", SELL, "Widget", 7, 49.0)
	ob.AddOrder(buy)
	ob.AddOrder(sell1)
	ob.AddOrder(sell2)

	trades := ob.MatchOrders()
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].Quantity != 5 || trades[0].Price != 49.0 {
		t.Errorf("first trade should be 5@49.0 (midpoint of 50/48), got %+v", trades[0])
	}
	if trades[1].Quantity != 5 || trades[1].Price != 49.5 {
		t.Errorf("second trade should be 5@49.5 (midpoint of 50/49), got %+v", trades[1])
	}
	if buy.Remaining != 0 {
		t.Errorf("buy order should be fully filled, remaining %d", buy.Remaining)
	}
	if sell2.Remaining != 2 {
		t.Errorf("second sell should have 2 left, got %d", sell2.Remaining)
	}
}

func TestNeverTradesThroughLimit(t *testing.T) {
	ob := NewOrderBook("test")

	for i := 0; i < 50; i++ {
		ob.AddOrder(NewOrder(fmt.Sprintf("B-%d", i), BUY, "test", 10, float64(90+i%10)))
		ob.AddOrder(NewOrder(fmt.Sprintf("S-%d", i), SELL, "test", 10, float64(95+i%10)))
	}

	for _, tr := range ob.MatchOrders() {
		if tr.Quantity <= 0 {
			t.Errorf("non-positive trade quantity: %+v", tr)
		}
	}
	// Whatever is left resting must not cross.
	bestBuy := ob.bestActive(ob.buyOrders, ob.buyHeap)
	bestSell := ob.bestActive(ob.sellOrders, ob.sellHeap)
	if bestBuy != nil && bestSell != nil && bestBuy.Price >= bestSell.Price {
		t.Errorf("book still crossed after matching: buy %.2f vs sell %.2f", bestBuy.Price, bestSell.Price)
	}
}

func TestHighVolumeOrders(t *testing.T) {
	ob := NewOrderBook("test")

	num := 10_000
	for i := 0; i < num; i++ {
		side := BUY
		if i%2 == 0 {
			side = SELL
		}
		ob.AddOrder(NewOrder(fmt.Sprintf("ORD-%d", i), side, "test", 10, 100.0))
	}

	trades := ob.MatchOrders()
	if len(trades) != num/2 {
		t.Errorf("expected %d trades, got %d", num/2, len(trades))
	}
}

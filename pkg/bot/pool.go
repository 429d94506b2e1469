package bot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/marketsim/pkg/auction"
	"github.com/joripage/marketsim/pkg/exchange"
)

const workerPause = 100 * time.Millisecond

// Pool runs a fixed number of trader workers. Each worker loops building a
// fresh random bot and letting it trade until the context is cancelled.
type Pool struct {
	size        int
	timeLimit   time.Duration
	auctionTime time.Duration
	engine      *exchange.Engine
	auctions    *auction.Manager
	products    []string
}

func NewPool(size int, timeLimit, auctionTime time.Duration, engine *exchange.Engine, auctions *auction.Manager, products []string) *Pool {
	return &Pool{
		size:        size,
		timeLimit:   timeLimit,
		auctionTime: auctionTime,
		engine:      engine,
		auctions:    auctions,
		products:    products,
	}
}

// Run blocks until every worker has observed the cancellation and exited.
func (p *Pool) Run(ctx context.Context) {
	zap.S().Infow("starting trader pool", "workers", p.size, "products", len(p.products))

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx)
		}()
	}
	wg.Wait()

	zap.S().Info("trader pool stopped")
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		b := NewRandomBot(p.engine, p.auctions, p.products, p.timeLimit, p.auctionTime)
		b.Trade(ctx)

		if !sleepCtx(ctx, workerPause) {
			return
		}
	}
}

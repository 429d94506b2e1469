package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/joripage/marketsim/config"
	"github.com/joripage/marketsim/pkg/auction"
	"github.com/joripage/marketsim/pkg/bot"
	"github.com/joripage/marketsim/pkg/exchange"
	redis_wrapper "github.com/joripage/marketsim/pkg/infra/redis"
	"github.com/joripage/marketsim/pkg/logging"
	"github.com/joripage/marketsim/pkg/marketdata"
)

func main() {
	go func() {
		http.ListenAndServe("localhost:6060", nil)
	}()

	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("load config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		fmt.Printf("init logging error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine := exchange.NewEngine()
	if cfg.TradeFeed != nil {
		client, err := redis_wrapper.InitRedisWithBackoff(cfg.TradeFeed)
		if err != nil {
			zap.S().Warnf("trade feed disabled: %v", err)
		} else {
			engine.RegisterTradeCallback(marketdata.NewFeed(client).Publish)
		}
	}
	auctions := auction.NewManager(engine)

	// The simulation stops after the configured duration or on the first
	// signal, whichever comes sooner.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Simulation.Duration())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("Shutting down...")
		cancel()
	}()

	products := bot.GenerateProductNames(cfg.Simulation.NumProducts)
	pool := bot.NewPool(cfg.Simulation.PoolSize, cfg.Simulation.OrderTimeLimit(), cfg.Simulation.AuctionDuration(), engine, auctions, products)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		auctions.Run(ctx, cfg.Simulation.SweepInterval())
	}()
	go func() {
		defer wg.Done()
		pool.Run(ctx)
	}()

	<-ctx.Done()
	engine.CancelAllOrders()
	wg.Wait()

	if cfg.ReportPath != "" {
		if err := marketdata.WriteReport(engine, cfg.ReportPath); err != nil {
			zap.S().Errorw("write report failed", "err", err)
		}
	}

	fmt.Println("Exited cleanly.")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/shopspring/decimal"

	"main/internal/listener"
	"main/internal/listener/marketdata"
	"main/internal/logger"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/ops"
	"main/internal/order"
	"main/internal/order/delegator/alpaca"
	"main/pkg/conn"
)

func main() {
	mode := flag.String("mode", "price", "price | history | orders | exit | logs")
	configPath := flag.String("config", "config.json", "Path to JSON credentials file")
	dbPath := flag.String("db", "logs.db", "SQLite log store path")
	pgConn := flag.String("pg", "", "PostgreSQL conn string for the log store (overrides -db)")

	symbols := flag.String("symbols", "BTC/USDT,ETH/USDT", "Comma separated market data symbols")
	interval := flag.Duration("interval", 5*time.Second, "Delay between price poll rounds")
	timeframe := flag.String("timeframe", "4h", "Bar interval for history mode")
	startAt := flag.String("start", "", "History range start (RFC3339)")
	endAt := flag.String("end", "", "History range end (RFC3339, default now)")

	venueName := flag.String("venue", "alpaca", "Execution venue name in the credentials file")
	orderSymbol := flag.String("order-symbol", "", "Submit a demo market order for this symbol (orders mode)")
	orderQty := flag.String("qty", "0.1", "Demo order quantity")
	orderSide := flag.String("side", "buy", "Demo order side: buy | sell")
	exitSymbol := flag.String("exit-symbol", "", "Close the open position for this symbol (exit mode)")

	profile := flag.Bool("profile", false, "Enable pyroscope profiling")
	profileAddr := flag.String("profile-addr", "http://localhost:4040", "Pyroscope server address")
	flag.Parse()

	if *profile {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "tradekit",
			ServerAddress:   *profileAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	auditLog, err := openLogger(*dbPath, *pgConn)
	if err != nil {
		log.Fatalf("open log store: %v", err)
	}
	defer auditLog.Close()

	ctx := context.Background()

	switch *mode {
	case "price":
		runPricePoll(ctx, auditLog, splitSymbols(*symbols), *interval)
	case "history":
		runHistory(ctx, auditLog, splitSymbols(*symbols), *timeframe, *startAt, *endAt)
	case "orders":
		manager := dialManager(*configPath, *venueName, auditLog)
		runOrderDemo(ctx, manager, *orderSymbol, *orderQty, *orderSide)
	case "exit":
		manager := dialManager(*configPath, *venueName, auditLog)
		runExit(ctx, manager, *exitSymbol)
	case "logs":
		runDumpLogs(ctx, auditLog)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func openLogger(dbPath, pgConn string) (*logger.Logger, error) {
	if pgConn == "" {
		return logger.Open(dbPath)
	}

	client, err := conn.New(conn.Option{ConnString: pgConn})
	if err != nil {
		return nil, err
	}

	store, err := logger.NewStore(client.DB())
	if err != nil {
		return nil, err
	}

	return logger.New(store), nil
}

func splitSymbols(csv string) []string {
	parts := strings.Split(csv, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	return symbols
}

func runPricePoll(ctx context.Context, auditLog *logger.Logger, symbols []string, interval time.Duration) {
	live := listener.New(marketdata.NewBinance(nil, ""), symbols, auditLog)
	live.PollPrices(ctx, interval, func(point model.PricePoint) {
		fmt.Printf("price of %s: %s\n", point.Symbol, point.Price)
	})
}

func runHistory(ctx context.Context, auditLog *logger.Logger, symbols []string, timeframe, startAt, endAt string) {
	if startAt == "" {
		log.Fatal("history mode requires -start")
	}
	start, err := time.Parse(time.RFC3339, startAt)
	if err != nil {
		log.Fatalf("parse -start: %v", err)
	}

	end := time.Now().UTC()
	if endAt != "" {
		end, err = time.Parse(time.RFC3339, endAt)
		if err != nil {
			log.Fatalf("parse -end: %v", err)
		}
	}

	live := listener.New(marketdata.NewBinance(nil, ""), symbols, auditLog)
	for _, symbol := range symbols {
		candles, err := live.FetchHistoricalData(ctx, symbol, model.Timeframe(timeframe), start, end)
		if err != nil {
			log.Fatalf("fetch historical data for %s: %v", symbol, err)
		}

		fmt.Printf("%s: %d candles\n", symbol, len(candles))
		for _, candle := range candles {
			fmt.Printf("  %s o=%s h=%s l=%s c=%s v=%s\n",
				candle.Timestamp.Format(time.RFC3339),
				candle.Open, candle.High, candle.Low, candle.Close, candle.Volume,
			)
		}
	}
}

func dialManager(configPath, venueName string, auditLog *logger.Logger) *order.Manager {
	keyring, err := ops.LoadKeys(configPath)
	if err != nil {
		log.Fatalf("load credentials: %v", err)
	}

	var manager *order.Manager
	connector := ops.NewConnector(keyring, func(venue string, credentials model.Credentials) error {
		switch venue {
		case "alpaca":
			manager = order.NewManager(alpaca.NewDelegator(nil, "", credentials), auditLog)
			return nil
		default:
			return fmt.Errorf("no delegator for venue %s", venue)
		}
	}, auditLog)

	if connected := connector.Connect(venueName); len(connected) == 0 {
		log.Fatalf("could not connect venue %s", venueName)
	}

	return manager
}

func runOrderDemo(ctx context.Context, manager *order.Manager, orderSymbol, orderQty, orderSide string) {
	positions, err := manager.FetchPositions(ctx)
	if err != nil {
		log.Fatalf("fetch positions: %v", err)
	}
	fmt.Printf("open positions: %d\n", len(positions))
	for _, position := range positions {
		fmt.Printf("  %s qty=%s entry=%s upl=%s\n",
			position.Symbol, position.Qty, position.EntryPrice, position.UnrealizedPL)
	}

	open, err := manager.FetchOpenOrders(ctx)
	if err != nil {
		log.Fatalf("fetch open orders: %v", err)
	}
	fmt.Printf("open orders: %d\n", len(open))
	for _, o := range open {
		fmt.Printf("  %s %s %s qty=%s status=%s\n", o.ID, o.Symbol, o.Side.Wire(), o.Qty, o.Status)
	}

	if orderSymbol == "" {
		return
	}

	qty, err := decimal.NewFromString(orderQty)
	if err != nil {
		log.Fatalf("parse -qty: %v", err)
	}
	side := enum.ParseOrderSide(orderSide)
	if !side.IsAvailable() {
		log.Fatalf("unknown side %q", orderSide)
	}

	placed, err := manager.CreateOrder(ctx, orderSymbol, enum.OrderTypeMarket, side, qty)
	if err != nil {
		log.Fatalf("create order: %v", err)
	}
	if placed == nil {
		fmt.Println("order was rejected by the venue")
		return
	}
	fmt.Printf("placed order %s status=%s\n", placed.ID, placed.Status)
}

func runExit(ctx context.Context, manager *order.Manager, exitSymbol string) {
	if exitSymbol == "" {
		log.Fatal("exit mode requires -exit-symbol")
	}

	closed, err := manager.ExitPosition(ctx, exitSymbol)
	if err != nil {
		log.Fatalf("exit position: %v", err)
	}
	if !closed {
		fmt.Printf("no position closed for %s\n", exitSymbol)
		return
	}
	fmt.Printf("submitted offsetting order for %s\n", exitSymbol)
}

func runDumpLogs(ctx context.Context, auditLog *logger.Logger) {
	entries, err := auditLog.FetchAll(ctx)
	if err != nil {
		log.Fatalf("fetch log entries: %v", err)
	}

	for _, entry := range entries {
		fmt.Printf("%6d  %s  %s\n", entry.ID, entry.Timestamp.Format(time.RFC3339), entry.Message)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	match "github.com/0x5487/trading-core"
	"github.com/0x5487/trading-core/protocol"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:    "tradesim",
		Usage:   "run the sample order flow against an in-process exchange",
		Version: match.EngineVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (yaml, json or toml)"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
			&cli.BoolFlag{Name: "log-json", Usage: "log as JSON instead of console text"},
			&cli.IntFlag{Name: "random-orders", Usage: "random orders to place after the fixed script"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed of the random order flow"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log, err := match.NewLogger(c.String("log-level"), c.Bool("log-json"))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	match.SetLogger(log)

	cfg, err := match.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	opts := []match.Option{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaLog := match.NewKafkaPublishLog(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = kafkaLog.Close() }()
		opts = append(opts, match.WithPublishLog(kafkaLog))
	}

	ex, err := match.NewExchange(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := seedUsers()
	if err := runScript(ctx, ex, users, c.App.Writer); err != nil {
		return err
	}
	if n := c.Int("random-orders"); n > 0 {
		randomFlow(ctx, ex, users, n, c.Int64("seed"))
		ex.WaitIdle()
		fmt.Fprintf(c.App.Writer, "\nAfter %d random orders:\n", n)
		printTrades(c.App.Writer, ex.GetTrades())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ex.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func seedUsers() *match.UserDirectory {
	users := match.NewUserDirectory()
	users.Put(match.User{ID: 1, Name: "Alice", Phone: "1234567890", Email: "alice@example.com"})
	users.Put(match.User{ID: 2, Name: "Bob", Phone: "0987654321", Email: "bob@example.com"})
	return users
}

type scriptOrder struct {
	userID   int64
	side     match.Side
	symbol   string
	quantity int64
	price    int64
}

func runScript(ctx context.Context, ex *match.Exchange, users *match.UserDirectory, w io.Writer) error {
	place := func(o scriptOrder) int64 {
		return ex.PlaceOrder(ctx, o.userID, o.side, o.symbol, o.quantity, decimal.NewFromInt(o.price))
	}

	ids := make([]int64, 0, 11)
	for _, o := range []scriptOrder{
		{1, match.Buy, "RIL", 100, 2000},
		{2, match.Buy, "RIL", 150, 2100},
		{2, match.Sell, "HAL", 100, 2100},
		{2, match.Buy, "HAL", 150, 2100},
		{2, match.Sell, "RIL", 150, 1500},
		{2, match.Sell, "RIL", 100, 2500},
		{2, match.Sell, "RIL", 100, 3000},
	} {
		ids = append(ids, place(o))
	}
	ex.WaitIdle()

	if err := printQueried(w, ex, ids[0], ids[1]); err != nil {
		return err
	}

	ex.ModifyOrder(ctx, ids[0], 200, decimal.NewFromInt(1500))
	ex.CancelOrder(ctx, ids[1])
	ex.WaitIdle()

	if err := printQueried(w, ex, ids[0], ids[1]); err != nil {
		return err
	}

	for _, o := range []scriptOrder{
		{1, match.Buy, "TCS", 50, 3000},
		{2, match.Sell, "TCS", 50, 3000},
		{1, match.Buy, "INFY", 200, 1500},
		{2, match.Sell, "INFY", 200, 1500},
	} {
		ids = append(ids, place(o))
	}

	ex.ModifyOrder(ctx, ids[2], 50, decimal.NewFromInt(2200))
	ex.ModifyOrder(ctx, ids[3], 100, decimal.NewFromInt(2000))
	ex.CancelOrder(ctx, ids[4])
	ex.CancelOrder(ctx, ids[5])
	ex.WaitIdle()

	if err := printQueried(w, ex, ids[2], ids[3], ids[4], ids[5]); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nAll orders:")
	printOrders(w, users, ex.GetAllOrders())
	fmt.Fprintln(w, "\nActive orders:")
	printOrders(w, users, ex.GetActiveOrders())
	fmt.Fprintln(w, "\nTrades:")
	printTrades(w, ex.GetTrades())
	fmt.Fprintln(w, "\nBooks:")
	return printBooks(w, ex)
}

func randomFlow(ctx context.Context, ex *match.Exchange, users *match.UserDirectory, n int, seed int64) {
	faker := gofakeit.New(seed)
	symbols := []string{"RIL", "HAL", "TCS", "INFY"}
	accounts := users.List()

	for i := 0; i < n; i++ {
		side := match.Buy
		if faker.Bool() {
			side = match.Sell
		}
		user := accounts[faker.Number(0, len(accounts)-1)]
		ex.PlaceOrder(ctx, user.ID, side,
			faker.RandomString(symbols),
			int64(faker.Number(1, 20)*10),
			decimal.NewFromInt(int64(faker.Number(140, 160)*10)),
		)
	}
}

func printQueried(w io.Writer, ex *match.Exchange, ids ...int64) error {
	for _, id := range ids {
		order, err := ex.QueryOrder(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Order %d: %s, Quantity: %d\n", order.ID, order.Status, order.Quantity)
	}
	return nil
}

func printBooks(w io.Writer, ex *match.Exchange) error {
	serializer := &protocol.DefaultJSONSerializer{}
	for _, symbol := range ex.Registry.Symbols() {
		depth, err := ex.Depth(symbol, 5)
		if err != nil {
			return err
		}
		stats, err := ex.Stats(symbol)
		if err != nil {
			return err
		}

		for _, v := range []any{depth.Response(symbol), stats.Response()} {
			b, err := serializer.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		}
	}
	return nil
}

func printOrders(w io.Writer, users *match.UserDirectory, orders []match.Order) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tSYMBOL\tSIDE\tQTY\tFILLED\tPRICE\tSTATUS")
	for _, o := range orders {
		owner := fmt.Sprintf("#%d", o.UserID)
		if u, ok := users.Get(o.UserID); ok {
			owner = u.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			o.ID, owner, o.Symbol, o.Side, o.Quantity, o.Filled(), o.Price, o.Status)
	}
	_ = tw.Flush()
}

func printTrades(w io.Writer, trades []match.Trade) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYMBOL\tBUY\tSELL\tQTY\tPRICE\tAMOUNT")
	for _, t := range trades {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			t.ID, t.Symbol, t.BuyerOrderID, t.SellerOrderID, t.Quantity, t.Price, t.Amount)
	}
	_ = tw.Flush()
}

package match

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	start = 10  // actual = start  * goprocs
	end   = 410 // actual = end    * goprocs
	step  = 200
)

func BenchmarkPlaceOrders(b *testing.B) {
	goprocs := runtime.GOMAXPROCS(0)

	for i := start; i < end; i += step {
		ex, err := NewExchange(DefaultConfig())
		if err != nil {
			b.Fatal(err)
		}
		ctx := context.Background()

		// 1000 ticks around 10000, so roughly half of the flow crosses.
		priceCache := make([]decimal.Decimal, 1001)
		for p := range priceCache {
			priceCache[p] = decimal.NewFromInt(int64(9500 + p))
		}

		b.Run(fmt.Sprintf("goroutines-%d", i*goprocs), func(b *testing.B) {
			b.SetParallelism(i)
			b.RunParallel(func(pb *testing.PB) {
				rng := rand.New(rand.NewSource(rand.Int63()))
				for pb.Next() {
					side := Buy
					idx := rng.Intn(501) + 250
					if rng.Intn(2) == 1 {
						side = Sell
						idx = rng.Intn(501)
					}
					ex.PlaceOrder(ctx, 1, side, "RIL", int64(1+rng.Intn(10)), priceCache[idx])
				}
			})
			ex.WaitIdle()
		})

		stats, _ := ex.Stats("RIL")
		b.Logf("bid orders: %d, ask orders: %d, trades: %d", stats.BidOrderCount, stats.AskOrderCount, ex.Ledger.Count())
		_ = ex.Shutdown(ctx)
	}
}

func BenchmarkQueueInsertRemove(b *testing.B) {
	q := NewBuyerQueue()
	rng := rand.New(rand.NewSource(42))
	orders := make([]*Order, 4096)
	for i := range orders {
		orders[i] = newTestOrder(int64(i+1), Buy, int64(9500+rng.Intn(1000)), 1, epoch)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order := orders[i%len(orders)]
		if !q.insertOrder(order) {
			q.removeOrder(order)
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	engine := NewMatchingEngine(NewTradeLedger(), WithClock(func() time.Time { return epoch }))
	ctx := context.Background()
	price := decimal.NewFromInt(100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buy := newTestOrder(int64(2*i+1), Buy, 100, 1, epoch)
		sell := newTestOrder(int64(2*i+2), Sell, 100, 1, epoch)
		buy.Price, sell.Price = price, price
		engine.place(buy)
		engine.place(sell)
		engine.Match(ctx, "RIL")
	}
}

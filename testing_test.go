package match

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var epoch = time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: epoch}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestOrder(id int64, side Side, price int64, quantity int64, ts time.Time) *Order {
	return &Order{
		ID:               id,
		UserID:           1,
		Side:             side,
		Symbol:           "RIL",
		Quantity:         quantity,
		OriginalQuantity: quantity,
		Price:            decimal.NewFromInt(price),
		Timestamp:        ts,
		ExpiresAt:        ts.Add(30 * time.Minute),
		Status:           Accepted,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WorkerCount = 4
	return cfg
}

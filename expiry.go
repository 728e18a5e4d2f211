package match

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiryMonitor periodically retires orders whose deadline has passed, across
// every known symbol. It shares the book locks with request handling, so an
// order is expired exactly once no matter who notices first.
type ExpiryMonitor struct {
	engine   *MatchingEngine
	registry *OrderRegistry
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewExpiryMonitor creates a monitor sweeping every interval. Call Start to run it.
func NewExpiryMonitor(engine *MatchingEngine, registry *OrderRegistry, interval time.Duration) *ExpiryMonitor {
	return &ExpiryMonitor{
		engine:   engine,
		registry: registry,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It runs until ctx is cancelled or Stop is called.
func (m *ExpiryMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	go m.run(ctx)
}

// Stop signals the loop and waits for it to exit, or returns ctx's error first.
func (m *ExpiryMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has exited.
func (m *ExpiryMonitor) Done() <-chan struct{} {
	return m.done
}

func (m *ExpiryMonitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Info("expiry monitor started", zap.Duration("interval", m.interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry monitor stopped")
			return
		case <-ticker.C:
			m.safeSweep()
		}
	}
}

func (m *ExpiryMonitor) safeSweep() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("expiry sweep panicked", zap.Any("panic", r))
		}
	}()

	if n := m.SweepOnce(); n > 0 {
		logger.Info("orders expired", zap.Int("count", n))
	}
}

// SweepOnce runs one sweep over every known symbol and returns how many orders expired.
func (m *ExpiryMonitor) SweepOnce() int {
	total := 0
	for _, symbol := range m.registry.Symbols() {
		total += m.engine.expire(symbol)
	}
	m.engine.metrics.sweepDone()
	return total
}

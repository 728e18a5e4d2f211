package match

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Exchange owns every component of one trading process. It is constructed once
// at start-up and torn down with Shutdown; there is no package-level state
// besides the logger.
type Exchange struct {
	*OrderService

	Registry *OrderRegistry
	Ledger   *TradeLedger
	Engine   *MatchingEngine
	Gate     *AdmissionGate
	Monitor  *ExpiryMonitor

	config Config
}

// NewExchange builds the components from cfg and starts the expiry monitor.
func NewExchange(cfg Config, opts ...Option) (*Exchange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	resolved := func(dst *options) { *dst = o }

	registry := NewOrderRegistry()
	ledger := NewTradeLedger()
	engine := NewMatchingEngine(ledger, resolved)
	gate := NewAdmissionGate(int64(cfg.WorkerCount), resolved)
	monitor := NewExpiryMonitor(engine, registry, cfg.ExpiryCheckInterval())

	ex := &Exchange{
		OrderService: NewOrderService(registry, engine, ledger, gate, cfg.OrderExpiry()),
		Registry:     registry,
		Ledger:       ledger,
		Engine:       engine,
		Gate:         gate,
		Monitor:      monitor,
		config:       cfg,
	}
	monitor.Start(context.Background())

	logger.Info("exchange started",
		zap.Int("worker_count", cfg.WorkerCount),
		zap.Duration("order_expiry", cfg.OrderExpiry()),
		zap.Duration("expiry_check_interval", cfg.ExpiryCheckInterval()),
	)
	return ex, nil
}

// Config returns the configuration the exchange was built with.
func (ex *Exchange) Config() Config {
	return ex.config
}

// WaitIdle blocks until every dispatched matching pass has finished.
func (ex *Exchange) WaitIdle() {
	ex.Gate.Wait()
}

// Shutdown rejects further placements, stops the expiry monitor and waits for
// in-flight matching passes. It returns ctx's error if that takes too long.
func (ex *Exchange) Shutdown(ctx context.Context) error {
	ex.OrderService.shutdown()

	if err := ex.Monitor.Stop(ctx); err != nil {
		return errors.Wrap(err, "stop expiry monitor")
	}
	if err := ex.Gate.Close(ctx); err != nil {
		return errors.Wrap(err, "drain match passes")
	}

	logger.Info("exchange stopped")
	return nil
}

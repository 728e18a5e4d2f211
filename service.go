package match

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const matchTaskName = "match.pass"

// OrderService is the order-entry API over the registry, engine and ledger.
type OrderService struct {
	registry    *OrderRegistry
	engine      *MatchingEngine
	ledger      *TradeLedger
	gate        *AdmissionGate
	metrics     *Metrics
	now         func() time.Time
	orderExpiry time.Duration

	orderID    atomic.Int64
	isShutdown atomic.Bool
}

// NewOrderService wires a service over existing components.
func NewOrderService(registry *OrderRegistry, engine *MatchingEngine, ledger *TradeLedger, gate *AdmissionGate, orderExpiry time.Duration) *OrderService {
	return &OrderService{
		registry:    registry,
		engine:      engine,
		ledger:      ledger,
		gate:        gate,
		metrics:     engine.metrics,
		now:         engine.now,
		orderExpiry: orderExpiry,
	}
}

// PlaceOrder registers a new limit order and returns its id.
//
// An id is always returned. Orders with a non-positive quantity or price, an
// unknown side, or placed after shutdown are recorded as Rejected. Accepted
// orders are inserted into the book and a matching pass is scheduled; the call
// may block until the admission gate has a free slot but returns before the
// pass completes.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, side Side, symbol string, quantity int64, price decimal.Decimal) int64 {
	now := s.now()
	order := &Order{
		ID:               s.orderID.Add(1),
		UserID:           userID,
		Side:             side,
		Symbol:           symbol,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		Price:            price,
		Timestamp:        now,
		ExpiresAt:        now.Add(s.orderExpiry),
		Status:           Accepted,
	}

	if reason := s.validate(order); reason != RejectReasonNone {
		order.Status = Rejected
		s.registry.Add(order)
		s.engine.reject(order, reason)
		s.metrics.orderPlaced(Rejected)

		logger.Info("order rejected",
			zap.Int64("order_id", order.ID),
			zap.String("symbol", symbol),
			zap.String("reason", string(reason)),
		)
		return order.ID
	}

	s.registry.Add(order)
	s.metrics.orderPlaced(Accepted)
	if s.engine.place(order) {
		s.scheduleMatch(ctx, symbol)
	}
	return order.ID
}

func (s *OrderService) validate(order *Order) RejectReason {
	switch {
	case s.isShutdown.Load():
		return RejectReasonShutdown
	case !order.Side.Valid():
		return RejectReasonInvalidSide
	case order.Quantity <= 0:
		return RejectReasonInvalidQuantity
	case !order.Price.IsPositive():
		return RejectReasonInvalidPrice
	}
	return RejectReasonNone
}

// ModifyOrder replaces the remaining quantity and limit price of an Accepted
// order and re-runs matching for its symbol. Time priority is preserved.
// It returns false if the order is unknown, no longer Accepted, or the new
// quantity or price is not positive.
func (s *OrderService) ModifyOrder(ctx context.Context, orderID int64, quantity int64, price decimal.Decimal) bool {
	order := s.registry.Get(orderID)
	if order == nil {
		return false
	}
	if quantity <= 0 || !price.IsPositive() {
		return false
	}

	if !s.engine.amend(order, quantity, price) {
		return false
	}
	s.scheduleMatch(ctx, order.Symbol)
	return true
}

// CancelOrder retracts an Accepted order from its book and marks it Canceled.
// It returns false if the order is unknown or no longer Accepted.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) bool {
	order := s.registry.Get(orderID)
	if order == nil {
		return false
	}
	return s.engine.cancel(order)
}

// QueryOrder returns a copy of the order's current state.
func (s *OrderService) QueryOrder(orderID int64) (Order, error) {
	order := s.registry.Get(orderID)
	if order == nil {
		return Order{}, errors.Wrapf(ErrNotFound, "order %d", orderID)
	}
	return s.engine.snapshot(order), nil
}

// GetAllOrders returns a snapshot of every order ordered by id.
func (s *OrderService) GetAllOrders() []Order {
	return s.engine.snapshots(s.registry.ListAll(), nil)
}

// GetActiveOrders returns a snapshot of the Accepted orders ordered by id.
func (s *OrderService) GetActiveOrders() []Order {
	return s.engine.snapshots(s.registry.ListAll(), func(order *Order) bool {
		return order.Status == Accepted
	})
}

// GetTrades returns every trade ordered by id.
func (s *OrderService) GetTrades() []Trade {
	return s.ledger.List()
}

// GetTradesByOrder returns the trades in which the order was either leg.
func (s *OrderService) GetTradesByOrder(orderID int64) []Trade {
	return s.ledger.ByOrder(orderID)
}

// Depth returns up to limit price levels of both sides of a symbol's book.
func (s *OrderService) Depth(symbol string, limit uint32) (*Depth, error) {
	book := s.engine.lookupOrderBook(symbol)
	if book == nil {
		return nil, errors.Wrapf(ErrUnknownSymbol, "symbol %q", symbol)
	}
	return book.Depth(limit)
}

// Stats returns level and order counts of a symbol's book.
func (s *OrderService) Stats(symbol string) (*BookStats, error) {
	book := s.engine.lookupOrderBook(symbol)
	if book == nil {
		return nil, errors.Wrapf(ErrUnknownSymbol, "symbol %q", symbol)
	}
	return book.GetStats(), nil
}

// scheduleMatch dispatches a matching pass for symbol through the gate.
// If no slot can be obtained the orders stay queued; the next pass on the
// symbol picks them up.
func (s *OrderService) scheduleMatch(ctx context.Context, symbol string) {
	err := s.gate.Go(ctx, matchTaskName, func(ctx context.Context) error {
		s.engine.Match(ctx, symbol)
		return nil
	})
	if err != nil {
		logger.Warn("match pass not scheduled", zap.String("symbol", symbol), zap.Error(err))
	}
}

// shutdown makes every later placement Rejected.
func (s *OrderService) shutdown() {
	s.isShutdown.Store(true)
}

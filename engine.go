package match

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/0x5487/trading-core"

// MatchingEngine manages the order books of every symbol and drains crossing
// orders out of them under price-time priority.
type MatchingEngine struct {
	orderbooks sync.Map // string -> *OrderBook
	ledger     *TradeLedger
	publishLog PublishLog
	metrics    *Metrics
	tracer     trace.Tracer
	now        func() time.Time
	tradeID    atomic.Int64
}

// NewMatchingEngine creates a new matching engine instance.
func NewMatchingEngine(ledger *TradeLedger, opts ...Option) *MatchingEngine {
	o := newOptions(opts)
	return &MatchingEngine{
		ledger:     ledger,
		publishLog: o.publishLog,
		metrics:    o.metrics,
		tracer:     o.tracerProvider.Tracer(tracerName),
		now:        o.now,
	}
}

// OrderBook retrieves the order book for a symbol, creating it on first use.
func (engine *MatchingEngine) OrderBook(symbol string) *OrderBook {
	book, found := engine.orderbooks.Load(symbol)
	if !found {
		book, _ = engine.orderbooks.LoadOrStore(symbol, NewOrderBook(symbol))
	}

	orderbook, _ := book.(*OrderBook)
	return orderbook
}

// lookupOrderBook returns the book for symbol without creating it.
func (engine *MatchingEngine) lookupOrderBook(symbol string) *OrderBook {
	book, found := engine.orderbooks.Load(symbol)
	if !found {
		return nil
	}
	orderbook, _ := book.(*OrderBook)
	return orderbook
}

// publish hands logs to the sink and recycles them. Callers hold the book lock.
func (engine *MatchingEngine) publish(logs []*OrderBookLog) {
	if len(logs) == 0 {
		return
	}
	defer releaseBookLogs(logs)
	engine.publishLog.Publish(logs...)
}

// place inserts an accepted order into its book.
// It returns false if the order left Accepted before reaching the book.
func (engine *MatchingEngine) place(order *Order) bool {
	book := engine.OrderBook(order.Symbol)

	book.mu.Lock()
	defer book.mu.Unlock()

	if !book.insert(order) {
		return false
	}
	engine.publish([]*OrderBookLog{NewOpenLog(book.nextSeqID(), order, engine.now())})
	return true
}

// reject records a Rejected order's event.
func (engine *MatchingEngine) reject(order *Order, reason RejectReason) {
	book := engine.OrderBook(order.Symbol)

	book.mu.Lock()
	defer book.mu.Unlock()

	engine.publish([]*OrderBookLog{NewRejectLog(book.nextSeqID(), order, reason, engine.now())})
}

// amend retracts an Accepted order, applies the new quantity and price, and
// re-inserts it. The acceptance timestamp is kept, so is time priority.
func (engine *MatchingEngine) amend(order *Order, quantity int64, price decimal.Decimal) bool {
	book := engine.OrderBook(order.Symbol)

	book.mu.Lock()
	defer book.mu.Unlock()

	if order.Status != Accepted {
		return false
	}

	queued := book.retract(order)

	oldPrice := order.Price
	oldSize := order.Quantity

	order.OriginalQuantity = order.Filled() + quantity
	order.Quantity = quantity
	order.Price = price

	book.insert(order)
	if !queued {
		// Registered but not yet placed: this is the order's first appearance in the book.
		engine.publish([]*OrderBookLog{NewOpenLog(book.nextSeqID(), order, engine.now())})
		return true
	}
	engine.publish([]*OrderBookLog{NewAmendLog(book.nextSeqID(), order, oldPrice, oldSize, engine.now())})
	return true
}

// cancel retracts an Accepted order and marks it Canceled.
func (engine *MatchingEngine) cancel(order *Order) bool {
	book := engine.OrderBook(order.Symbol)

	book.mu.Lock()
	defer book.mu.Unlock()

	if order.Status != Accepted {
		return false
	}

	queued := book.retract(order)
	order.Status = Canceled
	if queued {
		engine.publish([]*OrderBookLog{NewCancelLog(book.nextSeqID(), order, engine.now())})
	}
	return true
}

// Match drains every crossing pair out of the symbol's book.
// It returns the number of trades executed.
//
// Each iteration looks at the best bid and best ask only: expired heads are
// retired, and once the best bid is below the best ask no deeper order can cross.
// Trades execute at the sell order's limit price.
func (engine *MatchingEngine) Match(ctx context.Context, symbol string) int {
	_, span := engine.tracer.Start(ctx, "match.Match", trace.WithAttributes(attribute.String("symbol", symbol)))
	defer span.End()

	book := engine.OrderBook(symbol)

	book.mu.Lock()
	defer book.mu.Unlock()

	now := engine.now()
	logs := make([]*OrderBookLog, 0, 8)
	trades := 0
	expired := 0

	for {
		buy := book.peekBest(Buy)
		sell := book.peekBest(Sell)
		if buy == nil || sell == nil {
			break
		}

		if buy.expired(now) {
			book.retract(buy)
			buy.Status = Expired
			logs = append(logs, NewExpireLog(book.nextSeqID(), buy, now))
			expired++
			continue
		}
		if sell.expired(now) {
			book.retract(sell)
			sell.Status = Expired
			logs = append(logs, NewExpireLog(book.nextSeqID(), sell, now))
			expired++
			continue
		}

		if buy.Price.LessThan(sell.Price) {
			break
		}

		size := min(buy.Quantity, sell.Quantity)
		trade := &Trade{
			ID:            engine.tradeID.Add(1),
			BuyerOrderID:  buy.ID,
			SellerOrderID: sell.ID,
			Symbol:        symbol,
			Quantity:      size,
			Price:         sell.Price,
			Amount:        sell.Price.Mul(decimal.NewFromInt(size)),
			Timestamp:     now,
		}
		engine.ledger.Append(trade)
		engine.metrics.tradeExecuted(trade)

		taker, maker := buy, sell
		if buy.before(sell) {
			taker, maker = sell, buy
		}
		logs = append(logs, NewMatchLog(book.nextSeqID(), trade, taker, maker))

		book.bidQueue.fill(buy, size)
		book.askQueue.fill(sell, size)

		if buy.Quantity == 0 {
			book.retract(buy)
			buy.Status = Completed
		}
		if sell.Quantity == 0 {
			book.retract(sell)
			sell.Status = Completed
		}
		trades++

		logger.Debug("trade executed",
			zap.String("symbol", symbol),
			zap.Int64("trade_id", trade.ID),
			zap.Int64("buy_order_id", buy.ID),
			zap.Int64("sell_order_id", sell.ID),
			zap.Int64("quantity", size),
			zap.String("price", trade.Price.String()),
		)
	}

	if expired > 0 {
		engine.metrics.ordersExpired(expired)
	}
	engine.publish(logs)

	span.SetAttributes(attribute.Int("trades", trades), attribute.Int("expired", expired))
	return trades
}

// expire retires the stale orders of one symbol and returns how many expired.
func (engine *MatchingEngine) expire(symbol string) int {
	book := engine.lookupOrderBook(symbol)
	if book == nil {
		return 0
	}

	book.mu.Lock()
	defer book.mu.Unlock()

	now := engine.now()
	expired := book.sweep(now)
	if len(expired) == 0 {
		return 0
	}

	logs := make([]*OrderBookLog, 0, len(expired))
	for _, order := range expired {
		logs = append(logs, NewExpireLog(book.nextSeqID(), order, now))
	}
	engine.publish(logs)
	engine.metrics.ordersExpired(len(expired))
	return len(expired)
}

// snapshot copies one order under its book lock.
func (engine *MatchingEngine) snapshot(order *Order) Order {
	book := engine.OrderBook(order.Symbol)

	book.mu.Lock()
	defer book.mu.Unlock()

	return order.snapshot()
}

// snapshots copies orders, taking each symbol's lock once.
// The result keeps the input order; filter, if set, drops copies it rejects.
func (engine *MatchingEngine) snapshots(orders []*Order, filter func(*Order) bool) []Order {
	bySymbol := make(map[string][]int)
	for i, order := range orders {
		bySymbol[order.Symbol] = append(bySymbol[order.Symbol], i)
	}

	copies := make([]Order, len(orders))
	for symbol, idx := range bySymbol {
		book := engine.OrderBook(symbol)
		book.mu.Lock()
		for _, i := range idx {
			copies[i] = orders[i].snapshot()
		}
		book.mu.Unlock()
	}

	if filter == nil {
		return copies
	}
	result := copies[:0]
	for i := range copies {
		if filter(&copies[i]) {
			result = append(result, copies[i])
		}
	}
	return result
}

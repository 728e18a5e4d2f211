package match

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// OrderBookLog represents an event in the order book.
// SequenceID increases by one for every event of a symbol, used for ordering,
// deduplication, and rebuild synchronization in downstream systems.
// Use LogType to determine if the event affects order book state:
// - Open, Match, Cancel, Amend, Expire: affect order book state
// - Reject: does not affect order book state
//
// A Match event names the later-accepted leg as the taker (OrderID) and the
// earlier leg as the maker; both legs leave the book by Size.
type OrderBookLog struct {
	SequenceID   uint64          `json:"seq_id"`
	TradeID      int64           `json:"trade_id,omitempty"` // Only set for Match events
	Type         LogType         `json:"type"`
	Symbol       string          `json:"symbol"`
	Side         Side            `json:"side"`
	Price        decimal.Decimal `json:"price"` // Trade price for Match events, limit price otherwise
	Size         int64           `json:"size"`
	Amount       decimal.Decimal `json:"amount,omitempty"` // Price * Size, only set for Match events
	LimitPrice   decimal.Decimal `json:"limit_price,omitempty"`
	OldPrice     decimal.Decimal `json:"old_price,omitempty"`
	OldSize      int64           `json:"old_size,omitempty"`
	OrderID      int64           `json:"order_id"`
	UserID       int64           `json:"user_id"`
	MakerOrderID int64           `json:"maker_order_id,omitempty"`
	MakerUserID  int64           `json:"maker_user_id,omitempty"`
	MakerPrice   decimal.Decimal `json:"maker_price,omitempty"`
	RejectReason RejectReason    `json:"reject_reason,omitempty"` // Only set for Reject events
	CreatedAt    time.Time       `json:"created_at"`
}

var bookLogPool = sync.Pool{
	New: func() any {
		return new(OrderBookLog)
	},
}

func acquireBookLog() *OrderBookLog {
	return bookLogPool.Get().(*OrderBookLog)
}

func releaseBookLog(log *OrderBookLog) {
	*log = OrderBookLog{}
	bookLogPool.Put(log)
}

func releaseBookLogs(logs []*OrderBookLog) {
	for _, log := range logs {
		releaseBookLog(log)
	}
}

func newOrderLog(seqID uint64, logType LogType, order *Order, now time.Time) *OrderBookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = logType
	log.Symbol = order.Symbol
	log.Side = order.Side
	log.Price = order.Price
	log.Size = order.Quantity
	log.OrderID = order.ID
	log.UserID = order.UserID
	log.CreatedAt = now
	return log
}

func NewOpenLog(seqID uint64, order *Order, now time.Time) *OrderBookLog {
	return newOrderLog(seqID, LogTypeOpen, order, now)
}

func NewCancelLog(seqID uint64, order *Order, now time.Time) *OrderBookLog {
	return newOrderLog(seqID, LogTypeCancel, order, now)
}

func NewExpireLog(seqID uint64, order *Order, now time.Time) *OrderBookLog {
	return newOrderLog(seqID, LogTypeExpire, order, now)
}

func NewAmendLog(seqID uint64, order *Order, oldPrice decimal.Decimal, oldSize int64, now time.Time) *OrderBookLog {
	log := newOrderLog(seqID, LogTypeAmend, order, now)
	log.OldPrice = oldPrice
	log.OldSize = oldSize
	return log
}

func NewRejectLog(seqID uint64, order *Order, reason RejectReason, now time.Time) *OrderBookLog {
	log := newOrderLog(seqID, LogTypeReject, order, now)
	if !order.Side.Valid() {
		log.Side = 0
	}
	log.RejectReason = reason
	return log
}

func NewMatchLog(seqID uint64, trade *Trade, taker *Order, maker *Order) *OrderBookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.TradeID = trade.ID
	log.Type = LogTypeMatch
	log.Symbol = trade.Symbol
	log.Side = taker.Side
	log.Price = trade.Price
	log.Size = trade.Quantity
	log.Amount = trade.Amount
	log.LimitPrice = taker.Price
	log.OrderID = taker.ID
	log.UserID = taker.UserID
	log.MakerOrderID = maker.ID
	log.MakerUserID = maker.UserID
	log.MakerPrice = maker.Price
	log.CreatedAt = trade.Timestamp
	return log
}

package match

import (
	"time"

	"github.com/0x5487/trading-core/protocol"
	"github.com/shopspring/decimal"
)

type Side = protocol.Side

const (
	Buy  Side = protocol.SideBuy
	Sell Side = protocol.SideSell
)

type OrderStatus = protocol.OrderStatus

const (
	Accepted  OrderStatus = protocol.OrderStatusAccepted
	Rejected  OrderStatus = protocol.OrderStatusRejected
	Canceled  OrderStatus = protocol.OrderStatusCanceled
	Completed OrderStatus = protocol.OrderStatusCompleted
	Expired   OrderStatus = protocol.OrderStatusExpired
)

type LogType = protocol.LogType

const (
	LogTypeOpen   LogType = protocol.LogTypeOpen
	LogTypeMatch  LogType = protocol.LogTypeMatch
	LogTypeCancel LogType = protocol.LogTypeCancel
	LogTypeAmend  LogType = protocol.LogTypeAmend
	LogTypeExpire LogType = protocol.LogTypeExpire
	LogTypeReject LogType = protocol.LogTypeReject
)

type RejectReason = protocol.RejectReason

const (
	RejectReasonNone            RejectReason = protocol.RejectReasonNone
	RejectReasonInvalidQuantity RejectReason = protocol.RejectReasonInvalidQuantity
	RejectReasonInvalidPrice    RejectReason = protocol.RejectReasonInvalidPrice
	RejectReasonInvalidSide     RejectReason = protocol.RejectReasonInvalidSide
	RejectReasonShutdown        RejectReason = protocol.RejectReasonShutdown
)

// Order is the registry's record of a limit order.
// ID, UserID, Side and Symbol never change after creation; every other field
// is guarded by the lock of the order's symbol book.
type Order struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	Side             Side            `json:"side"`
	Symbol           string          `json:"symbol"`
	Quantity         int64           `json:"quantity"`          // Remaining quantity
	OriginalQuantity int64           `json:"original_quantity"` // Filled + remaining
	Price            decimal.Decimal `json:"price"`
	Timestamp        time.Time       `json:"timestamp"` // Acceptance time, drives time priority
	ExpiresAt        time.Time       `json:"expires_at"`
	Status           OrderStatus     `json:"status"`

	// Intrusive linked list pointers (ignored by JSON)
	next *Order
	prev *Order
}

// Filled returns the quantity traded so far.
func (o *Order) Filled() int64 {
	return o.OriginalQuantity - o.Quantity
}

// before reports whether o has time priority over other at the same price.
func (o *Order) before(other *Order) bool {
	if o.Timestamp.Equal(other.Timestamp) {
		return o.ID < other.ID
	}
	return o.Timestamp.Before(other.Timestamp)
}

// expired reports whether the order's deadline has passed at now.
func (o *Order) expired(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}

// snapshot returns a detached copy safe to hand out of the book lock.
func (o *Order) snapshot() Order {
	cpy := *o
	cpy.next = nil
	cpy.prev = nil
	return cpy
}

// Trade is an immutable execution between one buy and one sell order.
type Trade struct {
	ID            int64           `json:"id"`
	BuyerOrderID  int64           `json:"buyer_order_id"`
	SellerOrderID int64           `json:"seller_order_id"`
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Amount        decimal.Decimal `json:"amount"` // Price * Quantity
	Timestamp     time.Time       `json:"timestamp"`
}

// DepthItem is one aggregated price level.
type DepthItem struct {
	Price decimal.Decimal
	Size  int64
	Count int64
}

// Depth is the top of both sides of a book, best price first.
type Depth struct {
	UpdateID uint64       `json:"update_id"`
	Asks     []*DepthItem `json:"asks"`
	Bids     []*DepthItem `json:"bids"`
}

// BookStats contains statistics about the order book queues
type BookStats struct {
	AskDepthCount int64
	AskOrderCount int64
	BidDepthCount int64
	BidOrderCount int64
}

// DepthChange represents a change in the order book depth.
type DepthChange struct {
	Side     Side
	Price    decimal.Decimal
	SizeDiff int64
}

// Response converts the depth to its wire form.
func (d *Depth) Response(symbol string) *protocol.GetDepthResponse {
	convert := func(items []*DepthItem) []*protocol.DepthItem {
		result := make([]*protocol.DepthItem, 0, len(items))
		for _, item := range items {
			result = append(result, &protocol.DepthItem{
				Price: item.Price.String(),
				Size:  item.Size,
				Count: item.Count,
			})
		}
		return result
	}

	return &protocol.GetDepthResponse{
		Symbol:   symbol,
		UpdateID: d.UpdateID,
		Asks:     convert(d.Asks),
		Bids:     convert(d.Bids),
	}
}

// Response converts the stats to their wire form.
func (s *BookStats) Response() *protocol.GetStatsResponse {
	return &protocol.GetStatsResponse{
		AskDepthCount: s.AskDepthCount,
		AskOrderCount: s.AskOrderCount,
		BidDepthCount: s.BidDepthCount,
		BidOrderCount: s.BidOrderCount,
	}
}

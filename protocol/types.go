package protocol

import (
	"fmt"
)

// DepthItem is one aggregated price level of a book side.
type DepthItem struct {
	Price string `json:"price"`
	Size  int64  `json:"size"`
	Count int64  `json:"count"`
}

// GetDepthResponse represents the state of the order book depth.
type GetDepthResponse struct {
	Symbol   string       `json:"symbol"`
	UpdateID uint64       `json:"update_id"`
	Asks     []*DepthItem `json:"asks"`
	Bids     []*DepthItem `json:"bids"`
}

// GetStatsResponse contains statistics about the order book queues.
type GetStatsResponse struct {
	AskDepthCount int64 `json:"ask_depth_count"`
	AskOrderCount int64 `json:"ask_order_count"`
	BidDepthCount int64 `json:"bid_depth_count"`
	BidOrderCount int64 `json:"bid_order_count"`
}

// Side represents the order side (Buy/Sell).
type Side int8

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	}
	return fmt.Sprintf("Side(%d)", int8(s))
}

// Valid reports whether s is Buy or Sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// MarshalText encodes the symbolic name. The zero Side encodes as an empty string.
func (s Side) MarshalText() ([]byte, error) {
	if s == 0 {
		return []byte{}, nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("protocol: invalid side %d", int8(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*s = 0
	case "Buy":
		*s = SideBuy
	case "Sell":
		*s = SideSell
	default:
		return fmt.Errorf("protocol: unknown side %q", text)
	}
	return nil
}

// OrderStatus is the lifecycle state of an order.
//
// Accepted is the only non-terminal state. Rejected is terminal from creation;
// Completed, Canceled and Expired are reached from Accepted only.
type OrderStatus uint8

const (
	OrderStatusUnknown OrderStatus = iota
	OrderStatusAccepted
	OrderStatusRejected
	OrderStatusCanceled
	OrderStatusCompleted
	OrderStatusExpired
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusAccepted:  "Accepted",
	OrderStatusRejected:  "Rejected",
	OrderStatusCanceled:  "Canceled",
	OrderStatusCompleted: "Completed",
	OrderStatusExpired:   "Expired",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OrderStatus(%d)", uint8(s))
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s != OrderStatusAccepted && s != OrderStatusUnknown
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	name, ok := orderStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("protocol: invalid order status %d", uint8(s))
	}
	return []byte(name), nil
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	for status, name := range orderStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("protocol: unknown order status %q", text)
}

// LogType represents the type of event log.
type LogType string

const (
	LogTypeOpen   LogType = "open"
	LogTypeMatch  LogType = "match"
	LogTypeCancel LogType = "cancel"
	LogTypeAmend  LogType = "amend"
	LogTypeExpire LogType = "expire"
	LogTypeReject LogType = "reject"
)

// RejectReason represents the reason why an order was rejected.
type RejectReason string

const (
	RejectReasonNone            RejectReason = ""
	RejectReasonInvalidQuantity RejectReason = "invalid_quantity"
	RejectReasonInvalidPrice    RejectReason = "invalid_price"
	RejectReasonInvalidSide     RejectReason = "invalid_side"
	RejectReasonShutdown        RejectReason = "shutdown"
)

package match

import (
	"sync"
	"time"
)

// OrderBook type
//
// One mutex guards both queues together. Every unexported method assumes the
// caller holds mu for the whole read-modify-write sequence.
type OrderBook struct {
	mu       sync.Mutex
	symbol   string
	seqID    uint64 // Sequence ID of the last OrderBookLog produced by this book
	bidQueue *queue
	askQueue *queue
}

// NewOrderBook creates a new order book instance.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol:   symbol,
		bidQueue: NewBuyerQueue(),
		askQueue: NewSellerQueue(),
	}
}

// Symbol returns the instrument this book trades.
func (book *OrderBook) Symbol() string {
	return book.symbol
}

func (book *OrderBook) queueFor(side Side) *queue {
	if side == Buy {
		return book.bidQueue
	}
	return book.askQueue
}

// insert enqueues an accepted order on its side.
func (book *OrderBook) insert(order *Order) bool {
	if order.Status != Accepted || order.Quantity <= 0 {
		return false
	}
	if book.queueFor(order.Side.Opposite()).order(order.ID) != nil {
		return false
	}
	return book.queueFor(order.Side).insertOrder(order)
}

// peekBest returns the top-priority order of a side, or nil.
func (book *OrderBook) peekBest(side Side) *Order {
	return book.queueFor(side).peekHeadOrder()
}

// retract removes a specific order from its queue.
func (book *OrderBook) retract(order *Order) bool {
	return book.queueFor(order.Side).removeOrder(order)
}

// contains reports whether the order is queued on its side.
func (book *OrderBook) contains(order *Order) bool {
	return book.queueFor(order.Side).order(order.ID) == order
}

// nextSeqID advances the book's event sequence.
func (book *OrderBook) nextSeqID() uint64 {
	book.seqID++
	return book.seqID
}

// sweep retires every queued order that is expired or no longer Accepted.
// Survivors keep their position. Returns the orders that were marked Expired.
func (book *OrderBook) sweep(now time.Time) []*Order {
	var expired []*Order
	for _, q := range []*queue{book.bidQueue, book.askQueue} {
		var stale []*Order
		q.each(func(order *Order) bool {
			if order.Status != Accepted || order.expired(now) {
				stale = append(stale, order)
			}
			return true
		})

		for _, order := range stale {
			q.removeOrder(order)
			if order.Status == Accepted {
				order.Status = Expired
				expired = append(expired, order)
			}
		}
	}
	return expired
}

// Depth returns the current depth of the order book up to the specified limit.
func (book *OrderBook) Depth(limit uint32) (*Depth, error) {
	if limit == 0 {
		return nil, ErrInvalidParam
	}

	book.mu.Lock()
	defer book.mu.Unlock()

	return &Depth{
		UpdateID: book.seqID,
		Asks:     book.askQueue.depth(limit),
		Bids:     book.bidQueue.depth(limit),
	}, nil
}

// GetStats returns usage statistics for the order book.
func (book *OrderBook) GetStats() *BookStats {
	book.mu.Lock()
	defer book.mu.Unlock()

	return &BookStats{
		AskDepthCount: book.askQueue.depthCount(),
		AskOrderCount: book.askQueue.orderCount(),
		BidDepthCount: book.bidQueue.depthCount(),
		BidOrderCount: book.bidQueue.orderCount(),
	}
}

// orders returns the queued orders of a side in priority order.
func (book *OrderBook) orders(side Side) []*Order {
	q := book.queueFor(side)
	result := make([]*Order, 0, q.orderCount())
	q.each(func(order *Order) bool {
		result = append(result, order)
		return true
	})
	return result
}

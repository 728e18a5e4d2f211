package match

import (
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

type priceUnit struct {
	totalSize int64
	head      *Order
	tail      *Order
	count     int64
}

type queue struct {
	side        Side
	totalOrders int64
	depths      int64
	depthList   *skiplist.SkipList
	orders      map[int64]*Order
}

// NewBuyerQueue creates a new queue for buy orders (bids).
// The orders are sorted by price in descending order (highest price first).
func NewBuyerQueue() *queue {
	return &queue{
		side: Buy,
		depthList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.LessThan(d2) {
				return 1
			} else if d1.GreaterThan(d2) {
				return -1
			}

			return 0
		})),
		orders: make(map[int64]*Order),
	}
}

// NewSellerQueue creates a new queue for sell orders (asks).
// The orders are sorted by price in ascending order (lowest price first).
func NewSellerQueue() *queue {
	return &queue{
		side: Sell,
		depthList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.GreaterThan(d2) {
				return 1
			} else if d1.LessThan(d2) {
				return -1
			}

			return 0
		})),
		orders: make(map[int64]*Order),
	}
}

// order finds an order by its ID.
func (q *queue) order(id int64) *Order {
	return q.orders[id]
}

// insertOrder inserts an order into the queue.
// Within a price level the order is placed by acceptance time, so an order that
// is retracted and re-inserted keeps its original time priority.
// Inserting an order that is already queued is a no-op.
func (q *queue) insertOrder(order *Order) bool {
	if _, ok := q.orders[order.ID]; ok {
		return false
	}

	el := q.depthList.Get(order.Price)
	if el == nil {
		unit := &priceUnit{
			head:      order,
			tail:      order,
			totalSize: order.Quantity,
			count:     1,
		}
		order.next = nil
		order.prev = nil

		q.depthList.Set(order.Price, unit)
		q.orders[order.ID] = order
		q.totalOrders++
		q.depths++
		return true
	}

	unit, _ := el.Value.(*priceUnit)

	// Walk back from the tail; new orders almost always belong there.
	after := unit.tail
	for after != nil && order.before(after) {
		after = after.prev
	}

	if after == nil {
		// Push Front
		order.prev = nil
		order.next = unit.head
		unit.head.prev = order
		unit.head = order
	} else {
		order.prev = after
		order.next = after.next
		if after.next != nil {
			after.next.prev = order
		} else {
			unit.tail = order
		}
		after.next = order
	}

	unit.totalSize += order.Quantity
	unit.count++
	q.orders[order.ID] = order
	q.totalOrders++
	return true
}

// removeOrder removes an order from the queue.
// It also cleans up the price unit if it becomes empty.
func (q *queue) removeOrder(order *Order) bool {
	if q.orders[order.ID] != order {
		return false
	}

	skipElement := q.depthList.Get(order.Price)
	if skipElement == nil {
		return false
	}
	unit, _ := skipElement.Value.(*priceUnit)

	// Remove from linked list
	if order.prev != nil {
		order.prev.next = order.next
	} else {
		unit.head = order.next
	}

	if order.next != nil {
		order.next.prev = order.prev
	} else {
		unit.tail = order.prev
	}

	// Clear pointers to avoid leaks
	order.next = nil
	order.prev = nil

	unit.totalSize -= order.Quantity
	unit.count--
	delete(q.orders, order.ID)
	q.totalOrders--

	if unit.count == 0 {
		q.depthList.RemoveElement(skipElement)
		q.depths--
	}
	return true
}

// fill decrements a queued order's remaining quantity in-place, keeping its priority.
func (q *queue) fill(order *Order, size int64) {
	skipElement := q.depthList.Get(order.Price)
	if skipElement != nil {
		unit, _ := skipElement.Value.(*priceUnit)
		unit.totalSize -= size
	}
	order.Quantity -= size
}

// peekHeadOrder returns the order at the front of the queue (best price) without removing it.
func (q *queue) peekHeadOrder() *Order {
	el := q.depthList.Front()
	if el == nil {
		return nil
	}

	unit, _ := el.Value.(*priceUnit)
	return unit.head
}

// popHeadOrder removes and returns the order at the front of the queue.
func (q *queue) popHeadOrder() *Order {
	ord := q.peekHeadOrder()

	if ord != nil {
		q.removeOrder(ord)
	}

	return ord
}

// orderCount returns the total number of orders in the queue.
func (q *queue) orderCount() int64 {
	return q.totalOrders
}

// depthCount returns the number of price levels in the queue.
func (q *queue) depthCount() int64 {
	return q.depths
}

// each visits orders in priority order until fn returns false.
// fn must not mutate the queue.
func (q *queue) each(fn func(order *Order) bool) {
	for elem := q.depthList.Front(); elem != nil; elem = elem.Next() {
		unit, _ := elem.Value.(*priceUnit)
		for order := unit.head; order != nil; order = order.next {
			if !fn(order) {
				return
			}
		}
	}
}

// depth returns the order book depth up to the specified limit.
func (q *queue) depth(limit uint32) []*DepthItem {
	result := make([]*DepthItem, 0, min(limit, uint32(q.depths)))

	el := q.depthList.Front()

	var i uint32 = 0
	for i < limit && el != nil {
		unit, _ := el.Value.(*priceUnit)
		result = append(result, &DepthItem{
			Price: unit.head.Price,
			Size:  unit.totalSize,
			Count: unit.count,
		})

		el = el.Next()
		i++
	}

	return result
}

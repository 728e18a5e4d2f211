package match

import (
	"slices"
	"sync"
	"sync/atomic"
)

// OrderRegistry maps order id to its record and is the source of truth for
// order state. Records are never removed. The registry does not coordinate
// updates of a record's fields; callers do that through the symbol book lock.
type OrderRegistry struct {
	orders  sync.Map // int64 -> *Order
	symbols sync.Map // string -> struct{}
	count   atomic.Int64
}

// NewOrderRegistry creates an empty registry.
func NewOrderRegistry() *OrderRegistry {
	return &OrderRegistry{}
}

// Add registers an order. Adding a second record under an existing id fails.
func (r *OrderRegistry) Add(order *Order) bool {
	if _, loaded := r.orders.LoadOrStore(order.ID, order); loaded {
		return false
	}
	r.symbols.Store(order.Symbol, struct{}{})
	r.count.Add(1)
	return true
}

// Get returns the record for id, or nil.
func (r *OrderRegistry) Get(id int64) *Order {
	v, ok := r.orders.Load(id)
	if !ok {
		return nil
	}
	order, _ := v.(*Order)
	return order
}

// ListAll returns every registered record ordered by id.
// The records are live; read their mutable fields under the symbol lock.
func (r *OrderRegistry) ListAll() []*Order {
	result := make([]*Order, 0, r.count.Load())
	r.orders.Range(func(_, value any) bool {
		result = append(result, value.(*Order))
		return true
	})
	slices.SortFunc(result, func(a, b *Order) int {
		return compareInt64(a.ID, b.ID)
	})
	return result
}

// Symbols returns the instruments seen so far, sorted.
func (r *OrderRegistry) Symbols() []string {
	var result []string
	r.symbols.Range(func(key, _ any) bool {
		result = append(result, key.(string))
		return true
	})
	slices.Sort(result)
	return result
}

// Len returns the number of registered orders.
func (r *OrderRegistry) Len() int64 {
	return r.count.Load()
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package match

import (
	"slices"
	"sync"
)

// TradeLedger is the append-only store of executed trades.
type TradeLedger struct {
	mu      sync.RWMutex
	trades  map[int64]*Trade
	byOrder map[int64][]*Trade
}

// NewTradeLedger creates an empty ledger.
func NewTradeLedger() *TradeLedger {
	return &TradeLedger{
		trades:  make(map[int64]*Trade),
		byOrder: make(map[int64][]*Trade),
	}
}

// Append records a trade. A duplicate id is ignored and reported as false.
func (l *TradeLedger) Append(trade *Trade) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.trades[trade.ID]; ok {
		return false
	}
	l.trades[trade.ID] = trade
	l.byOrder[trade.BuyerOrderID] = append(l.byOrder[trade.BuyerOrderID], trade)
	l.byOrder[trade.SellerOrderID] = append(l.byOrder[trade.SellerOrderID], trade)
	return true
}

// Get returns the trade with id, or nil.
func (l *TradeLedger) Get(id int64) *Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.trades[id]
}

// List returns a copy of all trades ordered by id.
func (l *TradeLedger) List() []Trade {
	l.mu.RLock()
	result := make([]Trade, 0, len(l.trades))
	for _, trade := range l.trades {
		result = append(result, *trade)
	}
	l.mu.RUnlock()

	slices.SortFunc(result, func(a, b Trade) int {
		return compareInt64(a.ID, b.ID)
	})
	return result
}

// ByOrder returns the trades in which the order was either leg, ordered by id.
func (l *TradeLedger) ByOrder(orderID int64) []Trade {
	l.mu.RLock()
	trades := l.byOrder[orderID]
	result := make([]Trade, 0, len(trades))
	for _, trade := range trades {
		result = append(result, *trade)
	}
	l.mu.RUnlock()

	slices.SortFunc(result, func(a, b Trade) int {
		return compareInt64(a.ID, b.ID)
	})
	return result
}

// Count returns the number of trades stored.
func (l *TradeLedger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.trades)
}

package match

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"
)

type aggregatedSide = treemap.TreeMap[decimal.Decimal, int64]

type aggregatedSymbol struct {
	seqID uint64 // Last applied SequenceID, for gap detection and deduplication
	ask   *aggregatedSide
	bid   *aggregatedSide
}

// AggregatedBook maintains a simplified view of the order books,
// tracking only price levels and their aggregated sizes (depth).
// It is designed for downstream services that need to rebuild
// order book state from OrderBookLog events, and is itself a PublishLog.
type AggregatedBook struct {
	mu      sync.RWMutex
	symbols map[string]*aggregatedSymbol
}

// NewAggregatedBook creates a new AggregatedBook instance with no symbols.
func NewAggregatedBook() *AggregatedBook {
	return &AggregatedBook{
		symbols: make(map[string]*aggregatedSymbol),
	}
}

func newAggregatedSide() *aggregatedSide {
	return treemap.NewWithKeyCompare[decimal.Decimal, int64](func(a, b decimal.Decimal) bool {
		return a.LessThan(b)
	})
}

// Publish replays logs, dropping the ones that cannot be applied.
func (ab *AggregatedBook) Publish(logs ...*OrderBookLog) {
	for _, log := range logs {
		_ = ab.Replay(log)
	}
}

// SequenceID returns the last processed sequence ID of a symbol.
func (ab *AggregatedBook) SequenceID(symbol string) uint64 {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if s, ok := ab.symbols[symbol]; ok {
		return s.seqID
	}
	return 0
}

// Replay applies an OrderBookLog event to update the aggregated book state.
// Events at or below the last applied sequence are ignored; a gap returns ErrSequenceGap.
// Reject events do not affect book state but still advance the sequence ID.
func (ab *AggregatedBook) Replay(log *OrderBookLog) error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	s, ok := ab.symbols[log.Symbol]
	if !ok {
		s = &aggregatedSymbol{ask: newAggregatedSide(), bid: newAggregatedSide()}
		ab.symbols[log.Symbol] = s
	}

	if log.SequenceID <= s.seqID {
		return nil
	}
	if log.SequenceID != s.seqID+1 {
		return errors.Wrapf(ErrSequenceGap, "symbol %q: have %d, got %d", log.Symbol, s.seqID, log.SequenceID)
	}

	for _, change := range CalculateDepthChange(log) {
		side := s.bid
		if change.Side == Sell {
			side = s.ask
		}

		size, _ := side.Get(change.Price)
		size += change.SizeDiff
		if size <= 0 {
			side.Del(change.Price)
		} else {
			side.Set(change.Price, size)
		}
	}

	s.seqID = log.SequenceID
	return nil
}

// OnRebuild drops the state of a symbol so it can be rebuilt from sequence 1.
func (ab *AggregatedBook) OnRebuild(symbol string) {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	delete(ab.symbols, symbol)
}

// Depth returns the aggregated size at a specific price level for the given side.
// Returns zero if the price level does not exist.
func (ab *AggregatedBook) Depth(symbol string, side Side, price decimal.Decimal) int64 {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	s, ok := ab.symbols[symbol]
	if !ok {
		return 0
	}
	tree := s.bid
	if side == Sell {
		tree = s.ask
	}
	size, _ := tree.Get(price)
	return size
}

// Levels returns up to limit price levels of a side, best price first.
// Order counts are not tracked, so Count is always zero.
func (ab *AggregatedBook) Levels(symbol string, side Side, limit int) []*DepthItem {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	s, ok := ab.symbols[symbol]
	if !ok {
		return nil
	}

	levels := make([]*DepthItem, 0, limit)
	add := func(price decimal.Decimal, size int64) {
		levels = append(levels, &DepthItem{Price: price, Size: size})
	}

	if side == Buy {
		for it := s.bid.Reverse(); it.Valid() && len(levels) < limit; it.Next() {
			add(it.Key(), it.Value())
		}
	} else {
		for it := s.ask.Iterator(); it.Valid() && len(levels) < limit; it.Next() {
			add(it.Key(), it.Value())
		}
	}
	return levels
}

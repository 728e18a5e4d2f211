package match

// CalculateDepthChange calculates the depth changes described by a book log.
// It returns one DepthChange per price level that should be updated.
// Note: a Match reduces both legs, each at its own limit price, not at the trade price.
func CalculateDepthChange(log *OrderBookLog) []DepthChange {
	switch log.Type {
	case LogTypeOpen:
		return []DepthChange{{
			Side:     log.Side,
			Price:    log.Price,
			SizeDiff: log.Size,
		}}
	case LogTypeCancel, LogTypeExpire:
		return []DepthChange{{
			Side:     log.Side,
			Price:    log.Price,
			SizeDiff: -log.Size,
		}}
	case LogTypeMatch:
		return []DepthChange{
			{
				Side:     log.Side,
				Price:    log.LimitPrice,
				SizeDiff: -log.Size,
			},
			{
				Side:     log.Side.Opposite(),
				Price:    log.MakerPrice,
				SizeDiff: -log.Size,
			},
		}
	case LogTypeAmend:
		// The order was retracted and re-inserted: remove the old size at the old
		// price and add the new size at the new price.
		return []DepthChange{
			{
				Side:     log.Side,
				Price:    log.OldPrice,
				SizeDiff: -log.OldSize,
			},
			{
				Side:     log.Side,
				Price:    log.Price,
				SizeDiff: log.Size,
			},
		}
	case LogTypeReject:
		// Rejected orders never entered the book, so no depth change.
		return nil
	}

	return nil
}

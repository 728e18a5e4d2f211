package match

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDepthChange(t *testing.T) {
	p := decimal.NewFromInt

	tests := []struct {
		name string
		log  *OrderBookLog
		want []DepthChange
	}{
		{
			name: "open adds size",
			log:  &OrderBookLog{Type: LogTypeOpen, Side: Buy, Price: p(100), Size: 10},
			want: []DepthChange{{Side: Buy, Price: p(100), SizeDiff: 10}},
		},
		{
			name: "cancel removes size",
			log:  &OrderBookLog{Type: LogTypeCancel, Side: Sell, Price: p(101), Size: 4},
			want: []DepthChange{{Side: Sell, Price: p(101), SizeDiff: -4}},
		},
		{
			name: "expire removes size",
			log:  &OrderBookLog{Type: LogTypeExpire, Side: Buy, Price: p(99), Size: 3},
			want: []DepthChange{{Side: Buy, Price: p(99), SizeDiff: -3}},
		},
		{
			name: "match reduces both legs at their limit prices",
			log: &OrderBookLog{
				Type: LogTypeMatch, Side: Sell, Price: p(98), Size: 5,
				LimitPrice: p(98), MakerPrice: p(100),
			},
			want: []DepthChange{
				{Side: Sell, Price: p(98), SizeDiff: -5},
				{Side: Buy, Price: p(100), SizeDiff: -5},
			},
		},
		{
			name: "amend moves size",
			log: &OrderBookLog{
				Type: LogTypeAmend, Side: Buy, Price: p(102), Size: 2,
				OldPrice: p(100), OldSize: 8,
			},
			want: []DepthChange{
				{Side: Buy, Price: p(100), SizeDiff: -8},
				{Side: Buy, Price: p(102), SizeDiff: 2},
			},
		},
		{
			name: "reject changes nothing",
			log:  &OrderBookLog{Type: LogTypeReject, Side: Buy, Price: p(100), Size: 1},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateDepthChange(tt.log))
		})
	}
}

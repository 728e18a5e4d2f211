package match

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderRegistry(t *testing.T) {
	registry := NewOrderRegistry()

	a := newTestOrder(2, Buy, 10, 1, epoch)
	b := newTestOrder(1, Sell, 10, 1, epoch)
	b.Symbol = "HAL"

	assert.True(t, registry.Add(a))
	assert.True(t, registry.Add(b))
	assert.False(t, registry.Add(a), "ids are unique")

	assert.Equal(t, a, registry.Get(2))
	assert.Nil(t, registry.Get(3))
	assert.Equal(t, int64(2), registry.Len())
	assert.Equal(t, []*Order{b, a}, registry.ListAll())
	assert.Equal(t, []string{"HAL", "RIL"}, registry.Symbols())
}

func TestOrderRegistryConcurrentAdd(t *testing.T) {
	registry := NewOrderRegistry()

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			registry.Add(newTestOrder(id, Buy, 10, 1, epoch))
		}(int64(i))
	}
	wg.Wait()

	all := registry.ListAll()
	assert.Len(t, all, 100)
	for i, order := range all {
		assert.Equal(t, int64(i+1), order.ID)
	}
}

func TestTradeLedger(t *testing.T) {
	ledger := NewTradeLedger()

	t1 := &Trade{ID: 2, BuyerOrderID: 10, SellerOrderID: 11, Quantity: 5}
	t2 := &Trade{ID: 1, BuyerOrderID: 12, SellerOrderID: 10, Quantity: 3}

	assert.True(t, ledger.Append(t1))
	assert.True(t, ledger.Append(t2))
	assert.False(t, ledger.Append(t1))
	assert.Equal(t, 2, ledger.Count())

	list := ledger.List()
	assert.Equal(t, []int64{1, 2}, []int64{list[0].ID, list[1].ID})

	byOrder := ledger.ByOrder(10)
	assert.Len(t, byOrder, 2)
	assert.Len(t, ledger.ByOrder(11), 1)
	assert.Empty(t, ledger.ByOrder(99))

	assert.Equal(t, int64(5), ledger.Get(2).Quantity)
	assert.Nil(t, ledger.Get(3))
}

func TestUserDirectory(t *testing.T) {
	users := NewUserDirectory()
	users.Put(User{ID: 2, Name: "Bob"})
	users.Put(User{ID: 1, Name: "Alice"})

	user, ok := users.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "Alice", user.Name)

	_, ok = users.Get(3)
	assert.False(t, ok)

	list := users.List()
	assert.Equal(t, []string{"Alice", "Bob"}, []string{list[0].Name, list[1].Name})
}

package container_test

import (
	"testing"

	"github.com/shifters-sim/shifters-go/utils/container"
	"github.com/stretchr/testify/assert"
)

type testItem struct {
	container.IncrementalItemBase
	id int
}

func newItems(n int) []*testItem {
	items := make([]*testItem, n)
	for i := range items {
		items[i] = &testItem{id: i}
	}
	return items
}

func TestIncrementalArrayInit(t *testing.T) {
	a := container.NewIncrementalArray(newItems(3))
	assert.Equal(t, 3, a.Len())
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestIncrementalArrayRemove(t *testing.T) {
	items := newItems(4)
	a := container.NewIncrementalArray(items)

	// remove is deferred until Prepare
	a.Remove(items[1])
	assert.Equal(t, 4, a.Len())
	a.Prepare()
	assert.Equal(t, 3, a.Len())

	ids := []int{}
	for _, x := range a.Data() {
		ids = append(ids, x.id)
		assert.Equal(t, x, a.Data()[x.Index()])
	}
	assert.ElementsMatch(t, []int{0, 2, 3}, ids)

	// removing the rest empties the array
	for _, x := range a.Data() {
		a.Remove(x)
	}
	a.Prepare()
	assert.Equal(t, 0, a.Len())

	// Prepare with nothing pending is a no-op
	a.Prepare()
	assert.Equal(t, 0, a.Len())
}

package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSynchronized_ConcurrentAccess(t *testing.T) {
	c := NewSynchronized(New())
	require.NoError(t, c.Describe("base"))
	require.NoError(t, c.Describe("copy", timesTen("base")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.Set(map[string]cty.Value{"base": cty.NumberIntVal(int64(i))}))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = c.Get("copy")
			_, _ = c.Entries()
		}()
	}
	wg.Wait()

	base, err := c.Get("base")
	require.NoError(t, err)
	derived, err := c.Get("copy")
	require.NoError(t, err)
	assert.True(t, base.Multiply(cty.NumberIntVal(10)).Equals(derived).True(),
		"copy must track the last committed base, got base=%s copy=%s", fmt.Sprint(base.AsBigFloat()), fmt.Sprint(derived.AsBigFloat()))
}

func TestSynchronized_Replace(t *testing.T) {
	first := New()
	require.NoError(t, first.Describe("a"))
	c := NewSynchronized(first)

	second := New()
	require.NoError(t, second.Describe("b"))
	c.Replace(second)

	names, statuses := c.Entries()
	assert.Equal(t, []string{"b"}, names)
	assert.Equal(t, StateUnset, statuses["b"].State)

	_, err := c.Status("a")
	require.Error(t, err)
}

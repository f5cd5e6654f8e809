package guard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge/pkg/errors"
)

func TestCellReadMutate(t *testing.T) {
	c := New("counter", 0)

	require.NoError(t, c.Mutate(func(v *int) { *v = 41 }))
	n, err := Update(c, func(v *int) int { *v++; return *v })
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	got, err := View(c, func(v int) int { return v })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, "counter", c.Name())
}

func TestCellPoisonsOnPanic(t *testing.T) {
	c := New("library", []string{"a"})

	err := c.Mutate(func(v *[]string) {
		*v = append(*v, "b")
		panic("boom")
	})
	require.Error(t, err)
	assert.True(t, errors.IsLockUnavailable(err))
	assert.Contains(t, err.Error(), "library lock poisoned")
	assert.True(t, c.Poisoned())

	// Every later acquisition fails, reads included.
	err = c.Read(func([]string) { t.Fatal("read must not run on a poisoned cell") })
	assert.True(t, errors.IsLockUnavailable(err))

	_, err = View(c, func(v []string) int { return len(v) })
	assert.True(t, errors.IsLockUnavailable(err))
}

func TestPoisonIsolatedPerCell(t *testing.T) {
	bad := New("store catalog", 0)
	good := New("runtime config", 0)

	_ = bad.Mutate(func(*int) { panic("boom") })

	require.NoError(t, good.Mutate(func(v *int) { *v = 7 }))
	v, err := View(good, func(v int) int { return v })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCellConcurrentMutations(t *testing.T) {
	c := New("counter", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Mutate(func(v *int) { *v++ })
		}()
	}
	wg.Wait()

	got, err := View(c, func(v int) int { return v })
	require.NoError(t, err)
	assert.Equal(t, 50, got)
}

package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestKeyedLock_MutualExclusion(t *testing.T) {
	kl := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kl.WithLock("action-1", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedLock_TryLock(t *testing.T) {
	kl := New()

	require.True(t, kl.TryLock("a"))
	assert.False(t, kl.TryLock("a"), "second TryLock on held key must fail")

	// A different key is independent.
	assert.True(t, kl.TryLock("b"))

	kl.Unlock("a")
	assert.True(t, kl.TryLock("a"))
	kl.Unlock("a")
	kl.Unlock("b")
}

func TestKeyedLock_IndependentKeys(t *testing.T) {
	kl := New()

	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 1, 10, rapid.ID).Draw(t, "keys")

		for _, k := range keys {
			if !kl.TryLock(k) {
				t.Fatalf("fresh key %q should lock", k)
			}
		}
		for _, k := range keys {
			kl.Unlock(k)
		}
	})
}

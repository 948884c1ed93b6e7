package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()

	first := testSession("u1", "Alice")
	second := testSession("u1", "Alice")

	r.Register(first)
	r.Register(second)

	got, ok := r.Lookup("u1")
	require.True(t, ok)
	require.Same(t, second, got, "last registration wins")
	require.Equal(t, 1, r.Len(), "at most one entry per user")
}

func TestRegistryUnregisterCompareAndRemove(t *testing.T) {
	r := NewRegistry()

	old := testSession("u1", "Alice")
	r.Register(old)

	// fast reconnect lands before the old session's teardown
	fresh := testSession("u1", "Alice")
	r.Register(fresh)

	require.False(t, r.Unregister("u1", old), "stale unregister must be a no-op")
	got, ok := r.Lookup("u1")
	require.True(t, ok)
	require.Same(t, fresh, got, "newer session must survive")

	require.True(t, r.Unregister("u1", fresh))
	_, ok = r.Lookup("u1")
	require.False(t, ok)
}

func TestRegistryUnregisterUnknownUser(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.Unregister("ghost", testSession("ghost", "")))
}

func TestRegistryConcurrentDistinctUsers(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := fmt.Sprintf("user%d", i)
			s := testSession(uid, "")
			r.Register(s)
			_, ok := r.Lookup(uid)
			require.True(t, ok)
			require.True(t, r.Unregister(uid, s))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 0, r.Len())
}

package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterResolve(t *testing.T) {
	r := NewMemoryRegistry(nil)
	c := NewClient(7, "PATIENT")

	_, ok := r.Resolve(7)
	require.False(t, ok)
	require.False(t, r.IsOnline(7))

	r.Register(7, c)
	got, ok := r.Resolve(7)
	require.True(t, ok)
	require.Same(t, c, got)
	require.True(t, r.IsOnline(7))
	require.Equal(t, 1, r.OnlineCount())
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewMemoryRegistry(nil)
	old := NewClient(7, "PATIENT")
	fresh := NewClient(7, "PATIENT")

	r.Register(7, old)
	r.Register(7, fresh)

	got, ok := r.Resolve(7)
	require.True(t, ok)
	require.Same(t, fresh, got)
	require.Equal(t, 1, r.OnlineCount())
}

func TestRegistryUnregisterSupersededKeepsNewer(t *testing.T) {
	r := NewMemoryRegistry(nil)
	old := NewClient(7, "PATIENT")
	fresh := NewClient(7, "PATIENT")

	r.Register(7, old)
	r.Register(7, fresh)

	// The superseded connection closes late; the newer entry must survive.
	r.Unregister(old)
	got, ok := r.Resolve(7)
	require.True(t, ok)
	require.Same(t, fresh, got)

	r.Unregister(fresh)
	require.False(t, r.IsOnline(7))
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	r := NewMemoryRegistry(nil)
	c := NewClient(7, "DOCTOR")

	r.Register(7, c)
	r.Unregister(c)
	r.Unregister(c)
	require.False(t, r.IsOnline(7))
	require.Equal(t, 0, r.OnlineCount())

	// Unregistering a connection that never registered is a no-op.
	r.Unregister(NewClient(9, "DOCTOR"))
}

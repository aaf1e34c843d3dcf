package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "   ")
	require.EqualError(t, err, "postgres DSN is empty")
}

func TestApplyPool(t *testing.T) {
	var open, idle int
	var lifetime time.Duration
	record := func(p Pool) {
		open, idle, lifetime = 0, 0, 0
		applyPool(p, func(n int) { open = n }, func(n int) { idle = n }, func(d time.Duration) { lifetime = d })
	}

	record(DefaultPool)
	require.Equal(t, 10, open)
	require.Equal(t, 5, idle)
	require.Equal(t, 30*time.Minute, lifetime)

	record(Pool{MaxOpen: 2, MaxIdle: 8})
	require.Equal(t, 2, open)
	require.Equal(t, 2, idle, "idle connections never exceed the open limit")
	require.Zero(t, lifetime)

	record(Pool{})
	require.Zero(t, open)
	require.Zero(t, idle)
}

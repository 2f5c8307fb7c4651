package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := New(path)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, st, "missing file loads as zero state")

	want := State{Day: 3, Date: "2025-06-03", InitialBalance: 1234.5, PeakPnL: 42.1, LastTradeMinute: 900, TradesToday: 5}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := New(path)
	require.NoError(t, s.Save(State{Day: 1}))
	require.NoError(t, s.Reset())

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}

func TestStoreEmptyPath(t *testing.T) {
	s := New("")
	_, err := s.Load()
	assert.Error(t, err)
	assert.Error(t, s.Save(State{}))
}

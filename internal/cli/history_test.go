package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/series"
	"github.com/rileyhilliard/fbdash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(store.Options{Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, dir
}

func TestManageHistory(t *testing.T) {
	st, dir := openTestStore(t)
	now := time.Now()
	require.NoError(t, store.Save(st, "memory", []series.Sample[float64]{{Value: 1, ObservedAt: now}}))
	require.NoError(t, store.Save(st, "load", []series.Sample[float64]{{Value: 2, ObservedAt: now}}))

	var out bytes.Buffer
	require.NoError(t, manageHistory(&out, st, dir, "list"))
	assert.Contains(t, out.String(), dir)
	assert.Less(t, bytes.Index(out.Bytes(), []byte("load")), bytes.Index(out.Bytes(), []byte("memory")),
		"names are listed in order")

	out.Reset()
	require.NoError(t, manageHistory(&out, st, dir, "clear"))
	assert.Contains(t, out.String(), "Cleared 2 series")

	names, err := st.Names()
	require.NoError(t, err)
	assert.Empty(t, names)

	out.Reset()
	require.NoError(t, manageHistory(&out, st, dir, ""))
	assert.Contains(t, out.String(), "No saved history")
}

func TestManageHistoryUnknownAction(t *testing.T) {
	st, dir := openTestStore(t)
	err := manageHistory(&bytes.Buffer{}, st, dir, "purge")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

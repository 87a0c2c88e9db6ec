package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", []byte(`{"a":1}`)))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), v)

	// Replace-on-write: the old value is gone.
	require.NoError(t, s.Set("k", []byte(`{"b":2}`)))
	v, _, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"b":2}`), v)

	require.NoError(t, s.Remove("k"))
	_, ok, err = s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing a missing key is not an error.
	require.NoError(t, s.Remove("k"))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	testStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	testStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("storefront.cart", []byte(`[1,2,3]`)))

	second, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := second.Get("storefront.cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`[1,2,3]`), v)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()
	s := NewMemory()
	require.NoError(t, s.Set("k", []byte("abc")))

	v, _, err := s.Get("k")
	require.NoError(t, err)
	v[0] = 'z'

	fresh, _, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), fresh)
}

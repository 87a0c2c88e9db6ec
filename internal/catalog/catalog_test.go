package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLookups(t *testing.T) {
	t.Parallel()
	cat := Default()

	item, err := cat.Item(4)
	require.NoError(t, err)
	assert.Equal(t, "Butter Chicken", item.Name)
	assert.Equal(t, int64(1499), item.PriceCents)

	_, err = cat.Item(9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestItemsByCategory(t *testing.T) {
	t.Parallel()
	cat := Default()

	drinks := cat.ItemsByCategory("drinks")
	require.NotEmpty(t, drinks)
	for _, it := range drinks {
		assert.Equal(t, "drinks", it.Category)
	}

	assert.Empty(t, cat.ItemsByCategory("nonexistent"))
}

func TestValidateToppings(t *testing.T) {
	t.Parallel()
	cat := Default()

	total, err := cat.ValidateToppings(2, []string{"Cheese", "Salsa"})
	require.NoError(t, err)
	assert.Equal(t, int64(175), total)

	_, err = cat.ValidateToppings(2, []string{"Caviar"})
	require.ErrorIs(t, err, ErrNotFound)

	// Items without toppings reject any extra.
	_, err = cat.ValidateToppings(3, []string{"Cheese"})
	require.ErrorIs(t, err, ErrNotFound)

	total, err = cat.ValidateToppings(3, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestNormalizeExtras(t *testing.T) {
	t.Parallel()

	got := NormalizeExtras([]string{" Salsa", "Cheese", "Salsa", "", "Cheese "})
	assert.Equal(t, []string{"Cheese", "Salsa"}, got)

	assert.Empty(t, NormalizeExtras(nil))
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	t.Parallel()
	cat := Default()

	items := cat.Items()
	items[0].Name = "mutated"

	fresh, err := cat.Item(items[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", fresh.Name)
}

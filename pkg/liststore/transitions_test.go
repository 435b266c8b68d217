package liststore

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precivox-base/pkg/models"
)

func product(id, name string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Price: price, Available: true}
}

func listWith(items ...models.ListItem) models.Lista {
	return models.Lista{
		ID:        "lista-test",
		Name:      "Teste",
		Items:     items,
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

func item(p models.Product, qty int) models.ListItem {
	return models.ListItem{Product: p, Quantity: qty, AddedAt: time.Now(), Priority: models.PriorityMedium}
}

func assertInvariants(t *testing.T, list models.Lista) {
	t.Helper()
	seen := make(map[string]bool)
	for _, it := range list.Items {
		assert.Greater(t, it.Quantity, 0, "item %s has non-positive quantity", it.Product.ID)
		assert.False(t, seen[it.Product.ID], "duplicate product %s", it.Product.ID)
		seen[it.Product.ID] = true
	}
}

func TestAddItemAppendsNew(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)
	out := AddItem(listWith(), rice, 1)

	require.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.Items[0].Quantity)
	assert.Equal(t, models.PriorityMedium, out.Items[0].Priority)
	assert.False(t, out.Items[0].Purchased)
	assert.False(t, out.Items[0].AddedAt.IsZero())
	assertInvariants(t, out)
}

func TestAddItemMergesByProductID(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)

	stepwise := AddItem(AddItem(listWith(), rice, 2), rice, 3)
	direct := AddItem(listWith(), rice, 5)

	require.Len(t, stepwise.Items, 1)
	require.Len(t, direct.Items, 1)
	assert.Equal(t, direct.Items[0].Quantity, stepwise.Items[0].Quantity)
	assertInvariants(t, stepwise)
}

func TestAddItemNegativeDeltaRemovesAtZero(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)
	list := listWith(item(rice, 2))

	out := AddItem(list, rice, -2)
	assert.Empty(t, out.Items)

	out = AddItem(list, rice, -5)
	assert.Empty(t, out.Items, "merge below zero must remove, not go negative")

	// Negative delta for an unlisted product must not create an item.
	out = AddItem(listWith(), rice, -1)
	assert.Empty(t, out.Items)
}

func TestAddItemDoesNotMutateInput(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)
	list := listWith(item(rice, 2))

	_ = AddItem(list, rice, 3)
	assert.Equal(t, 2, list.Items[0].Quantity)
}

func TestAddItemRefreshesLastEdited(t *testing.T) {
	list := listWith()
	list.LastEditedAt = time.Now().Add(-time.Hour)

	out := AddItem(list, product("p1", "Arroz", 15.90), 1)
	assert.True(t, out.LastEditedAt.After(list.LastEditedAt))
}

func TestRemoveItemIdempotent(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)
	beans := product("p2", "Feijão 1kg", 8.50)
	list := listWith(item(rice, 1), item(beans, 2))

	once := RemoveItem(list, "p1")
	twice := RemoveItem(once, "p1")

	if diff := cmp.Diff(once.Items, twice.Items); diff != "" {
		t.Errorf("second removal changed items (-once +twice):\n%s", diff)
	}
	assert.Equal(t, -1, twice.IndexOf("p1"))
	assert.Equal(t, 0, twice.IndexOf("p2"))
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	list := listWith(item(product("p1", "Arroz", 15.90), 1))
	out := RemoveItem(list, "missing")
	assert.Len(t, out.Items, 1)
}

func TestSetQuantity(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)

	tests := []struct {
		name     string
		quantity int
		wantLen  int
		wantQty  int
	}{
		{"replace", 7, 1, 7},
		{"zero drops item", 0, 0, 0},
		{"negative clamps to zero and drops", -3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SetQuantity(listWith(item(rice, 2)), "p1", tt.quantity)
			require.Len(t, out.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantQty, out.Items[0].Quantity)
			}
			assertInvariants(t, out)
		})
	}
}

func TestDuplicate(t *testing.T) {
	rice := product("p1", "Arroz 5kg", 15.90)
	list := listWith(item(rice, 2))
	list.LastEditedAt = list.CreatedAt

	dup := Duplicate(list)

	assert.NotEqual(t, list.ID, dup.ID)
	assert.Equal(t, "Cópia de Teste", dup.Name)
	assert.True(t, dup.CreatedAt.After(list.CreatedAt))
	assert.True(t, dup.LastEditedAt.After(list.LastEditedAt))

	// Items copied by value: editing the copy leaves the source alone.
	require.Len(t, dup.Items, 1)
	assert.Equal(t, list.Items[0].Quantity, dup.Items[0].Quantity)
	dup.Items[0].Quantity = 99
	assert.Equal(t, 2, list.Items[0].Quantity)
}

func TestDeleteFromCollection(t *testing.T) {
	all := []models.Lista{{ID: "a"}, {ID: "b"}}

	out := DeleteFromCollection(all, "a")
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)

	out = DeleteFromCollection(out, "missing")
	assert.Len(t, out, 1)
}

func TestUpsertIntoCollection(t *testing.T) {
	all := []models.Lista{{ID: "a", Name: "antiga"}, {ID: "b"}}

	replaced := UpsertIntoCollection(all, models.Lista{ID: "a", Name: "nova"})
	require.Len(t, replaced, 2)
	assert.Equal(t, "nova", replaced[0].Name)

	prepended := UpsertIntoCollection(all, models.Lista{ID: "c"})
	require.Len(t, prepended, 3)
	assert.Equal(t, "c", prepended[0].ID)
}

func TestCreateEmpty(t *testing.T) {
	a := CreateEmpty()
	b := CreateEmpty()

	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.Items)
	assert.NotNil(t, a.Items)
	assert.Contains(t, a.Name, "Nova Lista")
}

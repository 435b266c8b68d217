// Package liststore owns the canonical shopping list and the saved
// list collection. Mutations are pure transition functions: the input
// list is never touched, the caller always gets a fresh value. The
// Store type wraps the transitions with session state and persistence.
package liststore

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"precivox-base/pkg/models"
)

// NewListID builds a collision-safe list ID from the current time plus
// a random suffix.
func NewListID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("lista-%d-%s", time.Now().UnixMilli(), suffix)
}

// AddItem merges delta into the quantity of product's item, or appends
// a new item when the product is not yet listed and delta is positive.
// A merge that lands at or below zero removes the item. LastEditedAt
// is always refreshed.
func AddItem(list models.Lista, product models.Product, delta int) models.Lista {
	out := list.Clone()
	out.LastEditedAt = time.Now()

	idx := out.IndexOf(product.ID)
	if idx >= 0 {
		q := out.Items[idx].Quantity + delta
		if q <= 0 {
			out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
		} else {
			out.Items[idx].Quantity = q
		}
		return out
	}

	if delta > 0 {
		out.Items = append(out.Items, models.ListItem{
			Product:   product.Clone(),
			Quantity:  delta,
			AddedAt:   time.Now(),
			Purchased: false,
			Priority:  models.PriorityMedium,
		})
	}
	return out
}

// RemoveItem filters out the item holding productID. Removing an
// absent product is a no-op.
func RemoveItem(list models.Lista, productID string) models.Lista {
	out := list.Clone()
	out.LastEditedAt = time.Now()

	items := out.Items[:0]
	for _, item := range out.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	out.Items = items
	return out
}

// SetQuantity replaces the quantity of productID's item, clamped at
// zero. An item that lands at zero is dropped, matching RemoveItem
// semantics rather than keeping a placeholder.
func SetQuantity(list models.Lista, productID string, quantity int) models.Lista {
	if quantity < 0 {
		quantity = 0
	}

	out := list.Clone()
	out.LastEditedAt = time.Now()

	items := out.Items[:0]
	for _, item := range out.Items {
		if item.Product.ID == productID {
			item.Quantity = quantity
		}
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	out.Items = items
	return out
}

// Duplicate copies a list under a fresh identity. Items are copied by
// value; the timestamps are strictly later than the source's.
func Duplicate(list models.Lista) models.Lista {
	out := list.Clone()
	now := time.Now()
	out.ID = NewListID()
	out.Name = "Cópia de " + list.Name
	out.CreatedAt = now
	out.LastEditedAt = now
	return out
}

// DeleteFromCollection removes the list with the given ID; absent IDs
// are a no-op.
func DeleteFromCollection(all []models.Lista, listID string) []models.Lista {
	out := make([]models.Lista, 0, len(all))
	for _, l := range all {
		if l.ID != listID {
			out = append(out, l)
		}
	}
	return out
}

// UpsertIntoCollection replaces the list with a matching ID, or
// prepends it so the working list shows up first under saved lists.
func UpsertIntoCollection(all []models.Lista, updated models.Lista) []models.Lista {
	for i, l := range all {
		if l.ID == updated.ID {
			out := make([]models.Lista, len(all))
			copy(out, all)
			out[i] = updated.Clone()
			return out
		}
	}
	out := make([]models.Lista, 0, len(all)+1)
	out = append(out, updated.Clone())
	return append(out, all...)
}

// CreateEmpty allocates a fresh, empty list named after today's date.
func CreateEmpty() models.Lista {
	now := time.Now()
	return models.Lista{
		ID:           NewListID(),
		Name:         "Nova Lista " + now.Format("02/01/2006"),
		Items:        []models.ListItem{},
		CreatedAt:    now,
		LastEditedAt: now,
	}
}

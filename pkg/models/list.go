package models

import "time"

// Priority of a list item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ListItem is one product entry in a shopping list. Quantity is
// always > 0 in lists produced by the store; items that reach zero are
// removed instead of kept as placeholders.
type ListItem struct {
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
	Purchased bool      `json:"purchased"`
	Priority  Priority  `json:"priority"`
}

// Clone returns a value copy of the item.
func (li ListItem) Clone() ListItem {
	out := li
	out.Product = li.Product.Clone()
	return out
}

// Lista is a named shopping list. Items are unique by product ID;
// merging quantities is the only way an existing product grows.
// Revision increases on every applied mutation so consumers can detect
// change without comparing contents.
type Lista struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Items        []ListItem `json:"items"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastEditedAt time.Time  `json:"lastEditedAt"`
	IsFavorite   bool       `json:"isFavorite,omitempty"`
	Revision     int64      `json:"revision,omitempty"`
}

// Clone deep-copies the list. Every mutation in the engine works on a
// clone so callers always receive a fresh value.
func (l Lista) Clone() Lista {
	out := l
	out.Items = make([]ListItem, len(l.Items))
	for i, item := range l.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// IndexOf returns the position of the item holding productID, or -1.
func (l Lista) IndexOf(productID string) int {
	for i, item := range l.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// TotalQuantity sums the quantities of all items.
func (l Lista) TotalQuantity() int {
	total := 0
	for _, item := range l.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price*quantity over all items.
func (l Lista) TotalPrice() float64 {
	total := 0.0
	for _, item := range l.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

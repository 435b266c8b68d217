package models

import "encoding/json"

// Canonical suggestion kinds. The AI stream also emits legacy
// Portuguese spellings; the reconciler normalizes those to these tags
// at its input boundary.
const (
	KindSubstituteProduct = "substitute_product"
	KindAdjustQuantity    = "adjust_quantity"
	KindAddProduct        = "add_product"
	KindRemoveProduct     = "remove_product"
	KindOptimizeRoute     = "optimize_route"
	KindTest              = "test"
)

// SuggestionAction carries the kind-specific payload. Which fields are
// required depends on the suggestion kind; everything is optional on
// the wire.
type SuggestionAction struct {
	OldProductID   string   `json:"oldProductId,omitempty"`
	NewProductID   string   `json:"newProductId,omitempty"`
	NewProduct     *Product `json:"newProduct,omitempty"`
	ProductID      string   `json:"productId,omitempty"`
	NewQuantity    *int     `json:"newQuantity,omitempty"`
	Quantity       int      `json:"quantity,omitempty"`
	OptimizedOrder []string `json:"optimizedOrder,omitempty"`
	PreferredStore string   `json:"preferredStore,omitempty"`
}

// Suggestion is the untrusted instruction produced by the AI service.
// SuggestedStore/SuggestedPrice keep their original wire names
// (mercadoSugerido/precoSugerido) emitted by the suggestion stream.
type Suggestion struct {
	Kind           string            `json:"kind"`
	Message        string            `json:"message,omitempty"`
	Action         *SuggestionAction `json:"action,omitempty"`
	SuggestedStore string            `json:"mercadoSugerido,omitempty"`
	SuggestedPrice float64           `json:"precoSugerido,omitempty"`
}

// suggestionWire tolerates the legacy field spellings the stream still
// produces alongside the canonical ones.
type suggestionWire struct {
	Kind           string            `json:"kind"`
	Tipo           string            `json:"tipo"`
	Type           string            `json:"type"`
	Message        string            `json:"message"`
	Mensagem       string            `json:"mensagem"`
	Action         *SuggestionAction `json:"action"`
	SuggestedStore string            `json:"mercadoSugerido"`
	SuggestedPrice float64           `json:"precoSugerido"`
}

func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var w suggestionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	kind := w.Kind
	if kind == "" {
		kind = w.Tipo
	}
	if kind == "" {
		kind = w.Type
	}
	message := w.Message
	if message == "" {
		message = w.Mensagem
	}

	*s = Suggestion{
		Kind:           kind,
		Message:        message,
		Action:         w.Action,
		SuggestedStore: w.SuggestedStore,
		SuggestedPrice: w.SuggestedPrice,
	}
	return nil
}

// Result is the reconciler's return contract: a human-readable outcome
// that never carries a raw error across the boundary.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

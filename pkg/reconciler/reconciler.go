// Package reconciler validates AI-generated suggestions and translates
// them into list mutations. Suggestions are untrusted input: every
// kind has its own required fields and matching rules, and a mutation
// is only ever committed as a complete candidate list, so a failure
// can never leave the list half-edited.
package reconciler

import (
	"fmt"
	"time"

	"precivox-base/pkg/liststore"
	"precivox-base/pkg/logger"
	"precivox-base/pkg/models"
	"precivox-base/pkg/notify"
)

// Applier commits a fully-built candidate list and returns the stamped
// result. liststore.(*Store).ReplaceCurrent satisfies it.
type Applier func(models.Lista) models.Lista

// Options tune reconciler behavior.
type Options struct {
	// AllowDuplicateOnSuggestedAdd preserves the legacy behavior where
	// an AI "add product" appends unconditionally, even when the
	// product is already listed. When false the add merges by product
	// ID like a manual add.
	AllowDuplicateOnSuggestedAdd bool
}

// Reconciler applies suggestions to a list through an Applier.
type Reconciler struct {
	sink     notify.Sink
	opts     Options
	snapshot *models.Lista
}

// New builds a reconciler. A nil sink discards notifications.
func New(sink notify.Sink, opts Options) *Reconciler {
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Reconciler{sink: sink, opts: opts}
}

// normalizeKind maps the legacy spellings still present in the
// suggestion stream onto the canonical tags. Unknown kinds pass
// through and are rejected by the dispatch.
func normalizeKind(kind string) string {
	switch kind {
	case "substituir_produto", models.KindSubstituteProduct:
		return models.KindSubstituteProduct
	case "ajustar_quantidade", models.KindAdjustQuantity:
		return models.KindAdjustQuantity
	case "adicionar_produto", models.KindAddProduct:
		return models.KindAddProduct
	case "remover_produto", models.KindRemoveProduct:
		return models.KindRemoveProduct
	case "store", "mudar_loja", "otimizar_rota", models.KindOptimizeRoute:
		return models.KindOptimizeRoute
	case models.KindTest:
		return models.KindTest
	default:
		return kind
	}
}

func (r *Reconciler) fail(message string) models.Result {
	r.sink.Notify(notify.LevelError, message)
	return models.Result{Success: false, Message: message}
}

// Apply validates the suggestion against the list and, when the
// mutation succeeds, commits the candidate atomically through commit.
// It never panics across this boundary and never commits on failure.
func (r *Reconciler) Apply(s *models.Suggestion, list *models.Lista, commit Applier) (result models.Result) {
	if s == nil || list == nil || commit == nil {
		return models.Result{
			Success: false,
			Message: fmt.Sprintf("dados insuficientes: suggestion=%t, lista=%t, commit=%t",
				s != nil, list != nil, commit != nil),
		}
	}
	if list.Items == nil {
		return models.Result{Success: false, Message: "lista não possui itens válidos"}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = r.fail(fmt.Sprintf("erro interno: %v", rec))
		}
	}()

	candidate := list.Clone()
	candidate.LastEditedAt = time.Now()

	var msg string
	switch normalizeKind(s.Kind) {
	case models.KindSubstituteProduct:
		res, failed := r.substituteProduct(&candidate, s)
		if failed != "" {
			return r.fail(failed)
		}
		msg = res

	case models.KindAdjustQuantity:
		res, failed := r.adjustQuantity(&candidate, s)
		if failed != "" {
			return r.fail(failed)
		}
		msg = res

	case models.KindAddProduct:
		res, failed := r.addProduct(&candidate, s)
		if failed != "" {
			return r.fail(failed)
		}
		msg = res

	case models.KindRemoveProduct:
		res, failed := r.removeProduct(&candidate, s)
		if failed != "" {
			return r.fail(failed)
		}
		msg = res

	case models.KindOptimizeRoute:
		res, failed := r.optimizeRoute(&candidate, s)
		if failed != "" {
			return r.fail(failed)
		}
		msg = res

	case models.KindTest:
		if len(candidate.Items) == 0 {
			return r.fail("lista vazia, nada para testar")
		}
		candidate.Items[0].Quantity *= 2

		msg = fmt.Sprintf("quantidade do primeiro item dobrada para %d", candidate.Items[0].Quantity)

	default:
		logger.Dedup("reconciler: unknown suggestion kind %q", s.Kind)
		return r.fail("tipo de sugestão não suportado")
	}

	if r.snapshot == nil {
		snap := list.Clone()
		r.snapshot = &snap
	}

	commit(candidate)

	if s.Message != "" {
		msg = s.Message
	}
	r.sink.Notify(notify.LevelSuccess, msg)
	return models.Result{Success: true, Message: msg}
}

func (r *Reconciler) substituteProduct(candidate *models.Lista, s *models.Suggestion) (msg, failed string) {
	a := s.Action
	if a == nil || a.OldProductID == "" || a.NewProduct == nil || a.NewProduct.ID == "" {
		return "", "dados insuficientes para substituição"
	}

	idx := candidate.IndexOf(a.OldProductID)
	if idx < 0 {
		logger.Dedup("reconciler: no item %q to substitute", a.OldProductID)
		return "", "produto não encontrado para substituição"
	}

	// Only the product changes; quantity, priority and purchase state
	// survive the swap.
	candidate.Items[idx].Product = a.NewProduct.Clone()
	return fmt.Sprintf("produto substituído por %s", a.NewProduct.Name), ""
}

func (r *Reconciler) adjustQuantity(candidate *models.Lista, s *models.Suggestion) (msg, failed string) {
	a := s.Action
	if a == nil || a.ProductID == "" || a.NewQuantity == nil {
		return "", "dados insuficientes para ajustar quantidade"
	}

	idx := candidate.IndexOf(a.ProductID)
	if idx < 0 {
		logger.Dedup("reconciler: no item %q to adjust", a.ProductID)
		return "", "produto não encontrado para ajustar quantidade"
	}

	// This path trusts the suggested number verbatim: zero is allowed
	// and does not remove the item, unlike a manual quantity change.
	candidate.Items[idx].Quantity = *a.NewQuantity
	return fmt.Sprintf("quantidade ajustada para %d", *a.NewQuantity), ""
}

func (r *Reconciler) addProduct(candidate *models.Lista, s *models.Suggestion) (msg, failed string) {
	a := s.Action
	if a == nil || a.NewProduct == nil || a.NewProduct.ID == "" {
		return "", "dados insuficientes para adicionar produto"
	}

	quantity := a.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	if r.opts.AllowDuplicateOnSuggestedAdd {
		candidate.Items = append(candidate.Items, models.ListItem{
			Product:   a.NewProduct.Clone(),
			Quantity:  quantity,
			AddedAt:   time.Now(),
			Purchased: false,
			Priority:  models.PriorityMedium,
		})
	} else {
		merged := liststore.AddItem(*candidate, *a.NewProduct, quantity)
		merged.LastEditedAt = candidate.LastEditedAt
		*candidate = merged
	}
	return fmt.Sprintf("produto adicionado: %s", a.NewProduct.Name), ""
}

func (r *Reconciler) removeProduct(candidate *models.Lista, s *models.Suggestion) (msg, failed string) {
	a := s.Action
	if a == nil || a.ProductID == "" {
		return "", "dados insuficientes para remover produto"
	}

	// Filter, not find-one: every item matching the ID goes, and
	// removing an absent product still succeeds.
	items := make([]models.ListItem, 0, len(candidate.Items))
	removed := 0
	for _, item := range candidate.Items {
		if item.Product.ID == a.ProductID {
			removed++
			continue
		}
		items = append(items, item)
	}
	candidate.Items = items

	if removed == 0 {
		logger.Dedup("reconciler: no item %q to remove", a.ProductID)
	}
	return fmt.Sprintf("%d item(ns) removido(s)", removed), ""
}

func (r *Reconciler) optimizeRoute(candidate *models.Lista, s *models.Suggestion) (msg, failed string) {
	a := s.Action

	switch {
	case a != nil && len(a.OptimizedOrder) > 0:
		// Re-sequence to the suggested order. IDs without a matching
		// item are skipped; items missing from the order are dropped.
		items := make([]models.ListItem, 0, len(candidate.Items))
		for _, id := range a.OptimizedOrder {
			if idx := candidate.IndexOf(id); idx >= 0 {
				items = append(items, candidate.Items[idx].Clone())
			}
		}
		candidate.Items = items
		return "rota otimizada: itens reordenados", ""

	case a != nil && a.PreferredStore != "":
		// Advisory only; no item mutation.
		return fmt.Sprintf("mercado preferencial sugerido: %s", a.PreferredStore), ""

	case a != nil && a.ProductID != "" && s.SuggestedStore != "":
		idx := candidate.IndexOf(a.ProductID)
		if idx < 0 {
			logger.Dedup("reconciler: no item %q for store change", a.ProductID)
			return "", "produto não encontrado para mudança de mercado"
		}
		candidate.Items[idx].Product.Store = s.SuggestedStore
		if s.SuggestedPrice > 0 {
			candidate.Items[idx].Product.Price = s.SuggestedPrice
		}
		return fmt.Sprintf("mercado alterado para %s", s.SuggestedStore), ""

	default:
		return "", "dados insuficientes para otimização"
	}
}

// ApplyAll applies a batch of suggestions in order against the
// evolving list, tolerating individual failures. Success means at
// least one suggestion applied.
func (r *Reconciler) ApplyAll(suggestions []models.Suggestion, list *models.Lista, commit Applier) models.Result {
	if list == nil || commit == nil {
		return models.Result{Success: false, Message: "dados insuficientes para aplicar sugestões"}
	}

	working := list.Clone()
	applied := 0
	for i := range suggestions {
		res := r.Apply(&suggestions[i], &working, func(l models.Lista) models.Lista {
			working = commit(l)
			return working
		})
		if res.Success {
			applied++
		} else {
			logger.Dedup("reconciler: batch suggestion failed: %s", res.Message)
		}
	}

	msg := fmt.Sprintf("%d/%d sugestões aplicadas", applied, len(suggestions))
	if applied == 0 {
		return models.Result{Success: false, Message: msg}
	}
	r.sink.Notify(notify.LevelInfo, msg)
	return models.Result{Success: true, Message: msg}
}

// Revert restores the list captured before the first successful
// suggestion of this session, if any.
func (r *Reconciler) Revert(commit Applier) models.Result {
	if r.snapshot == nil || commit == nil {
		return models.Result{Success: false, Message: "não há valores originais para reverter"}
	}

	commit(r.snapshot.Clone())
	r.snapshot = nil
	msg := "lista revertida aos valores originais"
	r.sink.Notify(notify.LevelInfo, msg)
	return models.Result{Success: true, Message: msg}
}

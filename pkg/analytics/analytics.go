// Package analytics derives read-only statistics from a list's items:
// totals, promotion savings, category/store breakdowns and the
// threshold-driven insight/recommendation/warning strings shown on the
// dashboard. Results are ephemeral; nothing here is persisted.
package analytics

import (
	"fmt"

	"precivox-base/pkg/models"
	"precivox-base/pkg/pricemath"
)

// Breakdown aggregates the items of one category or store.
type Breakdown struct {
	Items      int     `json:"items"`
	Quantity   int     `json:"quantity"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	AvgPrice   float64 `json:"avgPrice"`
}

// Result is the full derived view of a list. Recomputed on demand,
// never stored.
type Result struct {
	TotalItems         int     `json:"totalItems"`
	TotalQuantity      int     `json:"totalQuantity"`
	TotalValue         float64 `json:"totalValue"`
	TotalOriginalValue float64 `json:"totalOriginalValue"`

	PromotionSavings       float64 `json:"promotionSavings"`
	AISavings              float64 `json:"aiSavings"`
	TotalCombinedSavings   float64 `json:"totalCombinedSavings"`
	TotalSavingsPercentage float64 `json:"totalSavingsPercentage"`

	AverageItemPrice  float64          `json:"averageItemPrice"`
	AverageQuantity   float64          `json:"averageQuantity"`
	MostExpensiveItem *models.ListItem `json:"mostExpensiveItem,omitempty"`
	CheapestItem      *models.ListItem `json:"cheapestItem,omitempty"`

	Categories []string `json:"categories"`
	Stores     []string `json:"stores"`
	Brands     []string `json:"brands"`

	CategoryBreakdown map[string]Breakdown `json:"categoryBreakdown"`
	StoreBreakdown    map[string]Breakdown `json:"storeBreakdown"`

	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`

	CheckedItems         int     `json:"checkedItems"`
	PendingItems         int     `json:"pendingItems"`
	CompletionPercentage float64 `json:"completionPercentage"`
	IsComplete           bool    `json:"isComplete"`
}

func emptyResult() Result {
	return Result{
		Categories:        []string{},
		Stores:            []string{},
		Brands:            []string{},
		CategoryBreakdown: map[string]Breakdown{},
		StoreBreakdown:    map[string]Breakdown{},
		Insights:          []string{},
		Recommendations:   []string{},
		Warnings:          []string{},
	}
}

// Analyze folds over the items and live promotion data. aiSavings is
// the amount already saved by applied AI suggestions; it joins the
// promotion savings in the combined total. An empty list yields the
// all-zero result and is never considered complete.
func Analyze(items []models.ListItem, aiSavings float64) Result {
	if len(items) == 0 {
		return emptyResult()
	}

	r := emptyResult()
	r.TotalItems = len(items)
	r.AISavings = aiSavings

	for _, item := range items {
		qty := float64(item.Quantity)
		lineTotal := item.Product.Price * qty

		r.TotalQuantity += item.Quantity
		r.TotalValue += lineTotal

		promo := pricemath.PromotionInfo(item.Product)
		if promo.HasPromotion {
			r.TotalOriginalValue += promo.OriginalPrice * qty
			r.PromotionSavings += promo.Savings * qty
		} else {
			r.TotalOriginalValue += lineTotal
		}

		if item.Purchased {
			r.CheckedItems++
		}
	}

	r.TotalCombinedSavings = r.PromotionSavings + aiSavings
	if r.TotalOriginalValue > 0 {
		r.TotalSavingsPercentage = r.PromotionSavings / r.TotalOriginalValue * 100
	}

	r.AverageItemPrice = r.TotalValue / float64(r.TotalItems)
	r.AverageQuantity = float64(r.TotalQuantity) / float64(r.TotalItems)

	most, cheapest := 0, 0
	for i, item := range items {
		line := item.Product.Price * float64(item.Quantity)
		if line > items[most].Product.Price*float64(items[most].Quantity) {
			most = i
		}
		if line < items[cheapest].Product.Price*float64(items[cheapest].Quantity) {
			cheapest = i
		}
	}
	mostItem := items[most].Clone()
	cheapItem := items[cheapest].Clone()
	r.MostExpensiveItem = &mostItem
	r.CheapestItem = &cheapItem

	r.Categories, r.CategoryBreakdown = breakdownBy(items, r.TotalValue, func(p models.Product) string { return p.Category })
	r.Stores, r.StoreBreakdown = breakdownBy(items, r.TotalValue, func(p models.Product) string { return p.Store })
	r.Brands = distinct(items, func(p models.Product) string { return p.Brand })

	r.PendingItems = r.TotalItems - r.CheckedItems
	r.CompletionPercentage = float64(r.CheckedItems) / float64(r.TotalItems) * 100
	r.IsComplete = r.CompletionPercentage == 100

	r.Insights = insights(r)
	r.Recommendations = recommendations(r)
	r.Warnings = warnings(r, items)

	return r
}

func distinct(items []models.ListItem, key func(models.Product) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, item := range items {
		k := key(item.Product)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func breakdownBy(items []models.ListItem, totalValue float64, key func(models.Product) string) ([]string, map[string]Breakdown) {
	keys := distinct(items, key)
	breakdown := make(map[string]Breakdown, len(keys))

	for _, item := range items {
		k := key(item.Product)
		if k == "" {
			continue
		}
		b := breakdown[k]
		b.Items++
		b.Quantity += item.Quantity
		b.Value += item.Product.Price * float64(item.Quantity)
		breakdown[k] = b
	}

	for k, b := range breakdown {
		if totalValue > 0 {
			b.Percentage = b.Value / totalValue * 100
		}
		if b.Quantity > 0 {
			b.AvgPrice = b.Value / float64(b.Quantity)
		}
		breakdown[k] = b
	}

	return keys, breakdown
}

func insights(r Result) []string {
	out := []string{}

	if r.TotalCombinedSavings > 0 {
		out = append(out, fmt.Sprintf("Economia total de %s", pricemath.FormatSavings(r.TotalCombinedSavings, false, 0)))
	}
	if len(r.Categories) > 3 {
		out = append(out, fmt.Sprintf("Lista diversificada com %d categorias diferentes", len(r.Categories)))
	}
	if len(r.Stores) > 1 {
		out = append(out, fmt.Sprintf("Produtos de %d mercados diferentes", len(r.Stores)))
	}

	if r.TotalQuantity > 0 {
		avgUnitValue := r.TotalValue / float64(r.TotalQuantity)
		if avgUnitValue < 5 {
			out = append(out, "Lista focada em produtos básicos e essenciais")
		} else if avgUnitValue > 20 {
			out = append(out, "Lista com produtos premium e especializados")
		}
	}

	if r.PromotionSavings > r.TotalValue*0.15 {
		out = append(out, "Excelentes promoções aproveitadas!")
	}

	return out
}

func recommendations(r Result) []string {
	out := []string{}

	if len(r.Stores) > 2 {
		out = append(out, "Considere concentrar compras em menos mercados para economizar tempo e combustível")
	}
	if r.TotalValue > 200 && r.PromotionSavings < r.TotalValue*0.05 {
		out = append(out, "Busque mais promoções para aumentar sua economia")
	}

	biggest := ""
	for name, b := range r.CategoryBreakdown {
		if biggest == "" || b.Value > r.CategoryBreakdown[biggest].Value {
			biggest = name
		}
	}
	if biggest != "" && r.CategoryBreakdown[biggest].Percentage > 40 {
		out = append(out, fmt.Sprintf("%s representa grande parte da lista. Considere balancear com outros itens", biggest))
	}

	return out
}

func warnings(r Result, items []models.ListItem) []string {
	out := []string{}

	if len(r.Stores) > 3 {
		out = append(out, "Muitos mercados podem aumentar tempo e custo do trajeto")
	}
	if r.TotalValue > 500 {
		out = append(out, "Lista de alto valor - considere dividir em compras menores")
	}

	for _, item := range items {
		if item.Product.Price*float64(item.Quantity) > r.TotalValue*0.25 {
			out = append(out, fmt.Sprintf("Item caro detectado: %s", item.Product.Name))
			break
		}
	}

	return out
}

// Comparison relates two item sets.
type Comparison struct {
	A                 Result  `json:"a"`
	B                 Result  `json:"b"`
	ValueDifference   float64 `json:"valueDifference"`
	SavingsDifference float64 `json:"savingsDifference"`
	ItemsDifference   int     `json:"itemsDifference"`
	CheaperList       string  `json:"cheaperList"`
}

// Compare analyzes two lists and reports which is cheaper.
func Compare(a, b []models.ListItem) Comparison {
	ra := Analyze(a, 0)
	rb := Analyze(b, 0)

	cheaper := "a"
	if rb.TotalValue < ra.TotalValue {
		cheaper = "b"
	}

	return Comparison{
		A:                 ra,
		B:                 rb,
		ValueDifference:   ra.TotalValue - rb.TotalValue,
		SavingsDifference: ra.PromotionSavings - rb.PromotionSavings,
		ItemsDifference:   ra.TotalItems - rb.TotalItems,
		CheaperList:       cheaper,
	}
}

// Summary renders the one-line totals shown in list headers.
type Summary struct {
	Total   string `json:"total"`
	Savings string `json:"savings"`
	Items   string `json:"items"`
	Stores  string `json:"stores"`
}

// Summarize formats the headline numbers for a list.
func Summarize(items []models.ListItem, aiSavings float64) Summary {
	r := Analyze(items, aiSavings)

	itemWord := "itens"
	if r.TotalItems == 1 {
		itemWord = "item"
	}
	storeWord := "mercados"
	if len(r.Stores) == 1 {
		storeWord = "mercado"
	}

	return Summary{
		Total:   pricemath.FormatPrice(r.TotalValue),
		Savings: pricemath.FormatSavings(r.TotalCombinedSavings, false, 0),
		Items:   fmt.Sprintf("%d %s", r.TotalItems, itemWord),
		Stores:  fmt.Sprintf("%d %s", len(r.Stores), storeWord),
	}
}

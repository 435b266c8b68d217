package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precivox-base/pkg/models"
)

func item(id, name string, price float64, qty int) models.ListItem {
	return models.ListItem{
		Product:  models.Product{ID: id, Name: name, Price: price, Available: true},
		Quantity: qty,
		AddedAt:  time.Now(),
		Priority: models.PriorityMedium,
	}
}

func withCategory(it models.ListItem, category string) models.ListItem {
	it.Product.Category = category
	return it
}

func withStore(it models.ListItem, store string) models.ListItem {
	it.Product.Store = store
	return it
}

func withPromotion(it models.ListItem, originalPrice float64) models.ListItem {
	it.Product.Promotion = &models.Promotion{Active: true, OriginalPrice: originalPrice}
	return it
}

func TestAnalyzeEmptyList(t *testing.T) {
	r := Analyze(nil, 0)

	assert.Equal(t, 0, r.TotalItems)
	assert.InDelta(t, 0, r.TotalValue, 1e-9)
	assert.False(t, r.IsComplete, "an empty list is never complete")
	assert.Nil(t, r.MostExpensiveItem)
	assert.NotNil(t, r.Categories)
	assert.NotNil(t, r.Insights)
	assert.Empty(t, r.Warnings)
}

func TestAnalyzeSingleItemTotals(t *testing.T) {
	r := Analyze([]models.ListItem{item("p1", "Arroz 5kg", 15.90, 2)}, 0)

	assert.Equal(t, 1, r.TotalItems)
	assert.Equal(t, 2, r.TotalQuantity)
	assert.InDelta(t, 31.80, r.TotalValue, 1e-9)
	assert.InDelta(t, 31.80, r.TotalOriginalValue, 1e-9, "no promotion means original equals current")
	assert.InDelta(t, 0, r.PromotionSavings, 1e-9)
	assert.InDelta(t, 31.80, r.AverageItemPrice, 1e-9)
	assert.InDelta(t, 2, r.AverageQuantity, 1e-9)
}

func TestAnalyzePromotionSavings(t *testing.T) {
	items := []models.ListItem{
		withPromotion(item("p1", "Arroz 5kg", 15.90, 2), 19.90),
		item("p2", "Feijão 1kg", 8.50, 1),
	}

	r := Analyze(items, 3.50)

	assert.InDelta(t, 40.30, r.TotalValue, 1e-9)
	assert.InDelta(t, 48.30, r.TotalOriginalValue, 1e-9)
	assert.InDelta(t, 8.00, r.PromotionSavings, 1e-9, "savings scale with quantity")
	assert.InDelta(t, 3.50, r.AISavings, 1e-9)
	assert.InDelta(t, 11.50, r.TotalCombinedSavings, 1e-9)
	assert.InDelta(t, 8.00/48.30*100, r.TotalSavingsPercentage, 1e-9)

	// Original value minus promotion savings must land back on the total.
	assert.InDelta(t, r.TotalValue, r.TotalOriginalValue-r.PromotionSavings, 1e-9)
}

func TestAnalyzeExtremes(t *testing.T) {
	items := []models.ListItem{
		item("p1", "Arroz 5kg", 15.90, 1),
		item("p2", "Picanha kg", 79.90, 2),
		item("p3", "Sal 1kg", 2.50, 1),
	}

	r := Analyze(items, 0)

	require.NotNil(t, r.MostExpensiveItem)
	require.NotNil(t, r.CheapestItem)
	assert.Equal(t, "p2", r.MostExpensiveItem.Product.ID, "ranked by line total, not unit price")
	assert.Equal(t, "p3", r.CheapestItem.Product.ID)
}

func TestAnalyzeBreakdowns(t *testing.T) {
	items := []models.ListItem{
		withStore(withCategory(item("p1", "Arroz 5kg", 10, 2), "Grãos"), "Assaí"),
		withStore(withCategory(item("p2", "Feijão 1kg", 10, 1), "Grãos"), "Carrefour"),
		withStore(withCategory(item("p3", "Detergente", 10, 1), "Limpeza"), "Assaí"),
	}

	r := Analyze(items, 0)

	assert.ElementsMatch(t, []string{"Grãos", "Limpeza"}, r.Categories)
	assert.ElementsMatch(t, []string{"Assaí", "Carrefour"}, r.Stores)

	graos := r.CategoryBreakdown["Grãos"]
	assert.Equal(t, 2, graos.Items)
	assert.Equal(t, 3, graos.Quantity)
	assert.InDelta(t, 30, graos.Value, 1e-9)
	assert.InDelta(t, 75, graos.Percentage, 1e-9)
	assert.InDelta(t, 10, graos.AvgPrice, 1e-9)

	assai := r.StoreBreakdown["Assaí"]
	assert.Equal(t, 2, assai.Items)
	assert.InDelta(t, 30, assai.Value, 1e-9)
}

func TestAnalyzeCompletion(t *testing.T) {
	items := []models.ListItem{
		item("p1", "Arroz 5kg", 15.90, 1),
		item("p2", "Feijão 1kg", 8.50, 1),
	}
	items[0].Purchased = true

	r := Analyze(items, 0)
	assert.Equal(t, 1, r.CheckedItems)
	assert.Equal(t, 1, r.PendingItems)
	assert.InDelta(t, 50, r.CompletionPercentage, 1e-9)
	assert.False(t, r.IsComplete)

	items[1].Purchased = true
	r = Analyze(items, 0)
	assert.True(t, r.IsComplete)
}

func TestInsightThresholds(t *testing.T) {
	t.Run("diversified categories needs more than three", func(t *testing.T) {
		items := []models.ListItem{
			withCategory(item("p1", "a", 10, 1), "c1"),
			withCategory(item("p2", "b", 10, 1), "c2"),
			withCategory(item("p3", "c", 10, 1), "c3"),
		}
		r := Analyze(items, 0)
		for _, in := range r.Insights {
			assert.NotContains(t, in, "diversificada")
		}

		items = append(items, withCategory(item("p4", "d", 10, 1), "c4"))
		r = Analyze(items, 0)
		assert.Contains(t, r.Insights, "Lista diversificada com 4 categorias diferentes")
	})

	t.Run("basic versus premium unit value", func(t *testing.T) {
		r := Analyze([]models.ListItem{item("p1", "Sal", 2, 3)}, 0)
		assert.Contains(t, r.Insights, "Lista focada em produtos básicos e essenciais")

		r = Analyze([]models.ListItem{item("p1", "Vinho", 45, 1)}, 0)
		assert.Contains(t, r.Insights, "Lista com produtos premium e especializados")
	})

	t.Run("strong promotions", func(t *testing.T) {
		r := Analyze([]models.ListItem{withPromotion(item("p1", "Arroz", 10, 1), 15)}, 0)
		assert.Contains(t, r.Insights, "Excelentes promoções aproveitadas!")
	})

	t.Run("combined savings headline", func(t *testing.T) {
		r := Analyze([]models.ListItem{item("p1", "Arroz", 10, 1)}, 5)
		require.NotEmpty(t, r.Insights)
		assert.Contains(t, r.Insights[0], "Economia total de")
	})
}

func TestRecommendationThresholds(t *testing.T) {
	t.Run("too many stores", func(t *testing.T) {
		items := []models.ListItem{
			withStore(item("p1", "a", 10, 1), "s1"),
			withStore(item("p2", "b", 10, 1), "s2"),
			withStore(item("p3", "c", 10, 1), "s3"),
		}
		r := Analyze(items, 0)
		assert.Contains(t, r.Recommendations,
			"Considere concentrar compras em menos mercados para economizar tempo e combustível")
	})

	t.Run("high value with few promotions", func(t *testing.T) {
		r := Analyze([]models.ListItem{item("p1", "Carrinho cheio", 250, 1)}, 0)
		assert.Contains(t, r.Recommendations, "Busque mais promoções para aumentar sua economia")
	})

	t.Run("dominant category", func(t *testing.T) {
		items := []models.ListItem{
			withCategory(item("p1", "Picanha", 50, 1), "Carnes"),
			withCategory(item("p2", "Sal", 5, 1), "Mercearia"),
		}
		r := Analyze(items, 0)
		found := false
		for _, rec := range r.Recommendations {
			if rec == "Carnes representa grande parte da lista. Considere balancear com outros itens" {
				found = true
			}
		}
		assert.True(t, found, "category above 40%% of value must be flagged")
	})
}

func TestWarningThresholds(t *testing.T) {
	items := []models.ListItem{
		withStore(item("p1", "Picanha kg", 200, 1), "s1"),
		withStore(item("p2", "Arroz", 40, 1), "s2"),
		withStore(item("p3", "Feijão", 30, 1), "s3"),
		withStore(item("p4", "Óleo", 35, 1), "s4"),
	}

	r := Analyze(items, 0)

	assert.Contains(t, r.Warnings, "Muitos mercados podem aumentar tempo e custo do trajeto")
	assert.Contains(t, r.Warnings, "Item caro detectado: Picanha kg")
	for _, w := range r.Warnings {
		assert.NotContains(t, w, "alto valor", "total of 305 is below the 500 threshold")
	}

	items = append(items, withStore(item("p5", "Vinho", 250, 1), "s1"))
	r = Analyze(items, 0)
	assert.Contains(t, r.Warnings, "Lista de alto valor - considere dividir em compras menores")
}

func TestCompare(t *testing.T) {
	a := []models.ListItem{item("p1", "Arroz", 20, 1)}
	b := []models.ListItem{item("p1", "Arroz", 15, 1), item("p2", "Feijão", 3, 1)}

	c := Compare(a, b)
	assert.Equal(t, "b", c.CheaperList)
	assert.InDelta(t, 2, c.ValueDifference, 1e-9)
	assert.Equal(t, -1, c.ItemsDifference)

	c = Compare(b, a)
	assert.Equal(t, "a", c.CheaperList, "ties and wins for the first list report a")
}

func TestSummarize(t *testing.T) {
	one := Summarize([]models.ListItem{withStore(item("p1", "Arroz", 15.90, 1), "Assaí")}, 0)
	assert.Equal(t, "1 item", one.Items)
	assert.Equal(t, "1 mercado", one.Stores)
	assert.Equal(t, "R$ 15,90", one.Total)

	many := Summarize([]models.ListItem{
		withStore(item("p1", "Arroz", 10, 1), "Assaí"),
		withStore(item("p2", "Feijão", 5, 1), "Carrefour"),
	}, 0)
	assert.Equal(t, "2 itens", many.Items)
	assert.Equal(t, "2 mercados", many.Stores)
}

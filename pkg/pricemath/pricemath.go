// Package pricemath holds the pure price helpers shared by the list
// engine: currency formatting, promotion deltas and simple price
// statistics. No state, no side effects.
package pricemath

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"precivox-base/pkg/models"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatPrice renders a value as Brazilian Real ("R$ 1.234,56").
// Invalid values render as zero instead of leaking NaN to the UI.
func FormatPrice(v float64) string {
	if !IsValidPrice(v) {
		v = 0
	}
	return printer.Sprintf("R$ %.2f", v)
}

// FormatPriceCompact abbreviates large values (R$ 1.2K, R$ 3.4M).
func FormatPriceCompact(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("R$ %.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("R$ %.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("R$ %.1fK", v/1_000)
	default:
		return FormatPrice(v)
	}
}

// FormatPriceRange renders "R$ a - R$ b", collapsing equal bounds.
func FormatPriceRange(min, max float64) string {
	if min == max {
		return FormatPrice(min)
	}
	return FormatPrice(min) + " - " + FormatPrice(max)
}

// FormatSavings renders a saved amount with a leading minus sign and,
// optionally, the percentage relative to the original price.
func FormatSavings(savings float64, showPercent bool, originalPrice float64) string {
	out := "−" + FormatPrice(savings)
	if showPercent && originalPrice > 0 {
		out += fmt.Sprintf(" (%.0f%%)", savings/originalPrice*100)
	}
	return out
}

// IsValidPrice reports whether v is a usable, non-negative price.
func IsValidPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ParsePrice converts a Brazilian-formatted price string ("R$ 1.234,56")
// to a float. Unparseable input yields 0.
func ParsePrice(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	var v float64
	if _, err := fmt.Sscanf(cleaned, "%f", &v); err != nil {
		return 0
	}
	return v
}

// Calculation is the result of a discount computation.
type Calculation struct {
	OriginalPrice   float64
	Discount        float64
	FinalPrice      float64
	Savings         float64
	DiscountPercent float64
}

// CalculateDiscount applies a percentage discount to an original price.
func CalculateDiscount(originalPrice, discountPercent float64) Calculation {
	discount := originalPrice * discountPercent / 100
	return Calculation{
		OriginalPrice:   originalPrice,
		Discount:        discount,
		FinalPrice:      originalPrice - discount,
		Savings:         discount,
		DiscountPercent: discountPercent,
	}
}

// CalculateOriginalPrice reverses a discount: given the final price and
// the percentage that was applied, it recovers the original price.
func CalculateOriginalPrice(finalPrice, discountPercent float64) Calculation {
	originalPrice := finalPrice / (1 - discountPercent/100)
	discount := originalPrice - finalPrice
	return Calculation{
		OriginalPrice:   originalPrice,
		Discount:        discount,
		FinalPrice:      finalPrice,
		Savings:         discount,
		DiscountPercent: discountPercent,
	}
}

// Comparison relates a price to a competitor's.
type Comparison struct {
	IsLowestPrice     bool
	PriceDifference   float64
	PercentDifference float64
	Rank              int
}

// ComparePrices compares current against a reference price.
func ComparePrices(current, comparison float64) Comparison {
	diff := current - comparison
	pct := 0.0
	if comparison != 0 {
		pct = diff / comparison * 100
	}
	rank := 2
	if current <= comparison {
		rank = 1
	}
	return Comparison{
		IsLowestPrice:     current <= comparison,
		PriceDifference:   math.Abs(diff),
		PercentDifference: math.Abs(pct),
		Rank:              rank,
	}
}

// PromotionDetails is the normalized view of a product's promotion.
type PromotionDetails struct {
	HasPromotion    bool
	OriginalPrice   float64
	FinalPrice      float64
	Savings         float64
	DiscountPercent float64
}

// PromotionInfo normalizes the product's promotion data. A promotion
// object with a recorded original price yields real savings; a bare
// active flag yields a promotion with zero savings; no promotion
// yields the flat price on both sides.
func PromotionInfo(p models.Product) PromotionDetails {
	if p.Promotion == nil {
		return PromotionDetails{
			OriginalPrice: p.Price,
			FinalPrice:    p.Price,
		}
	}

	original := p.Promotion.OriginalPrice
	if original <= 0 {
		original = p.Price
	}
	savings := original - p.Price
	if savings < 0 {
		savings = 0
	}
	pct := p.Promotion.DiscountPercent
	if pct == 0 && original > 0 {
		pct = savings / original * 100
	}

	return PromotionDetails{
		HasPromotion:    p.Promotion.Active,
		OriginalPrice:   original,
		FinalPrice:      p.Price,
		Savings:         savings,
		DiscountPercent: pct,
	}
}

// Stats summarizes a slice of prices.
type Stats struct {
	Total   float64
	Average float64
	Lowest  float64
	Highest float64
	Count   int
	Range   float64
}

// AnalyzePrices folds a price slice into summary statistics. An empty
// slice yields the zero value.
func AnalyzePrices(prices []float64) Stats {
	if len(prices) == 0 {
		return Stats{}
	}

	total := 0.0
	lowest := prices[0]
	highest := prices[0]
	for _, p := range prices {
		total += p
		if p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
	}

	return Stats{
		Total:   total,
		Average: total / float64(len(prices)),
		Lowest:  lowest,
		Highest: highest,
		Count:   len(prices),
		Range:   highest - lowest,
	}
}

package models

import (
	"bytes"
	"encoding/json"
)

// Product is a catalog record. The engine treats catalog data as
// read-only; store/price overrides applied by suggestions operate on
// the copy held inside a list item.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Category    string     `json:"category,omitempty"`
	Store       string     `json:"store,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Available   bool       `json:"available"`
	Promotion   *Promotion `json:"promotion,omitempty"`
	IsNew       bool       `json:"isNew,omitempty"`
	IsBestPrice bool       `json:"isBestPrice,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	DistanceKm  float64    `json:"distanceKm,omitempty"`
	ViewCount   int        `json:"viewCount,omitempty"`
}

// Promotion describes the discount attached to a product. Legacy
// catalog payloads encode it as a bare boolean, newer ones as an
// object; both decode into this struct.
type Promotion struct {
	Active          bool    `json:"active"`
	OriginalPrice   float64 `json:"originalPrice,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`
}

type promotionObject Promotion

func (p *Promotion) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	// Legacy shape: "promotion": true
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*p = Promotion{Active: flag}
		return nil
	}

	var obj promotionObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*p = Promotion(obj)
	return nil
}

// HasActivePromotion reports whether the product carries a promotion
// that is not explicitly disabled.
func (p Product) HasActivePromotion() bool {
	return p.Promotion != nil && p.Promotion.Active
}

// Clone returns a value copy detached from any shared promotion pointer.
func (p Product) Clone() Product {
	out := p
	if p.Promotion != nil {
		promo := *p.Promotion
		out.Promotion = &promo
	}
	return out
}

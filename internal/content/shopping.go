package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ShoppingProducts is the current product-list layout.
type ShoppingProducts struct {
	Budget   number `json:"budget"`
	Scenario text   `json:"scenario"`
	Products []struct {
		ID             text   `json:"id"`
		Name           text   `json:"name"`
		Price          number `json:"price"`
		PromotionPrice number `json:"promotionPrice"`
		Category       text   `json:"category"`
		Unit           text   `json:"unit"`
	} `json:"products"`
}

// ShoppingItems is the legacy item-list layout without product ids.
type ShoppingItems struct {
	Budget   number `json:"budget"`
	Scenario text   `json:"scenario"`
	Items    []struct {
		Name       text   `json:"name"`
		Price      number `json:"price"`
		PromoPrice number `json:"promoPrice"`
		Category   text   `json:"category"`
	} `json:"items"`
}

const defaultCategory = "Outros"

// NormalizeShopping maps any stored shopping-cart layout to the canonical
// budget and product list. Products without a positive price are skipped.
func NormalizeShopping(raw json.RawMessage) *Shopping {
	empty := &Shopping{Variant: ShapeEmpty}

	doc, ok := decodeDocument(raw)
	if !ok {
		return empty
	}

	var s *Shopping
	switch shape := detectDocument(TypeShopping, doc); shape {
	case ShapeShoppingProducts:
		var sp ShoppingProducts
		if !remarshal(doc, &sp) {
			return empty
		}
		s = &Shopping{Variant: shape, Budget: sp.Budget.Value, Scenario: firstNonEmpty(sp.Scenario)}
		seen := make(map[string]bool)
		for i, p := range sp.Products {
			if !p.Price.Valid || p.Price.Value <= 0 {
				continue
			}
			id := firstNonEmpty(p.ID)
			for n := i + 1; id == "" || seen[id]; n++ {
				id = fmt.Sprintf("product-%d", n)
			}
			seen[id] = true
			s.Products = append(s.Products, Product{
				ID:             id,
				Name:           firstNonEmpty(p.Name, p.ID),
				Price:          p.Price.Value,
				PromotionPrice: p.PromotionPrice.Value,
				Category:       category(p.Category),
				Unit:           strings.TrimSpace(string(p.Unit)),
			})
		}
	case ShapeShoppingItems:
		var si ShoppingItems
		if !remarshal(doc, &si) {
			return empty
		}
		s = &Shopping{Variant: shape, Budget: si.Budget.Value, Scenario: firstNonEmpty(si.Scenario)}
		for i, it := range si.Items {
			if !it.Price.Valid || it.Price.Value <= 0 {
				continue
			}
			s.Products = append(s.Products, Product{
				ID:             fmt.Sprintf("item-%d", i+1),
				Name:           firstNonEmpty(it.Name),
				Price:          it.Price.Value,
				PromotionPrice: it.PromoPrice.Value,
				Category:       category(it.Category),
			})
		}
	default:
		return empty
	}

	if s.Empty() {
		return empty
	}
	return s
}

func category(c text) string {
	if s := firstNonEmpty(c); s != "" {
		return s
	}
	return defaultCategory
}

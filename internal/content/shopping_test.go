package content

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeShopping_Products(t *testing.T) {
	raw := json.RawMessage(`{"budget":"100,00","scenario":"Compra do mês","products":[
		{"id":"arroz","name":"Arroz 5kg","price":25,"category":"Grãos"},
		{"id":"feijao","name":"Feijão","price":8,"promotionPrice":6.5,"category":"Grãos","unit":"kg"},
		{"id":"arroz","name":"Arroz integral","price":12},
		{"id":"brinde","name":"Brinde","price":0}
	]}`)

	s := NormalizeShopping(raw)
	if s.Shape() != ShapeShoppingProducts {
		t.Fatalf("shape = %q", s.Shape())
	}
	if s.Budget != 100 {
		t.Errorf("budget = %v, want 100", s.Budget)
	}
	if len(s.Products) != 3 {
		t.Fatalf("len(products) = %d, want 3 (zero price skipped)", len(s.Products))
	}
	if s.Products[2].ID != "product-3" {
		t.Errorf("duplicate id = %q, want product-3", s.Products[2].ID)
	}
	if s.Products[2].Category != "Outros" {
		t.Errorf("default category = %q", s.Products[2].Category)
	}

	feijao, ok := s.Product("feijao")
	if !ok {
		t.Fatal("feijao not found")
	}
	if !feijao.OnPromotion() || feijao.UnitPrice() != 6.5 {
		t.Errorf("promotion not applied: %+v", feijao)
	}

	if got, want := s.Categories(), []string{"Grãos", "Outros"}; !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestNormalizeShopping_LegacyItems(t *testing.T) {
	s := NormalizeShopping(json.RawMessage(`{"budget":50,"items":[{"name":"Pão","price":"7,50","promoPrice":9}]}`))
	if s.Shape() != ShapeShoppingItems {
		t.Fatalf("shape = %q", s.Shape())
	}
	p := s.Products[0]
	if p.ID != "item-1" || p.Price != 7.5 {
		t.Errorf("product = %+v", p)
	}
	if p.OnPromotion() {
		t.Error("promotion above the regular price must not apply")
	}
}

func TestNormalizeShopping_Empty(t *testing.T) {
	for _, raw := range []string{
		`{"budget":0,"products":[{"id":"a","price":1}]}`,
		`{"budget":10,"products":[]}`,
		`{"products":[{"id":"a","price":1}]}`,
	} {
		s := NormalizeShopping(json.RawMessage(raw))
		if !s.Empty() || s.Len() != 0 {
			t.Errorf("%s: expected empty, got %+v", raw, s)
		}
	}
}

func TestNormalizeShopping_FallbackIDsNeverCollide(t *testing.T) {
	raw := json.RawMessage(`{"budget":10,"products":[
		{"id":"product-2","name":"A","price":1},
		{"id":"product-2","name":"B","price":2},
		{"name":"C","price":3}
	]}`)

	s := NormalizeShopping(raw)
	if len(s.Products) != 3 {
		t.Fatalf("len(products) = %d, want 3", len(s.Products))
	}
	seen := make(map[string]bool)
	for _, p := range s.Products {
		if seen[p.ID] {
			t.Errorf("duplicate id %q in %+v", p.ID, s.Products)
		}
		seen[p.ID] = true
	}
	if s.Products[0].ID != "product-2" {
		t.Errorf("stored id rewritten: %q", s.Products[0].ID)
	}
}

package content

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
)

func TestNormalizeMatch_Pairs(t *testing.T) {
	raw := json.RawMessage(`{"gameFormat":"memory","instructions":"Encontre os pares","pairs":[
		{"left":"Juros","right":"Custo do dinheiro","explanation":"..."},
		{"left":"Orçamento","right":"Plano de gastos"},
		{"left":"","right":"sem par"}
	]}`)

	m := NormalizeMatch(raw)
	if m.Shape() != ShapeMatchPairs {
		t.Fatalf("shape = %q", m.Shape())
	}
	if m.Format != FormatMemory {
		t.Errorf("format = %q, want memory", m.Format)
	}
	if len(m.Pairs) != 2 {
		t.Fatalf("len(pairs) = %d, want 2 (half-empty pair skipped)", len(m.Pairs))
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestNormalizeMatch_LegacyItems(t *testing.T) {
	raw := json.RawMessage(`{"items":[{"term":"PIX","definition":"Transferência instantânea"}]}`)

	m := NormalizeMatch(raw)
	if m.Shape() != ShapeMatchItems {
		t.Fatalf("shape = %q", m.Shape())
	}
	if m.Format != FormatAssociation {
		t.Errorf("format = %q, want association by default", m.Format)
	}
	if m.Pairs[0].Left != "PIX" || m.Pairs[0].Right != "Transferência instantânea" {
		t.Errorf("pair = %+v", m.Pairs[0])
	}
}

func TestNormalizeMatch_Empty(t *testing.T) {
	for _, raw := range []string{`{"pairs":[]}`, `{"pairs":[{"left":"a"}]}`, `{}`, `null`} {
		m := NormalizeMatch(json.RawMessage(raw))
		if !m.Empty() || m.Len() != 0 || m.Shape() != ShapeEmpty {
			t.Errorf("%s: expected empty, got %+v", raw, m)
		}
	}
}

func TestDeck_TwoCardsPerPair(t *testing.T) {
	pairs := []Pair{{Left: "a", Right: "1"}, {Left: "b", Right: "2"}, {Left: "c", Right: "3"}}
	cards := Deck(pairs, rand.New(rand.NewPCG(1, 2)))

	if len(cards) != 6 {
		t.Fatalf("len(cards) = %d, want 6", len(cards))
	}
	perPair := make(map[int]int)
	ids := make(map[string]bool)
	for _, c := range cards {
		perPair[c.PairID]++
		if ids[c.ID] {
			t.Errorf("duplicate card id %q", c.ID)
		}
		ids[c.ID] = true
		if c.IsFlipped || c.IsMatched {
			t.Errorf("card %q should start face down and unmatched", c.ID)
		}
	}
	for i := range pairs {
		if perPair[i] != 2 {
			t.Errorf("pair %d has %d cards, want 2", i, perPair[i])
		}
	}
}

func TestDeck_NilRandKeepsOrder(t *testing.T) {
	cards := Deck([]Pair{{Left: "a", Right: "1"}}, nil)
	if cards[0].ID != "0-a" || cards[1].ID != "0-b" {
		t.Errorf("unexpected order: %+v", cards)
	}
}

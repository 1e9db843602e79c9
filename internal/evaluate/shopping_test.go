package evaluate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yufin/yufin/internal/content"
)

func TestCheckout_TierTable(t *testing.T) {
	tests := []struct {
		name    string
		budget  float64
		total   float64
		score   int
		perfect bool
		tier    string
	}{
		{"over budget", 100, 100.01, 0, false, TierOverBudget},
		{"empty cart", 100, 0, 100, true, TierEmptyCart},
		{"plenty left", 100, 50, 90, true, TierThrifty},
		{"exactly 30% left", 100, 70, 90, true, TierThrifty},
		{"just under 30% left", 100, 70.01, 75, true, TierCareful},
		{"exactly 10% left", 100, 90, 75, true, TierCareful},
		{"just under 10% left", 100, 90.01, 50, false, TierTight},
		{"5 left", 100, 95, 50, false, TierTight},
		{"exactly on budget", 100, 100, 50, false, TierTight},
		{"odd budget 30% boundary", 33.33, 33.33 - 0.3*33.33, 90, true, TierThrifty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Checkout(tc.total, tc.budget)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.perfect, got.Acceptable)
			assert.Equal(t, tc.tier, got.Name)
		})
	}
}

func testShop(t *testing.T) *content.Shopping {
	t.Helper()
	s := content.NormalizeShopping(json.RawMessage(`{"budget":100,"products":[
		{"id":"arroz","name":"Arroz","price":25,"category":"Grãos"},
		{"id":"feijao","name":"Feijão","price":10,"promotionPrice":7.5,"category":"Grãos"},
		{"id":"cafe","name":"Café","price":20,"category":"Bebidas"}
	]}`))
	require.False(t, s.Empty())
	return s
}

func TestCart_Total(t *testing.T) {
	cart := NewCart(testShop(t))

	cart.Add("arroz")
	cart.Add("arroz")
	cart.SetQuantity("feijao", 2)
	cart.Add("desconhecido")

	assert.Equal(t, 2, cart.Quantity("arroz"))
	assert.Equal(t, 0, cart.Quantity("desconhecido"))
	assert.Equal(t, 4, cart.Items())
	assert.InDelta(t, 65.0, cart.Total(), 1e-9)
	assert.InDelta(t, 35.0, cart.Remaining(), 1e-9)

	entries := cart.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "arroz", entries[0].Product.ID)
	assert.InDelta(t, 15.0, entries[1].Subtotal(), 1e-9)
}

func TestCart_NonPositiveQuantityRemoves(t *testing.T) {
	cart := NewCart(testShop(t))
	cart.SetQuantity("cafe", 3)
	cart.SetQuantity("cafe", 0)
	assert.Empty(t, cart.Entries())

	cart.SetQuantity("cafe", 1)
	cart.SetQuantity("cafe", -4)
	assert.Equal(t, 0, cart.Quantity("cafe"))

	cart.Remove("cafe")
	assert.Equal(t, 0.0, cart.Total())

	cart.SetQuantity("arroz", 1)
	cart.Clear()
	assert.Equal(t, 0, cart.Items())
}

func TestShopping_ScenarioC(t *testing.T) {
	s := testShop(t)
	out := Shopping{}.Evaluate(s, CheckoutAnswer{Total: 95})
	assert.Equal(t, 50, out.ScoreContribution)
	assert.False(t, out.IsCorrect)
	assert.Equal(t, TierTight, out.Tier)

	score := Shopping{}.Complete(s, []Attempt{{Correct: out.IsCorrect, Contribution: out.ScoreContribution, Tier: out.Tier}})
	assert.Equal(t, 50, score.Value)
	assert.False(t, score.IsPerfect)
}

func TestShopping_ScenarioD(t *testing.T) {
	s := testShop(t)
	out := Shopping{}.Evaluate(s, NewCart(s).Answer())
	assert.Equal(t, 100, out.ScoreContribution)
	assert.True(t, out.IsCorrect)

	score := Shopping{}.Complete(s, []Attempt{{Correct: out.IsCorrect, Contribution: out.ScoreContribution, Tier: out.Tier}})
	assert.Equal(t, 100, score.Value)
	assert.True(t, score.IsPerfect)
	assert.Equal(t, TierEmptyCart, score.Tier)
}

func TestShopping_OverBudgetExplains(t *testing.T) {
	out := Shopping{}.Evaluate(testShop(t), CheckoutAnswer{Total: 120})
	assert.Equal(t, 0, out.ScoreContribution)
	assert.Contains(t, out.Explanation, "R$ 20,00")
}

func TestCart_CollidingStoredIDs(t *testing.T) {
	s := content.NormalizeShopping(json.RawMessage(`{"budget":10,"products":[
		{"id":"product-2","name":"A","price":1},
		{"id":"product-2","name":"B","price":2}
	]}`))
	require.Len(t, s.Products, 2)

	cart := NewCart(s)
	cart.Add(s.Products[0].ID)

	assert.Equal(t, 1, cart.Items())
	assert.InDelta(t, 1.0, cart.Total(), 1e-9)
}

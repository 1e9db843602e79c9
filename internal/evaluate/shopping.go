package evaluate

import (
	"fmt"
	"math"

	"github.com/yufin/yufin/internal/content"
)

// epsilon absorbs float error in money arithmetic so that boundary values
// land in the tier they are written for.
const epsilon = 1e-9

// Checkout tier thresholds, as shares of the budget left unspent.
const (
	ThriftyRatio = 0.3
	CarefulRatio = 0.1
)

// Checkout tier names.
const (
	TierOverBudget = "over-budget"
	TierEmptyCart  = "empty-cart"
	TierThrifty    = "thrifty"
	TierCareful    = "careful"
	TierTight      = "tight"
)

// Tier is one row of the checkout tier table.
type Tier struct {
	Name       string
	Score      int
	Acceptable bool
}

// Checkout maps a cart total against the budget to a tier. Rows are tried
// in order; the first that applies wins.
func Checkout(total, budget float64) Tier {
	remaining := budget - total
	switch {
	case total > budget+epsilon:
		return Tier{Name: TierOverBudget, Score: 0, Acceptable: false}
	case math.Abs(total) < epsilon:
		return Tier{Name: TierEmptyCart, Score: 100, Acceptable: true}
	case remaining >= ThriftyRatio*budget-epsilon:
		return Tier{Name: TierThrifty, Score: 90, Acceptable: true}
	case remaining >= CarefulRatio*budget-epsilon:
		return Tier{Name: TierCareful, Score: 75, Acceptable: true}
	default:
		return Tier{Name: TierTight, Score: 50, Acceptable: false}
	}
}

// Explain returns a learner-facing line for a tier.
func (t Tier) Explain(total, budget float64) string {
	remaining := budget - total
	switch t.Name {
	case TierOverBudget:
		return fmt.Sprintf("Over budget by %s.", content.FormatMoney(-remaining))
	case TierEmptyCart:
		return "Nothing bought, the whole budget is saved."
	case TierThrifty:
		return fmt.Sprintf("Great planning: %s left over.", content.FormatMoney(remaining))
	case TierCareful:
		return fmt.Sprintf("Within budget with %s left over.", content.FormatMoney(remaining))
	default:
		return fmt.Sprintf("Within budget, but only %s left over.", content.FormatMoney(remaining))
	}
}

// Shopping evaluates the single checkout of a shopping-cart lesson.
type Shopping struct{}

func (Shopping) Type() content.LessonType { return content.TypeShopping }

func (Shopping) Evaluate(n content.Normalized, a Answer) Outcome {
	s, ok := n.(*content.Shopping)
	if !ok {
		return Outcome{}
	}
	ans, ok := a.(CheckoutAnswer)
	if !ok {
		return Outcome{}
	}
	total := math.Max(ans.Total, 0)
	tier := Checkout(total, s.Budget)
	return Outcome{
		IsCorrect:         tier.Acceptable,
		Explanation:       tier.Explain(total, s.Budget),
		ScoreContribution: tier.Score,
		Tier:              tier.Name,
	}
}

// Complete takes the score of the checkout attempt.
func (Shopping) Complete(n content.Normalized, attempts []Attempt) Score {
	s := Score{Total: n.Len()}
	if len(attempts) == 0 {
		return s
	}
	last := attempts[len(attempts)-1]
	s.Value = last.Contribution
	s.IsPerfect = last.Correct
	s.Tier = last.Tier
	if last.Correct {
		s.Correct = 1
	}
	return s
}

// Entry is one product line in a cart.
type Entry struct {
	Product  content.Product
	Quantity int
}

// Subtotal is the line total at the product's effective price.
func (e Entry) Subtotal() float64 {
	return float64(e.Quantity) * e.Product.UnitPrice()
}

// Cart holds quantities keyed by product id. Products not offered by the
// lesson are ignored.
type Cart struct {
	shop *content.Shopping
	qty  map[string]int
}

// NewCart returns an empty cart for a shopping lesson.
func NewCart(s *content.Shopping) *Cart {
	return &Cart{shop: s, qty: make(map[string]int)}
}

// SetQuantity sets the quantity of a product. A quantity of zero or less
// removes it.
func (c *Cart) SetQuantity(id string, q int) {
	if _, ok := c.shop.Product(id); !ok {
		return
	}
	if q <= 0 {
		delete(c.qty, id)
		return
	}
	c.qty[id] = q
}

// Add puts one more unit of a product in the cart.
func (c *Cart) Add(id string) { c.SetQuantity(id, c.qty[id]+1) }

// Remove takes one unit of a product out of the cart.
func (c *Cart) Remove(id string) { c.SetQuantity(id, c.qty[id]-1) }

// Quantity returns the quantity of a product in the cart.
func (c *Cart) Quantity(id string) int { return c.qty[id] }

// Clear empties the cart.
func (c *Cart) Clear() { clear(c.qty) }

// Entries returns the cart lines in product order.
func (c *Cart) Entries() []Entry {
	var out []Entry
	for _, p := range c.shop.Products {
		if q := c.qty[p.ID]; q > 0 {
			out = append(out, Entry{Product: p, Quantity: q})
		}
	}
	return out
}

// Items returns the number of units in the cart.
func (c *Cart) Items() int {
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

// Total is the sum of all lines at effective prices. It is never negative.
func (c *Cart) Total() float64 {
	var total float64
	for _, e := range c.Entries() {
		total += e.Subtotal()
	}
	return math.Max(total, 0)
}

// Remaining is the budget left after the cart total. It is negative when
// over budget.
func (c *Cart) Remaining() float64 {
	return c.shop.Budget - c.Total()
}

// Answer returns the checkout answer for the current cart.
func (c *Cart) Answer() CheckoutAnswer {
	return CheckoutAnswer{Total: c.Total()}
}

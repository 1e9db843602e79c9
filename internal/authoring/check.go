package authoring

import (
	"fmt"

	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/evaluate"
)

// Check inspects a normalized draft.
type Check interface {
	// Name identifies the check in errors and logs.
	Name() string

	// Check returns nil if the draft passes.
	Check(l content.Lesson) *ValidationError
}

// ValidationError describes why a draft was rejected.
type ValidationError struct {
	Check   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("check %q: %s", e.Check, e.Message)
}

// DefaultChecks returns the checks applied when Config.Checks is nil.
func DefaultChecks() []Check {
	return []Check{currentShape{}, singleCorrect{}, uniquePairs{}, shoppingBudget{}}
}

// Inspect runs checks against l and returns every failure.
func Inspect(l content.Lesson, checks []Check) []*ValidationError {
	var out []*ValidationError
	for _, c := range checks {
		if verr := c.Check(l); verr != nil {
			out = append(out, verr)
		}
	}
	return out
}

// currentShape rejects drafts that only parse as a legacy layout.
type currentShape struct{}

func (currentShape) Name() string { return "current-shape" }

func (c currentShape) Check(l content.Lesson) *ValidationError {
	want := map[content.LessonType]content.Shape{
		content.TypeChoice:   content.ShapeChoiceOptions,
		content.TypeMatch:    content.ShapeMatchPairs,
		content.TypeMath:     content.ShapeMathProblems,
		content.TypeShopping: content.ShapeShoppingProducts,
	}
	got := content.Normalize(l, 0).Shape()
	if w, ok := want[l.LessonType()]; ok && got != w {
		return &ValidationError{Check: c.Name(), Message: fmt.Sprintf("shape %s, want %s", got, w)}
	}
	return nil
}

// singleCorrect requires exactly one correct option per choice item.
type singleCorrect struct{}

func (singleCorrect) Name() string { return "single-correct" }

func (c singleCorrect) Check(l content.Lesson) *ValidationError {
	if l.LessonType() != content.TypeChoice {
		return nil
	}
	ch := content.NormalizeChoice(l.Content, 0)
	for i := range ch.Items {
		item := content.NormalizeChoice(l.Content, i)
		n := 0
		for _, o := range item.Options {
			if o.Correct {
				n++
			}
		}
		if n != 1 {
			return &ValidationError{Check: c.Name(), Message: fmt.Sprintf("item %d has %d correct options", i, n)}
		}
	}
	return nil
}

// uniquePairs requires distinct sides so a match board has one solution.
type uniquePairs struct{}

func (uniquePairs) Name() string { return "unique-pairs" }

func (c uniquePairs) Check(l content.Lesson) *ValidationError {
	if l.LessonType() != content.TypeMatch {
		return nil
	}
	m := content.NormalizeMatch(l.Content)
	lefts, rights := map[string]bool{}, map[string]bool{}
	for _, p := range m.Pairs {
		if lefts[p.Left] || rights[p.Right] {
			return &ValidationError{Check: c.Name(), Message: fmt.Sprintf("duplicate pair side in %q/%q", p.Left, p.Right)}
		}
		lefts[p.Left], rights[p.Right] = true, true
	}
	return nil
}

// shoppingBudget requires a cart that can reach the thrifty tier and a
// full cart that is over budget.
type shoppingBudget struct{}

func (shoppingBudget) Name() string { return "shopping-budget" }

func (c shoppingBudget) Check(l content.Lesson) *ValidationError {
	if l.LessonType() != content.TypeShopping {
		return nil
	}
	s := content.NormalizeShopping(l.Content)

	ids := map[string]bool{}
	cart := evaluate.NewCart(s)
	for _, p := range s.Products {
		if ids[p.ID] {
			return &ValidationError{Check: c.Name(), Message: fmt.Sprintf("duplicate product id %q", p.ID)}
		}
		ids[p.ID] = true
		cart.Add(p.ID)
	}
	if evaluate.Checkout(cart.Total(), s.Budget).Name != evaluate.TierOverBudget {
		return &ValidationError{Check: c.Name(), Message: "buying everything fits the budget"}
	}

	cheapest := s.Products[0]
	for _, p := range s.Products[1:] {
		if p.UnitPrice() < cheapest.UnitPrice() {
			cheapest = p
		}
	}
	cart.Clear()
	cart.Add(cheapest.ID)
	if evaluate.Checkout(cart.Total(), s.Budget).Name != evaluate.TierThrifty {
		return &ValidationError{Check: c.Name(), Message: "no single product leaves 30% of the budget"}
	}
	return nil
}

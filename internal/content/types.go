package content

import (
	"encoding/json"
	"strings"
)

// LessonType selects which normalizer/evaluator pair applies to a lesson.
type LessonType string

const (
	TypeChoice   LessonType = "choice"
	TypeMatch    LessonType = "match"
	TypeMath     LessonType = "math-problem"
	TypeShopping LessonType = "shopping-cart"
	TypeUnknown  LessonType = ""
)

// typeAliases maps type tags found in older lesson documents to canonical types.
var typeAliases = map[string]LessonType{
	"choice":              TypeChoice,
	"multiple-choice":     TypeChoice,
	"quiz":                TypeChoice,
	"match":               TypeMatch,
	"matching":            TypeMatch,
	"memory":              TypeMatch,
	"math-problem":        TypeMath,
	"math-problems":       TypeMath,
	"math":                TypeMath,
	"shopping-cart":       TypeShopping,
	"shopping":            TypeShopping,
	"shopping-simulation": TypeShopping,
}

// ParseType resolves a stored type tag, including legacy aliases.
// Unrecognized tags resolve to TypeUnknown.
func ParseType(tag string) LessonType {
	key := strings.ToLower(strings.TrimSpace(tag))
	key = strings.ReplaceAll(key, "_", "-")
	return typeAliases[key]
}

// AllTypes returns the canonical lesson types in display order.
func AllTypes() []LessonType {
	return []LessonType{TypeChoice, TypeMatch, TypeMath, TypeShopping}
}

// DisplayName returns a human-readable label for the lesson type.
func (t LessonType) DisplayName() string {
	switch t {
	case TypeChoice:
		return "Multiple choice"
	case TypeMatch:
		return "Matching"
	case TypeMath:
		return "Math problems"
	case TypeShopping:
		return "Shopping cart"
	default:
		return "Unknown"
	}
}

// Lesson is one unit of instructional content as stored by the lesson
// collaborator. Content is opaque until normalized.
type Lesson struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// LessonType returns the canonical type of the lesson.
func (l Lesson) LessonType() LessonType {
	return ParseType(l.Type)
}

// Normalized is the canonical in-memory model of a lesson's content at one
// item index. Values are never mutated after construction.
type Normalized interface {
	// Type is the lesson type this model belongs to.
	Type() LessonType

	// Shape is the stored variant the model was derived from.
	Shape() Shape

	// Len is the number of items in the lesson's sequence.
	Len() int

	// Empty reports whether no recognized shape produced usable items.
	Empty() bool
}

// Option is one selectable answer of a choice item.
type Option struct {
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
	Details  string `json:"details,omitempty"`
}

// Choice is the normalized model of a choice lesson at a given index.
type Choice struct {
	Variant    Shape    `json:"shape"`
	Items      int      `json:"items"`
	Index      int      `json:"index"`
	Question   string   `json:"question"`
	Scenario   string   `json:"scenario,omitempty"`
	Options    []Option `json:"options"`
	Comparison []string `json:"comparison,omitempty"`
}

func (c *Choice) Type() LessonType { return TypeChoice }
func (c *Choice) Shape() Shape     { return c.Variant }
func (c *Choice) Len() int         { return c.Items }
func (c *Choice) Empty() bool      { return len(c.Options) == 0 }

// CorrectIndex returns the index of the first correct option, or -1.
func (c *Choice) CorrectIndex() int {
	for i, o := range c.Options {
		if o.Correct {
			return i
		}
	}
	return -1
}

// GameFormat selects how a match lesson is played.
type GameFormat string

const (
	FormatAssociation GameFormat = "association"
	FormatMemory      GameFormat = "memory"
)

// Pair is one left/right association of a match lesson.
type Pair struct {
	Left        string `json:"left"`
	Right       string `json:"right"`
	Explanation string `json:"explanation"`
}

// Match is the normalized model of a match lesson.
type Match struct {
	Variant      Shape      `json:"shape"`
	Format       GameFormat `json:"gameFormat"`
	Instructions string     `json:"instructions,omitempty"`
	Pairs        []Pair     `json:"pairs"`
}

func (m *Match) Type() LessonType { return TypeMatch }
func (m *Match) Shape() Shape     { return m.Variant }
func (m *Match) Empty() bool      { return len(m.Pairs) == 0 }

// Len is always 1 for a non-empty match: the whole board is one item.
func (m *Match) Len() int {
	if m.Empty() {
		return 0
	}
	return 1
}

// DefaultTolerance applies when a stored problem has no tolerance.
const DefaultTolerance = 0.01

// Problem is one math word problem.
type Problem struct {
	Question    string         `json:"question"`
	Answer      float64        `json:"answer"`
	Tolerance   float64        `json:"tolerance"`
	Explanation string         `json:"explanation"`
	Hint        string         `json:"hint,omitempty"`
	GivenData   map[string]any `json:"givenData,omitempty"`
}

// Math is the normalized model of a math-problem lesson at a given index.
type Math struct {
	Variant  Shape     `json:"shape"`
	Index    int       `json:"index"`
	Problems []Problem `json:"problems"`
}

func (m *Math) Type() LessonType { return TypeMath }
func (m *Math) Shape() Shape     { return m.Variant }
func (m *Math) Len() int         { return len(m.Problems) }
func (m *Math) Empty() bool      { return len(m.Problems) == 0 }

// Current returns the problem at Index, or nil when out of range.
func (m *Math) Current() *Problem {
	if m.Index < 0 || m.Index >= len(m.Problems) {
		return nil
	}
	return &m.Problems[m.Index]
}

// Product is an item offered in a shopping-cart lesson.
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PromotionPrice float64 `json:"promotionPrice,omitempty"`
	Category       string  `json:"category"`
	Unit           string  `json:"unit,omitempty"`
}

// OnPromotion reports whether the promotion price applies.
func (p Product) OnPromotion() bool {
	return p.PromotionPrice > 0 && p.PromotionPrice < p.Price
}

// UnitPrice is the price charged per unit.
func (p Product) UnitPrice() float64 {
	if p.OnPromotion() {
		return p.PromotionPrice
	}
	return p.Price
}

// Shopping is the normalized model of a shopping-cart lesson.
type Shopping struct {
	Variant  Shape     `json:"shape"`
	Budget   float64   `json:"budget"`
	Scenario string    `json:"scenario,omitempty"`
	Products []Product `json:"products"`
}

func (s *Shopping) Type() LessonType { return TypeShopping }
func (s *Shopping) Shape() Shape     { return s.Variant }
func (s *Shopping) Empty() bool      { return s.Budget <= 0 || len(s.Products) == 0 }

// Len is always 1 for a non-empty cart: checkout is the single item.
func (s *Shopping) Len() int {
	if s.Empty() {
		return 0
	}
	return 1
}

// Product returns the product with the given id.
func (s *Shopping) Product(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Categories returns product categories in first-seen order.
func (s *Shopping) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Unavailable is the sentinel for a lesson whose type has no normalizer.
type Unavailable struct{}

func (Unavailable) Type() LessonType { return TypeUnknown }
func (Unavailable) Shape() Shape     { return ShapeEmpty }
func (Unavailable) Len() int         { return 0 }
func (Unavailable) Empty() bool      { return true }

package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Shape identifies one historically stored layout of a lesson's content.
type Shape string

const (
	ShapeEmpty Shape = "empty"

	ShapeChoiceDetailed   Shape = "choice/detailed"
	ShapeChoiceSituations Shape = "choice/situations"
	ShapeChoiceOptions    Shape = "choice/options"
	ShapeChoiceChoices    Shape = "choice/choices"

	ShapeMatchPairs Shape = "match/pairs"
	ShapeMatchItems Shape = "match/items"

	ShapeMathProblems Shape = "math/problems"
	ShapeMathSingle   Shape = "math/single"

	ShapeShoppingProducts Shape = "shopping/products"
	ShapeShoppingItems    Shape = "shopping/items"
)

// shapeRule pairs a shape with the JSON Schema a document must satisfy to be
// recognized as that shape.
type shapeRule struct {
	shape  Shape
	schema map[string]any
}

func requireArrays(fields ...string) map[string]any {
	props := make(map[string]any, len(fields))
	req := make([]any, len(fields))
	for i, f := range fields {
		props[f] = map[string]any{"type": "array"}
		req[i] = f
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   req,
	}
}

// shapeRules lists detection rules per lesson type, newest shape first.
// Detection stops at the first rule whose schema validates.
var shapeRules = map[LessonType][]shapeRule{
	TypeChoice: {
		{ShapeChoiceDetailed, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scenario":   map[string]any{"type": []any{"string", "object"}},
				"options":    map[string]any{"type": "array"},
				"comparison": map[string]any{"type": []any{"array", "object", "string"}},
			},
			"required": []any{"scenario", "options", "comparison"},
		}},
		{ShapeChoiceSituations, requireArrays("situations")},
		{ShapeChoiceOptions, requireArrays("options")},
		{ShapeChoiceChoices, requireArrays("choices")},
	},
	TypeMatch: {
		{ShapeMatchPairs, requireArrays("pairs")},
		{ShapeMatchItems, requireArrays("items")},
	},
	TypeMath: {
		{ShapeMathProblems, requireArrays("problems")},
		{ShapeMathSingle, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": []any{"number", "string"}},
			},
			"required": []any{"question", "answer"},
		}},
	},
	TypeShopping: {
		{ShapeShoppingProducts, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"budget":   map[string]any{"type": []any{"number", "string"}},
				"products": map[string]any{"type": "array"},
			},
			"required": []any{"budget", "products"},
		}},
		{ShapeShoppingItems, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"budget": map[string]any{"type": []any{"number", "string"}},
				"items":  map[string]any{"type": "array"},
			},
			"required": []any{"budget", "items"},
		}},
	},
}

type compiledRule struct {
	shape  Shape
	schema *jsonschema.Schema
}

var (
	compileOnce   sync.Once
	compiledRules map[LessonType][]compiledRule
)

func rulesFor(t LessonType) []compiledRule {
	compileOnce.Do(func() {
		compiledRules = make(map[LessonType][]compiledRule, len(shapeRules))
		for lt, rules := range shapeRules {
			for _, r := range rules {
				compiledRules[lt] = append(compiledRules[lt], compiledRule{
					shape:  r.shape,
					schema: mustCompile(r.shape, r.schema),
				})
			}
		}
	})
	return compiledRules[t]
}

func mustCompile(shape Shape, def map[string]any) *jsonschema.Schema {
	// The compiler wants a plain decoded JSON value.
	b, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("marshal schema %s: %v", shape, err))
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		panic(fmt.Sprintf("parse schema %s: %v", shape, err))
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("shape://%s.json", shape)
	if err := c.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", shape, err))
	}
	s, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", shape, err))
	}
	return s
}

// decodeDocument decodes raw content into a generic JSON value. Content that
// was stored double-encoded (a JSON string holding a JSON object) is unwrapped.
func decodeDocument(raw json.RawMessage) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	if s, ok := doc.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, false
		}
		doc = inner
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, false
	}
	return doc, true
}

// Detect returns the first shape whose rule matches the content, or
// ShapeEmpty. It is total: every input maps to exactly one shape.
func Detect(t LessonType, raw json.RawMessage) Shape {
	doc, ok := decodeDocument(raw)
	if !ok {
		return ShapeEmpty
	}
	return detectDocument(t, doc)
}

func detectDocument(t LessonType, doc any) Shape {
	for _, r := range rulesFor(t) {
		if r.schema.Validate(doc) == nil {
			return r.shape
		}
	}
	return ShapeEmpty
}

// Shapes returns the recognized shapes of a lesson type in priority order.
func Shapes(t LessonType) []Shape {
	rules := shapeRules[t]
	out := make([]Shape, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.shape)
	}
	return append(out, ShapeEmpty)
}

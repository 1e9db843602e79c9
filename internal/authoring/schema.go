package authoring

import (
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/llm"
)

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func num(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func object(props map[string]any) map[string]any {
	req := make([]any, 0, len(props))
	for k := range props {
		req = append(req, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             req,
		"additionalProperties": false,
	}
}

func array(items map[string]any, minItems int) map[string]any {
	return map[string]any{"type": "array", "items": items, "minItems": minItems}
}

// draftSchema wraps a content definition with the lesson title.
func draftSchema(name, desc string, contentDef map[string]any) *llm.Schema {
	return &llm.Schema{
		Name:        name,
		Description: desc,
		Definition: object(map[string]any{
			"title":   str("Short lesson title (3-8 words)"),
			"content": contentDef,
		}),
	}
}

var choiceSchema = draftSchema("choice-lesson", "Multiple choice financial literacy lesson",
	object(map[string]any{
		"question": str("The question the learner answers"),
		"scenario": str("One or two sentences of everyday context"),
		"options": array(object(map[string]any{
			"text":     str("Option text"),
			"correct":  map[string]any{"type": "boolean"},
			"feedback": str("Why this option is or is not the best choice"),
		}), 3),
	}))

var matchSchema = draftSchema("match-lesson", "Concept matching lesson",
	object(map[string]any{
		"instructions": str("One sentence telling the learner what to match"),
		"gameFormat":   map[string]any{"type": "string", "enum": []any{"association", "memory"}},
		"pairs": array(object(map[string]any{
			"left":        str("Term"),
			"right":       str("Definition or example of the term"),
			"explanation": str("Short explanation shown after matching"),
		}), 3),
	}))

var mathSchema = draftSchema("math-lesson", "Money arithmetic problems",
	object(map[string]any{
		"problems": array(object(map[string]any{
			"question":    str("Word problem about money"),
			"answer":      num("Numeric answer"),
			"tolerance":   num("Accepted absolute error, usually 0.01"),
			"explanation": str("Worked solution"),
			"hint":        str("A nudge that does not give the answer away"),
		}), 1),
	}))

var shoppingSchema = draftSchema("shopping-lesson", "Shopping on a budget",
	object(map[string]any{
		"scenario": str("What the learner is shopping for"),
		"budget":   num("Budget in reais"),
		"products": array(object(map[string]any{
			"id":             str("Unique product id, kebab-case"),
			"name":           str("Product name"),
			"price":          num("Regular price in reais"),
			"promotionPrice": num("Promotional price in reais, or 0 when not on sale"),
			"category":       str("Product category"),
			"unit":           str("Unit or package size"),
		}), 4),
	}))

// SchemaFor returns the draft schema for a lesson type.
func SchemaFor(t content.LessonType) (*llm.Schema, bool) {
	switch t {
	case content.TypeChoice:
		return choiceSchema, true
	case content.TypeMatch:
		return matchSchema, true
	case content.TypeMath:
		return mathSchema, true
	case content.TypeShopping:
		return shoppingSchema, true
	default:
		return nil, false
	}
}

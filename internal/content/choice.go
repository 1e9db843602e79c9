package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// goodQualities are the consequence qualities counted as a correct choice.
var goodQualities = map[string]bool{
	"excelente": true,
	"boa":       true,
}

// rawOption covers every option layout seen in stored choice lessons.
type rawOption struct {
	Text        text   `json:"text"`
	Label       text   `json:"label"`
	Name        text   `json:"name"`
	Correct     flag   `json:"correct"`
	IsCorrect   flag   `json:"isCorrect"`
	IsBest      flag   `json:"isBest"`
	Feedback    text   `json:"feedback"`
	Explanation text   `json:"explanation"`
	Details     text   `json:"details"`
	Brand       *text  `json:"brand"`
	Price       number `json:"price"`
	Quantity    text   `json:"quantity"`
	Choice      *text  `json:"choice"`
	Consequence text   `json:"consequence"`
	Quality     text   `json:"quality"`
}

// UnmarshalJSON accepts a bare string as an option with only text.
func (o *rawOption) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = rawOption{Text: text(s)}
		return nil
	}
	type plain rawOption
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return nil
	}
	*o = rawOption(p)
	return nil
}

// ChoiceDetailed is the analysis layout: a scenario, its options, and a
// comparison block.
type ChoiceDetailed struct {
	Question   text        `json:"question"`
	Scenario   text        `json:"scenario"`
	Options    []rawOption `json:"options"`
	Comparison lines       `json:"comparison"`
}

// ChoiceSituations is the multi-situation layout indexed by item.
type ChoiceSituations struct {
	Situations []rawSituation `json:"situations"`
}

type rawSituation struct {
	Title       text        `json:"title"`
	Description text        `json:"description"`
	Scenario    text        `json:"scenario"`
	Question    text        `json:"question"`
	Options     []rawOption `json:"options"`
}

// ChoiceOptions is the generic options layout.
type ChoiceOptions struct {
	Question text        `json:"question"`
	Scenario text        `json:"scenario"`
	Options  []rawOption `json:"options"`
}

// ChoiceChoices is the oldest layout, with renamed option fields.
type ChoiceChoices struct {
	Question text        `json:"question"`
	Scenario text        `json:"scenario"`
	Choices  []rawOption `json:"choices"`
}

// optionKind is the sub-shape of situation options, decided by field presence.
type optionKind int

const (
	optionGeneric optionKind = iota
	optionPriceComparison
	optionConsequence
)

func kindOf(opts []rawOption) optionKind {
	if len(opts) == 0 {
		return optionGeneric
	}
	switch {
	case opts[0].Brand != nil:
		return optionPriceComparison
	case opts[0].Choice != nil:
		return optionConsequence
	default:
		return optionGeneric
	}
}

func genericOption(o rawOption) Option {
	return Option{
		Text:     firstNonEmpty(o.Text, o.Label, o.Name),
		Correct:  bool(o.Correct || o.IsCorrect),
		Feedback: firstNonEmpty(o.Feedback, o.Explanation),
		Details:  firstNonEmpty(o.Details),
	}
}

func priceOption(o rawOption) Option {
	var b strings.Builder
	if o.Brand != nil {
		b.WriteString(strings.TrimSpace(string(*o.Brand)))
	}
	if o.Price.Valid {
		fmt.Fprintf(&b, " - %s", FormatMoney(o.Price.Value))
	}
	if q := strings.TrimSpace(string(o.Quantity)); q != "" {
		fmt.Fprintf(&b, " (%s)", q)
	}
	return Option{
		Text:     strings.TrimSpace(b.String()),
		Correct:  bool(o.Correct || o.IsBest),
		Feedback: firstNonEmpty(o.Feedback, o.Explanation),
		Details:  firstNonEmpty(o.Details),
	}
}

func consequenceOption(o rawOption) Option {
	quality := strings.ToLower(strings.TrimSpace(string(o.Quality)))
	var choice string
	if o.Choice != nil {
		choice = strings.TrimSpace(string(*o.Choice))
	}
	return Option{
		Text:     choice,
		Correct:  goodQualities[quality],
		Feedback: firstNonEmpty(o.Consequence, o.Feedback),
		Details:  quality,
	}
}

func convertOptions(opts []rawOption, kind optionKind) []Option {
	if len(opts) == 0 {
		return nil
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		switch kind {
		case optionPriceComparison:
			out[i] = priceOption(o)
		case optionConsequence:
			out[i] = consequenceOption(o)
		default:
			out[i] = genericOption(o)
		}
	}
	return out
}

// emptyChoice is the choice sentinel: no options and an empty question.
func emptyChoice(index int) *Choice {
	return &Choice{Variant: ShapeEmpty, Index: index}
}

// NormalizeChoice maps any stored choice layout to the canonical model for the
// item at index.
func NormalizeChoice(raw json.RawMessage, index int) *Choice {
	doc, ok := decodeDocument(raw)
	if !ok {
		return emptyChoice(index)
	}

	var c *Choice
	switch shape := detectDocument(TypeChoice, doc); shape {
	case ShapeChoiceDetailed:
		var d ChoiceDetailed
		if remarshal(doc, &d) && index == 0 {
			c = &Choice{
				Variant:    shape,
				Items:      1,
				Question:   firstNonEmpty(d.Question),
				Scenario:   firstNonEmpty(d.Scenario),
				Options:    convertOptions(d.Options, optionGeneric),
				Comparison: []string(d.Comparison),
			}
		}
	case ShapeChoiceSituations:
		var s ChoiceSituations
		if !remarshal(doc, &s) {
			break
		}
		// Situations without a usable option are not items.
		var playable []rawSituation
		for _, sit := range s.Situations {
			if len(convertOptions(sit.Options, kindOf(sit.Options))) > 0 {
				playable = append(playable, sit)
			}
		}
		if index >= 0 && index < len(playable) {
			sit := playable[index]
			c = &Choice{
				Variant:  shape,
				Items:    len(playable),
				Index:    index,
				Question: firstNonEmpty(sit.Question, sit.Title),
				Scenario: firstNonEmpty(sit.Description, sit.Scenario),
				Options:  convertOptions(sit.Options, kindOf(sit.Options)),
			}
		}
	case ShapeChoiceOptions:
		var o ChoiceOptions
		if remarshal(doc, &o) && index == 0 {
			c = &Choice{
				Variant:  shape,
				Items:    1,
				Question: firstNonEmpty(o.Question),
				Scenario: firstNonEmpty(o.Scenario),
				Options:  convertOptions(o.Options, optionGeneric),
			}
		}
	case ShapeChoiceChoices:
		var o ChoiceChoices
		if remarshal(doc, &o) && index == 0 {
			c = &Choice{
				Variant:  shape,
				Items:    1,
				Question: firstNonEmpty(o.Question),
				Scenario: firstNonEmpty(o.Scenario),
				Options:  convertOptions(o.Choices, optionGeneric),
			}
		}
	}

	if c == nil || len(c.Options) == 0 {
		return emptyChoice(index)
	}
	return c
}

// FormatMoney renders an amount in reais with a decimal comma.
func FormatMoney(v float64) string {
	cents := int64(math.Round(v * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, cents/100, cents%100)
}

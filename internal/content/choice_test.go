package content

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDetect_ChoicePriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Shape
	}{
		{
			"detailed wins over options",
			`{"scenario":"s","options":[{"text":"a"}],"comparison":["x"]}`,
			ShapeChoiceDetailed,
		},
		{
			"situations wins over options",
			`{"situations":[{"options":[{"text":"a"}]}],"options":[{"text":"b"}]}`,
			ShapeChoiceSituations,
		},
		{
			"options without comparison",
			`{"scenario":"s","options":[{"text":"a"}]}`,
			ShapeChoiceOptions,
		},
		{
			"options wins over choices",
			`{"options":[{"text":"a"}],"choices":[{"text":"b"}]}`,
			ShapeChoiceOptions,
		},
		{"choices", `{"choices":[{"text":"a"}]}`, ShapeChoiceChoices},
		{"unknown object", `{"foo":1}`, ShapeEmpty},
		{"not an object", `[1,2,3]`, ShapeEmpty},
		{"invalid json", `{`, ShapeEmpty},
		{"empty", ``, ShapeEmpty},
		{"options not an array", `{"options":"a,b"}`, ShapeEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(TypeChoice, json.RawMessage(tc.raw))
			if got != tc.want {
				t.Errorf("Detect = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetect_DoubleEncodedContent(t *testing.T) {
	inner := `{"choices":[{"text":"a","correct":true}]}`
	raw, _ := json.Marshal(inner)

	if got := Detect(TypeChoice, raw); got != ShapeChoiceChoices {
		t.Errorf("Detect = %q, want %q", got, ShapeChoiceChoices)
	}
}

func TestNormalizeChoice_Detailed(t *testing.T) {
	raw := json.RawMessage(`{
		"scenario": {"description": "Ana recebeu R$ 100."},
		"question": "O que ela deve fazer?",
		"options": [
			{"text": "Gastar tudo", "correct": false, "feedback": "Nada sobra."},
			{"text": "Guardar metade", "correct": true, "feedback": "Equilibrado.", "details": "50/50"},
			{"text": "Emprestar", "correct": false}
		],
		"comparison": {"gastar": "0 guardado", "guardar": "50 guardado"}
	}`)

	c := NormalizeChoice(raw, 0)
	if c.Shape() != ShapeChoiceDetailed {
		t.Fatalf("shape = %q", c.Shape())
	}
	if len(c.Options) != 3 {
		t.Fatalf("len(options) = %d, want 3", len(c.Options))
	}
	if c.Scenario != "Ana recebeu R$ 100." {
		t.Errorf("scenario = %q", c.Scenario)
	}
	if c.CorrectIndex() != 1 {
		t.Errorf("correct index = %d, want 1", c.CorrectIndex())
	}
	if c.Options[1].Details != "50/50" {
		t.Errorf("details = %q", c.Options[1].Details)
	}
	if c.Options[2].Feedback != "" {
		t.Errorf("missing feedback should be empty, got %q", c.Options[2].Feedback)
	}
	wantCmp := []string{"gastar: 0 guardado", "guardar: 50 guardado"}
	if !reflect.DeepEqual(c.Comparison, wantCmp) {
		t.Errorf("comparison = %v, want %v", c.Comparison, wantCmp)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestNormalizeChoice_SituationsPriceComparison(t *testing.T) {
	raw := json.RawMessage(`{"situations":[
		{"description":"Mercado","question":"Qual compensa mais?","options":[
			{"brand":"Marca A","price":4.5,"quantity":"500g","correct":true,"feedback":"Menor preço por kg."},
			{"brand":"Marca B","price":"3,20"}
		]},
		{"question":"Segunda","options":[{"text":"x","correct":true}]}
	]}`)

	c := NormalizeChoice(raw, 0)
	if c.Shape() != ShapeChoiceSituations {
		t.Fatalf("shape = %q", c.Shape())
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if got, want := c.Options[0].Text, "Marca A - R$ 4,50 (500g)"; got != want {
		t.Errorf("option 0 text = %q, want %q", got, want)
	}
	if got, want := c.Options[1].Text, "Marca B - R$ 3,20"; got != want {
		t.Errorf("option 1 text = %q, want %q (no quantity suffix)", got, want)
	}
	if !c.Options[0].Correct || c.Options[1].Correct {
		t.Errorf("unexpected correctness: %+v", c.Options)
	}

	second := NormalizeChoice(raw, 1)
	if second.Question != "Segunda" || second.Index != 1 {
		t.Errorf("second situation = %+v", second)
	}

	past := NormalizeChoice(raw, 2)
	if !past.Empty() {
		t.Errorf("index past the end should be empty, got %+v", past)
	}
}

func TestNormalizeChoice_SituationsConsequenceQuality(t *testing.T) {
	raw := json.RawMessage(`{"situations":[{"question":"Recebeu o salário","options":[
		{"choice":"Pagar contas primeiro","consequence":"Fica tranquilo","quality":"Excelente"},
		{"choice":"Guardar um pouco","consequence":"Bom hábito","quality":"boa"},
		{"choice":"Comprar um celular","consequence":"Contas atrasam","quality":"ruim"}
	]}]}`)

	c := NormalizeChoice(raw, 0)
	want := []bool{true, true, false}
	for i, o := range c.Options {
		if o.Correct != want[i] {
			t.Errorf("option %d correct = %v, want %v", i, o.Correct, want[i])
		}
	}
	if c.Options[2].Feedback != "Contas atrasam" {
		t.Errorf("feedback = %q", c.Options[2].Feedback)
	}
	if c.Options[0].Text != "Pagar contas primeiro" {
		t.Errorf("text = %q", c.Options[0].Text)
	}
}

func TestNormalizeChoice_LegacyChoices(t *testing.T) {
	raw := json.RawMessage(`{"question":"Poupança é...","choices":[
		{"label":"Guardar dinheiro","isCorrect":"true","explanation":"Isso!"},
		{"text":"Gastar dinheiro","correct":false,"feedback":"Não."}
	]}`)

	c := NormalizeChoice(raw, 0)
	if c.Shape() != ShapeChoiceChoices {
		t.Fatalf("shape = %q", c.Shape())
	}
	if c.Options[0].Text != "Guardar dinheiro" || !c.Options[0].Correct || c.Options[0].Feedback != "Isso!" {
		t.Errorf("renamed fields not mapped: %+v", c.Options[0])
	}
	if c.Options[1].Correct {
		t.Error("option 1 should be incorrect")
	}
}

func TestNormalizeChoice_ZeroOptionsIsEmpty(t *testing.T) {
	for _, raw := range []string{
		`{"question":"Q","options":[]}`,
		`{"situations":[]}`,
		`{"scenario":"s","options":[],"comparison":[]}`,
		`{"question":"Q"}`,
	} {
		c := NormalizeChoice(json.RawMessage(raw), 0)
		if !c.Empty() || c.Question != "" || c.Len() != 0 {
			t.Errorf("%s: expected empty sentinel, got %+v", raw, c)
		}
	}
}

func TestNormalizeChoice_StringOptions(t *testing.T) {
	c := NormalizeChoice(json.RawMessage(`{"question":"Q","options":["a","b"]}`), 0)
	if len(c.Options) != 2 || c.Options[1].Text != "b" {
		t.Errorf("options = %+v", c.Options)
	}
}

func TestNormalizeChoice_Idempotent(t *testing.T) {
	raw := json.RawMessage(`{"situations":[{"question":"Q","options":[{"brand":"A","price":1},{"brand":"B","price":2,"isBest":true}]}]}`)
	a := NormalizeChoice(raw, 0)
	b := NormalizeChoice(raw, 0)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("normalization not idempotent:\n%+v\n%+v", a, b)
	}
	if a == b {
		t.Error("expected a fresh value on every call")
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{4.5, "R$ 4,50"},
		{1234.567, "R$ 1234,57"},
		{-2.1, "-R$ 2,10"},
	}
	for _, tc := range tests {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeChoice_SituationWithoutOptionsIsSkipped(t *testing.T) {
	raw := json.RawMessage(`{"situations":[
		{"question":"Primeira","options":[{"text":"a","correct":true},{"text":"b"}]},
		{"question":"Quebrada","options":[]},
		{"question":"Terceira","options":[{"text":"c"},{"text":"d","correct":true}]}
	]}`)

	first := NormalizeChoice(raw, 0)
	if first.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (situation without options is not an item)", first.Len())
	}

	second := NormalizeChoice(raw, 1)
	if second.Empty() || second.Question != "Terceira" {
		t.Errorf("index 1 = %+v, want the third stored situation", second)
	}
	if second.Len() != 2 || second.Index != 1 {
		t.Errorf("Len=%d Index=%d, want 2/1", second.Len(), second.Index)
	}

	if past := NormalizeChoice(raw, 2); !past.Empty() {
		t.Errorf("index 2 should be empty, got %+v", past)
	}
}

package content

import (
	"encoding/json"
	"testing"
)

func TestNormalizeMath_Problems(t *testing.T) {
	raw := json.RawMessage(`{"problems":[
		{"question":"Quanto é 10% de 50?","answer":5,"explanation":"50 x 0,1"},
		{"statement":"Troco de R$ 10 para R$ 7,70","answer":"2,30","tolerance":0.05,"solution":"10 - 7,70"},
		{"question":"Sem resposta"},
		{"question":"Negativa","answer":1,"tolerance":-3}
	]}`)

	m := NormalizeMath(raw, 1)
	if m.Shape() != ShapeMathProblems {
		t.Fatalf("shape = %q", m.Shape())
	}
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (problem without answer skipped)", m.Len())
	}
	if m.Problems[0].Tolerance != DefaultTolerance {
		t.Errorf("default tolerance = %v, want %v", m.Problems[0].Tolerance, DefaultTolerance)
	}

	cur := m.Current()
	if cur == nil {
		t.Fatal("Current returned nil")
	}
	if cur.Answer != 2.3 || cur.Tolerance != 0.05 {
		t.Errorf("current = %+v", cur)
	}
	if cur.Question != "Troco de R$ 10 para R$ 7,70" || cur.Explanation != "10 - 7,70" {
		t.Errorf("renamed fields not mapped: %+v", cur)
	}
	if m.Problems[2].Tolerance != 0 {
		t.Errorf("negative tolerance = %v, want clamped to 0", m.Problems[2].Tolerance)
	}
}

func TestNormalizeMath_Single(t *testing.T) {
	m := NormalizeMath(json.RawMessage(`{"question":"2+2?","answer":"4"}`), 0)
	if m.Shape() != ShapeMathSingle || m.Len() != 1 {
		t.Fatalf("got shape %q len %d", m.Shape(), m.Len())
	}
	if m.Current().Answer != 4 {
		t.Errorf("answer = %v", m.Current().Answer)
	}
}

func TestNormalizeMath_Empty(t *testing.T) {
	for _, raw := range []string{`{"problems":[]}`, `{"problems":[{"hint":"x"}]}`, `{"answer":3}`} {
		m := NormalizeMath(json.RawMessage(raw), 0)
		if !m.Empty() || m.Current() != nil {
			t.Errorf("%s: expected empty, got %+v", raw, m)
		}
	}
}

func TestNormalizeMath_IndexOutOfRange(t *testing.T) {
	m := NormalizeMath(json.RawMessage(`{"problems":[{"question":"q","answer":1}]}`), 5)
	if m.Current() != nil {
		t.Error("Current should be nil past the end")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

package content

import (
	"encoding/json"
	"strings"
)

type rawProblem struct {
	Question    text           `json:"question"`
	Statement   text           `json:"statement"`
	Answer      number         `json:"answer"`
	Tolerance   *number        `json:"tolerance"`
	Explanation text           `json:"explanation"`
	Solution    text           `json:"solution"`
	Hint        text           `json:"hint"`
	GivenData   map[string]any `json:"givenData"`
}

// MathProblems is the current problem-list layout.
type MathProblems struct {
	Problems []rawProblem `json:"problems"`
}

// MathSingle is the legacy layout with one problem at the top level.
type MathSingle rawProblem

func (p rawProblem) problem() (Problem, bool) {
	q := firstNonEmpty(p.Question, p.Statement)
	if q == "" || !p.Answer.Valid {
		return Problem{}, false
	}
	tol := DefaultTolerance
	if p.Tolerance != nil && p.Tolerance.Valid {
		tol = p.Tolerance.Value
	}
	if tol < 0 {
		tol = 0
	}
	return Problem{
		Question:    q,
		Answer:      p.Answer.Value,
		Tolerance:   tol,
		Explanation: firstNonEmpty(p.Explanation, p.Solution),
		Hint:        strings.TrimSpace(string(p.Hint)),
		GivenData:   p.GivenData,
	}, true
}

// NormalizeMath maps any stored math-problem layout to the canonical problem
// list. Problems without a question or a numeric answer are not genuine items
// and are skipped.
func NormalizeMath(raw json.RawMessage, index int) *Math {
	empty := &Math{Variant: ShapeEmpty, Index: index}

	doc, ok := decodeDocument(raw)
	if !ok {
		return empty
	}

	var rawProblems []rawProblem
	shape := detectDocument(TypeMath, doc)
	switch shape {
	case ShapeMathProblems:
		var mp MathProblems
		if !remarshal(doc, &mp) {
			return empty
		}
		rawProblems = mp.Problems
	case ShapeMathSingle:
		var single MathSingle
		if !remarshal(doc, &single) {
			return empty
		}
		rawProblems = []rawProblem{rawProblem(single)}
	default:
		return empty
	}

	m := &Math{Variant: shape, Index: index}
	for _, rp := range rawProblems {
		if p, ok := rp.problem(); ok {
			m.Problems = append(m.Problems, p)
		}
	}
	if len(m.Problems) == 0 {
		return empty
	}
	return m
}

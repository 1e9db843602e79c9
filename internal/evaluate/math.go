package evaluate

import (
	"math"

	"github.com/yufin/yufin/internal/content"
)

// Math evaluates numeric word problems within the problem's tolerance.
type Math struct{}

func (Math) Type() content.LessonType { return content.TypeMath }

func (Math) Evaluate(n content.Normalized, a Answer) Outcome {
	m, ok := n.(*content.Math)
	if !ok {
		return Outcome{}
	}
	p := m.Current()
	if p == nil {
		return Outcome{}
	}
	ans, ok := a.(NumericAnswer)
	if !ok {
		return Outcome{Explanation: p.Explanation}
	}

	correct := CheckNumeric(ans.Input, p.Answer, p.Tolerance)
	out := Outcome{IsCorrect: correct, Explanation: p.Explanation}
	if correct {
		out.ScoreContribution = PerfectScore
	}
	return out
}

// Complete scores the share of problems answered correctly.
func (Math) Complete(n content.Normalized, attempts []Attempt) Score {
	total := n.Len()
	correct := countCorrect(attempts)
	s := Score{Correct: correct, Total: total}
	if total > 0 {
		s.Value = int(math.Round(float64(PerfectScore) * float64(correct) / float64(total)))
		s.IsPerfect = correct == total
	}
	return s
}

// CheckNumeric reports whether input, read with either decimal separator,
// lies within tolerance of answer. Unparseable input is incorrect.
func CheckNumeric(input string, answer, tolerance float64) bool {
	v, ok := content.ParseDecimal(input)
	if !ok {
		return false
	}
	if tolerance < 0 {
		tolerance = 0
	}
	return math.Abs(v-answer) <= tolerance
}

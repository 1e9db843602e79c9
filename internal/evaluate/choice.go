package evaluate

import "github.com/yufin/yufin/internal/content"

// Choice evaluates multiple-choice items. Correctness was fixed when the
// content was normalized; evaluation only reads the selected option.
type Choice struct{}

func (Choice) Type() content.LessonType { return content.TypeChoice }

func (Choice) Evaluate(n content.Normalized, a Answer) Outcome {
	c, ok := n.(*content.Choice)
	if !ok {
		return Outcome{}
	}
	ans, ok := a.(ChoiceAnswer)
	if !ok || ans.Index < 0 || ans.Index >= len(c.Options) {
		return Outcome{}
	}

	opt := c.Options[ans.Index]
	out := Outcome{IsCorrect: opt.Correct, Explanation: opt.Feedback}
	if opt.Correct {
		out.ScoreContribution = PerfectScore
	}
	return out
}

// Complete is binary: every item right on the first try scores 100,
// anything else scores PartialScore.
func (Choice) Complete(n content.Normalized, attempts []Attempt) Score {
	return binary(countCorrect(attempts), n.Len())
}

// Package evaluate decides correctness and scores for each lesson type.
//
// Every lesson type has one Evaluator. Evaluators never fail: input that
// cannot be decided is rejected before it reaches them, and input that does
// not fit the item is simply incorrect.
package evaluate

import (
	"time"

	"github.com/yufin/yufin/internal/content"
)

// Answer is a learner's submission for one item. The concrete types are
// ChoiceAnswer, NumericAnswer, MatchAnswer and CheckoutAnswer.
type Answer interface {
	answer()
}

// ChoiceAnswer selects an option by position.
type ChoiceAnswer struct {
	Index int
}

// NumericAnswer is free-text numeric input as typed by the learner.
type NumericAnswer struct {
	Input string
}

// MatchAnswer reports a finished match board.
type MatchAnswer struct {
	Mistakes int
}

// CheckoutAnswer submits the cart total at checkout.
type CheckoutAnswer struct {
	Total float64
}

func (ChoiceAnswer) answer()   {}
func (NumericAnswer) answer()  {}
func (MatchAnswer) answer()    {}
func (CheckoutAnswer) answer() {}

// Outcome is the result of evaluating one answer.
type Outcome struct {
	IsCorrect         bool   `json:"isCorrect"`
	Explanation       string `json:"explanation"`
	ScoreContribution int    `json:"scoreContribution"`

	// Tier names the checkout tier for shopping-cart answers.
	Tier string `json:"tier,omitempty"`
}

// Attempt records the answer given for one item.
type Attempt struct {
	Index        int           `json:"index"`
	Input        string        `json:"input"`
	Correct      bool          `json:"correct"`
	Contribution int           `json:"contribution"`
	Tier         string        `json:"tier,omitempty"`
	At           time.Duration `json:"at"`
}

// Score is the aggregate of a finished attempt.
type Score struct {
	Value     int    `json:"score"`
	IsPerfect bool   `json:"isPerfect"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Tier      string `json:"tier,omitempty"`
}

// Evaluator decides correctness for one lesson type.
type Evaluator interface {
	// Type is the lesson type handled.
	Type() content.LessonType

	// Evaluate checks one answer against the item the model is positioned on.
	Evaluate(n content.Normalized, a Answer) Outcome

	// Complete aggregates the attempts of a finished lesson into a score.
	Complete(n content.Normalized, attempts []Attempt) Score
}

// PartialScore is awarded for choice and match lessons that were finished
// with at least one mistake.
const PartialScore = 50

// PerfectScore is the maximum score.
const PerfectScore = 100

var registry = map[content.LessonType]Evaluator{
	content.TypeChoice:   Choice{},
	content.TypeMatch:    Match{},
	content.TypeMath:     Math{},
	content.TypeShopping: Shopping{},
}

// For returns the evaluator for a lesson type.
func For(t content.LessonType) (Evaluator, bool) {
	e, ok := registry[t]
	return e, ok
}

// binary scores lessons that are all-or-partial.
func binary(correct, total int) Score {
	s := Score{Correct: correct, Total: total, Value: PartialScore}
	if total > 0 && correct == total {
		s.Value = PerfectScore
		s.IsPerfect = true
	}
	return s
}

func countCorrect(attempts []Attempt) int {
	n := 0
	for _, a := range attempts {
		if a.Correct {
			n++
		}
	}
	return n
}

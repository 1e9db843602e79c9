package evaluate

import (
	"fmt"
	"math/rand/v2"

	"github.com/yufin/yufin/internal/content"
)

// Match evaluates a finished match board. The board itself is played on an
// AssociationBoard or a MemoryBoard; the answer carries only the mistakes.
type Match struct{}

func (Match) Type() content.LessonType { return content.TypeMatch }

func (Match) Evaluate(n content.Normalized, a Answer) Outcome {
	m, ok := n.(*content.Match)
	if !ok {
		return Outcome{}
	}
	ans, ok := a.(MatchAnswer)
	if !ok {
		return Outcome{}
	}
	if ans.Mistakes <= 0 {
		return Outcome{
			IsCorrect:         true,
			Explanation:       fmt.Sprintf("All %d pairs matched without a mistake.", len(m.Pairs)),
			ScoreContribution: PerfectScore,
		}
	}
	return Outcome{
		Explanation:       fmt.Sprintf("All %d pairs matched with %d mistake(s).", len(m.Pairs), ans.Mistakes),
		ScoreContribution: PartialScore,
	}
}

// Complete is binary over the single board.
func (Match) Complete(n content.Normalized, attempts []Attempt) Score {
	return binary(countCorrect(attempts), n.Len())
}

// AssociationBoard plays the association format: the learner proposes a
// left and a right, and exact pairs leave the pools.
type AssociationBoard struct {
	pairs    []content.Pair
	lefts    []string
	rights   []string
	matched  []bool
	matches  []content.Pair
	mistakes int
}

// NewAssociationBoard builds the pools for a match lesson. The right column
// is shuffled once with rng; a nil rng keeps stored order.
func NewAssociationBoard(m *content.Match, rng *rand.Rand) *AssociationBoard {
	b := &AssociationBoard{
		pairs:   m.Pairs,
		matched: make([]bool, len(m.Pairs)),
	}
	for _, p := range m.Pairs {
		b.lefts = append(b.lefts, p.Left)
		b.rights = append(b.rights, p.Right)
	}
	if rng != nil {
		rng.Shuffle(len(b.rights), func(i, j int) {
			b.rights[i], b.rights[j] = b.rights[j], b.rights[i]
		})
	}
	return b
}

// Propose tries a left/right association. On success the pair is returned
// and both sides leave their pools; otherwise a mistake is counted.
func (b *AssociationBoard) Propose(left, right string) (content.Pair, bool) {
	if b.Done() {
		return content.Pair{}, false
	}
	for i, p := range b.pairs {
		if b.matched[i] || p.Left != left || p.Right != right {
			continue
		}
		b.matched[i] = true
		b.matches = append(b.matches, p)
		b.lefts = removeOne(b.lefts, left)
		b.rights = removeOne(b.rights, right)
		return p, true
	}
	b.mistakes++
	return content.Pair{}, false
}

// Lefts returns the unmatched left items.
func (b *AssociationBoard) Lefts() []string { return append([]string(nil), b.lefts...) }

// Rights returns the unmatched right items.
func (b *AssociationBoard) Rights() []string { return append([]string(nil), b.rights...) }

// Matches returns the pairs matched so far, in match order.
func (b *AssociationBoard) Matches() []content.Pair {
	return append([]content.Pair(nil), b.matches...)
}

// Mistakes returns the number of wrong proposals.
func (b *AssociationBoard) Mistakes() int { return b.mistakes }

// Done reports whether every pair has been matched.
func (b *AssociationBoard) Done() bool { return len(b.matches) == len(b.pairs) }

// Answer returns the match answer for the board.
func (b *AssociationBoard) Answer() MatchAnswer { return MatchAnswer{Mistakes: b.mistakes} }

func removeOne(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

// FlipResult is the outcome of flipping one memory card.
type FlipResult int

const (
	FlipRejected FlipResult = iota // Card not flippable right now
	FlipFirst                      // First card of a pair turned face up
	FlipMatch                      // Second card completed a pair
	FlipMismatch                   // Second card did not match; flip-back pending
)

// MemoryBoard plays the memory format. Two face-up cards with the same pair
// id are matched for good; a mismatch stays face up until its flip-back
// token fires.
type MemoryBoard struct {
	cards    []content.Card
	first    int
	pending  [2]int
	token    uint64
	waiting  bool
	mistakes int
	matched  int
}

// NewMemoryBoard deals the deck for a match lesson once, shuffled with rng.
func NewMemoryBoard(m *content.Match, rng *rand.Rand) *MemoryBoard {
	return &MemoryBoard{cards: content.Deck(m.Pairs, rng), first: -1}
}

// Flip turns card i face up. While a mismatch is pending, or for cards that
// are matched or already face up, the flip is rejected. A FlipMismatch
// result comes with the token that FlipBack must be called with.
func (b *MemoryBoard) Flip(i int) (FlipResult, uint64) {
	if b.waiting || i < 0 || i >= len(b.cards) {
		return FlipRejected, 0
	}
	c := &b.cards[i]
	if c.IsMatched || c.IsFlipped {
		return FlipRejected, 0
	}
	c.IsFlipped = true

	if b.first < 0 {
		b.first = i
		return FlipFirst, 0
	}

	j := b.first
	other := &b.cards[j]
	b.first = -1
	if other.PairID == c.PairID {
		other.IsMatched, c.IsMatched = true, true
		b.matched++
		return FlipMatch, 0
	}

	b.mistakes++
	b.waiting = true
	b.token++
	b.pending = [2]int{j, i}
	return FlipMismatch, b.token
}

// FlipBack turns a pending mismatch face down. Stale tokens are ignored.
func (b *MemoryBoard) FlipBack(token uint64) bool {
	if !b.waiting || token != b.token {
		return false
	}
	for _, i := range b.pending {
		b.cards[i].IsFlipped = false
	}
	b.waiting = false
	return true
}

// Pending reports whether a mismatch is waiting to flip back.
func (b *MemoryBoard) Pending() bool { return b.waiting }

// Flippable reports whether card i may be flipped now.
func (b *MemoryBoard) Flippable(i int) bool {
	if b.waiting || i < 0 || i >= len(b.cards) {
		return false
	}
	return !b.cards[i].IsMatched && !b.cards[i].IsFlipped
}

// Cards returns a copy of the deck in table order.
func (b *MemoryBoard) Cards() []content.Card {
	return append([]content.Card(nil), b.cards...)
}

// Mistakes returns the number of mismatched flips.
func (b *MemoryBoard) Mistakes() int { return b.mistakes }

// Done reports whether every pair has been matched.
func (b *MemoryBoard) Done() bool { return b.matched*2 == len(b.cards) }

// Answer returns the match answer for the board.
func (b *MemoryBoard) Answer() MatchAnswer { return MatchAnswer{Mistakes: b.mistakes} }

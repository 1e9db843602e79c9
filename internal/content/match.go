package content

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
)

// MatchPairs is the current match layout.
type MatchPairs struct {
	GameFormat   text `json:"gameFormat"`
	Instructions text `json:"instructions"`
	Pairs        []struct {
		Left        text `json:"left"`
		Right       text `json:"right"`
		Explanation text `json:"explanation"`
	} `json:"pairs"`
}

// MatchItems is the legacy term/definition layout.
type MatchItems struct {
	Format       text `json:"format"`
	Instructions text `json:"instructions"`
	Items        []struct {
		Term        text `json:"term"`
		Definition  text `json:"definition"`
		Explanation text `json:"explanation"`
	} `json:"items"`
}

func parseFormat(v text) GameFormat {
	if strings.EqualFold(strings.TrimSpace(string(v)), string(FormatMemory)) {
		return FormatMemory
	}
	return FormatAssociation
}

// NormalizeMatch maps any stored match layout to the canonical pair list.
// Pairs missing either side are skipped.
func NormalizeMatch(raw json.RawMessage) *Match {
	m := &Match{Variant: ShapeEmpty, Format: FormatAssociation}

	doc, ok := decodeDocument(raw)
	if !ok {
		return m
	}

	switch shape := detectDocument(TypeMatch, doc); shape {
	case ShapeMatchPairs:
		var p MatchPairs
		if !remarshal(doc, &p) {
			return m
		}
		m.Variant = shape
		m.Format = parseFormat(p.GameFormat)
		m.Instructions = firstNonEmpty(p.Instructions)
		for _, pr := range p.Pairs {
			m.Pairs = appendPair(m.Pairs, pr.Left, pr.Right, pr.Explanation)
		}
	case ShapeMatchItems:
		var it MatchItems
		if !remarshal(doc, &it) {
			return m
		}
		m.Variant = shape
		m.Format = parseFormat(it.Format)
		m.Instructions = firstNonEmpty(it.Instructions)
		for _, item := range it.Items {
			m.Pairs = appendPair(m.Pairs, item.Term, item.Definition, item.Explanation)
		}
	}

	if len(m.Pairs) == 0 {
		return &Match{Variant: ShapeEmpty, Format: m.Format}
	}
	return m
}

func appendPair(pairs []Pair, left, right, explanation text) []Pair {
	l, r := firstNonEmpty(left), firstNonEmpty(right)
	if l == "" || r == "" {
		return pairs
	}
	return append(pairs, Pair{Left: l, Right: r, Explanation: firstNonEmpty(explanation)})
}

// Card is one face of a memory-format pair.
type Card struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	PairID    int    `json:"pairId"`
	IsFlipped bool   `json:"isFlipped"`
	IsMatched bool   `json:"isMatched"`
}

// Deck expands pairs into two cards each and shuffles them with rng. It is
// called once per session; rendering reuses the same deck.
func Deck(pairs []Pair, rng *rand.Rand) []Card {
	cards := make([]Card, 0, len(pairs)*2)
	for i, p := range pairs {
		cards = append(cards,
			Card{ID: fmt.Sprintf("%d-a", i), Text: p.Left, PairID: i},
			Card{ID: fmt.Sprintf("%d-b", i), Text: p.Right, PairID: i},
		)
	}
	if rng != nil {
		rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}
	return cards
}

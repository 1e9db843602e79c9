package rewards

import "github.com/yufin/yufin/internal/content"

// Achievement is a milestone a learner unlocks once.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Rarity      Rarity

	// earned reports whether the achievement is unlocked after a completion.
	earned func(p progress) bool
}

// progress is a user's completion counts including the completion being
// applied.
type progress struct {
	lessons       int
	perfect       int
	byType        map[string]int
	perfectByType map[string]int
	last          Completion
}

var catalog = []Achievement{
	{
		ID: "first-lesson", Name: "Primeiro passo", Description: "Complete your first lesson",
		Rarity: RarityCommon,
		earned: func(p progress) bool { return p.lessons >= 1 },
	},
	{
		ID: "perfect-score", Name: "Na mosca", Description: "Finish a lesson with a perfect score",
		Rarity: RarityRare,
		earned: func(p progress) bool { return p.last.IsPerfect },
	},
	{
		ID: "lessons-5", Name: "Constância", Description: "Complete 5 lessons",
		Rarity: RarityRare,
		earned: func(p progress) bool { return p.lessons >= 5 },
	},
	{
		ID: "lessons-20", Name: "Investidor", Description: "Complete 20 lessons",
		Rarity: RarityEpic,
		earned: func(p progress) bool { return p.lessons >= 20 },
	},
	{
		ID: "budget-master", Name: "Mestre do orçamento", Description: "Finish 3 shopping lessons with a perfect score",
		Rarity: RarityEpic,
		earned: func(p progress) bool { return p.perfectByType[string(content.TypeShopping)] >= 3 },
	},
	{
		ID: "math-whiz", Name: "Fera dos números", Description: "Finish 5 math lessons with a perfect score",
		Rarity: RarityLegendary,
		earned: func(p progress) bool { return p.perfectByType[string(content.TypeMath)] >= 5 },
	},
}

// Catalog returns every achievement in display order.
func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// Lookup returns the achievement with the given id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// earnedAfter returns the achievements whose condition holds for p. Already
// unlocked ones are filtered out by the store.
func earnedAfter(p progress) []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if a.earned(p) {
			out = append(out, a)
		}
	}
	return out
}

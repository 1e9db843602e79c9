package rewards

// Coin and experience constants.
const (
	BaseCoins    = 10
	PerfectBonus = 5
	XPPerLevel   = 500
)

// Coins returns the coins awarded for a completion.
func Coins(score int, perfect bool) int {
	score = min(max(score, 0), 100)
	coins := BaseCoins + score/10
	if perfect {
		coins += PerfectBonus
	}
	return coins
}

// XP returns the experience awarded for a completion.
func XP(score int) int {
	return min(max(score, 0), 100)
}

// LevelFor returns the level reached with the given total experience.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

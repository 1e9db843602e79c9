package api

// Completion is the body of a lesson completion submission.
type Completion struct {
	LessonID  string `json:"lessonId"`
	Score     int    `json:"score"`
	TimeSpent int    `json:"timeSpent"`
	IsPerfect bool   `json:"isPerfect"`
}

// User is the learner state kept by the progress collaborator.
type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Coins            int      `json:"coins"`
	XP               int      `json:"xp"`
	Level            int      `json:"level"`
	CompletedLessons []string `json:"completedLessons"`
	Achievements     []string `json:"achievements"`
}

// Progress is the response to a completion submission.
type Progress struct {
	User            User     `json:"user"`
	Reward          int      `json:"reward"`
	LeveledUp       bool     `json:"leveledUp"`
	NewAchievements []string `json:"newAchievements"`
}

// LessonSummary is one entry of the lesson index.
type LessonSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

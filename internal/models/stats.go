package models

// LearningStat summarizes an account's card collection and review history.
type LearningStat struct {
	TotalCards      int     `json:"total_cards"`
	CardsDue        int     `json:"cards_due"`
	CardsNew        int     `json:"cards_new"`
	CardsLearning   int     `json:"cards_learning"`
	CardsMature     int     `json:"cards_mature"`
	TotalReviews    int     `json:"total_reviews"`
	TotalLapses     int     `json:"total_lapses"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days"`
}

// SessionSummary is returned when a study session's working set is exhausted.
type SessionSummary struct {
	CardsCompleted int   `json:"cards_completed"`
	CoinsEarned    int64 `json:"coins_earned"`
	NewStreak      int   `json:"new_streak"`
}

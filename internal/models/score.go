package models

import "time"

// ScoreSnapshot records the outcome of one completed mix
type ScoreSnapshot struct {
	ID              int64
	TotalItems      int
	FirstTryCorrect int
	CreatedAt       time.Time
}

// Accuracy returns first-try correctness as a fraction of total items
func (s *ScoreSnapshot) Accuracy() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.FirstTryCorrect) / float64(s.TotalItems)
}

package service

import (
	"context"

	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ScoreService records completed-mix scores and mails the report
type ScoreService struct {
	scores *repository.ScoreRepository
	email  *EmailService
}

// NewScoreService creates a new score service. email may be nil.
func NewScoreService(scores *repository.ScoreRepository, email *EmailService) *ScoreService {
	return &ScoreService{scores: scores, email: email}
}

// RecordScore appends a score snapshot and sends the report email. A mail
// failure never fails the recording.
func (s *ScoreService) RecordScore(totalItems, firstTryCorrect int) (*models.ScoreSnapshot, error) {
	snap, err := s.scores.RecordScore(totalItems, firstTryCorrect)
	if err != nil {
		return nil, err
	}

	if s.email != nil && s.email.IsEnabled() {
		if err := s.email.SendScoreReport(context.Background(), snap); err != nil {
			log.WithError(err).Warn("Failed to send score report")
		}
	}
	return snap, nil
}

// GetRecentScores returns the newest limit scores
func (s *ScoreService) GetRecentScores(limit int) ([]models.ScoreSnapshot, error) {
	return s.scores.GetRecentScores(limit)
}

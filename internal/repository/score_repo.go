package repository

import (
	"fmt"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"
)

// ScoreRepository handles database operations for completed-mix scores
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// RecordScore appends one completed-mix result to the history
func (r *ScoreRepository) RecordScore(totalItems, firstTryCorrect int) (*models.ScoreSnapshot, error) {
	query := "INSERT INTO scores (total_items, first_try_correct) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, totalItems, firstTryCorrect)
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	return &models.ScoreSnapshot{
		ID:              id,
		TotalItems:      totalItems,
		FirstTryCorrect: firstTryCorrect,
		CreatedAt:       time.Now(),
	}, nil
}

// GetRecentScores returns the newest limit scores, most recent first
func (r *ScoreRepository) GetRecentScores(limit int) ([]models.ScoreSnapshot, error) {
	query := "SELECT id, total_items, first_try_correct, created_at FROM scores ORDER BY created_at DESC, id DESC LIMIT ?"
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []models.ScoreSnapshot
	for rows.Next() {
		var score models.ScoreSnapshot
		if err := rows.Scan(&score.ID, &score.TotalItems, &score.FirstTryCorrect, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"

	"github.com/google/uuid"
)

// PhraseRepository handles database operations for practice phrases
type PhraseRepository struct {
	db *database.DB
}

// NewPhraseRepository creates a new phrase repository
func NewPhraseRepository(db *database.DB) *PhraseRepository {
	return &PhraseRepository{db: db}
}

const phraseColumns = "id, korean_text, english_text, pos_tags, accepted_answers, explanation, source, times_correct, times_incorrect, first_try_correct, created_at"

// CreatePhrase stores a new sentence pair and returns it with its generated ID
func (r *PhraseRepository) CreatePhrase(koreanText, englishText, source string) (*models.Phrase, error) {
	phrase := &models.Phrase{
		ID:          uuid.New().String(),
		KoreanText:  koreanText,
		EnglishText: englishText,
		Source:      source,
		CreatedAt:   time.Now(),
	}

	query := "INSERT INTO phrases (id, korean_text, english_text, source) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, phrase.ID, koreanText, englishText, source); err != nil {
		return nil, fmt.Errorf("failed to create phrase: %w", err)
	}

	return phrase, nil
}

// GetPhraseByID retrieves a phrase by ID, or nil when it does not exist
func (r *PhraseRepository) GetPhraseByID(id string) (*models.Phrase, error) {
	query := "SELECT " + phraseColumns + " FROM phrases WHERE id = ?"
	phrase, err := scanPhrase(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phrase: %w", err)
	}
	return phrase, nil
}

// GetPhrasesBySource retrieves all phrases from one source, oldest first
func (r *PhraseRepository) GetPhrasesBySource(source string) ([]models.Phrase, error) {
	query := "SELECT " + phraseColumns + " FROM phrases WHERE source = ? ORDER BY created_at ASC, id ASC"
	rows, err := r.db.Query(query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query phrases: %w", err)
	}
	defer rows.Close()

	return collectPhrases(rows)
}

// GetAllPhrases retrieves every stored phrase, oldest first
func (r *PhraseRepository) GetAllPhrases() ([]models.Phrase, error) {
	query := "SELECT " + phraseColumns + " FROM phrases ORDER BY created_at ASC, id ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query phrases: %w", err)
	}
	defer rows.Close()

	return collectPhrases(rows)
}

// UpdatePhrase updates the editable fields of a phrase
func (r *PhraseRepository) UpdatePhrase(phrase *models.Phrase) error {
	posTags, err := json.Marshal(phrase.POSTags)
	if err != nil {
		return fmt.Errorf("failed to encode pos tags: %w", err)
	}
	accepted, err := json.Marshal(phrase.AcceptedAnswers)
	if err != nil {
		return fmt.Errorf("failed to encode accepted answers: %w", err)
	}

	query := `
		UPDATE phrases
		SET korean_text = ?, english_text = ?, pos_tags = ?, accepted_answers = ?, explanation = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, phrase.KoreanText, phrase.EnglishText, string(posTags), string(accepted), phrase.Explanation, phrase.ID); err != nil {
		return fmt.Errorf("failed to update phrase: %w", err)
	}
	return nil
}

// UpdateExplanation stores a generated explanation for a phrase
func (r *PhraseRepository) UpdateExplanation(id, explanation string) error {
	query := "UPDATE phrases SET explanation = ? WHERE id = ?"
	if _, err := r.db.Exec(query, explanation, id); err != nil {
		return fmt.Errorf("failed to update explanation: %w", err)
	}
	return nil
}

// GetPhrasesWithoutExplanation returns up to limit phrases missing an explanation
func (r *PhraseRepository) GetPhrasesWithoutExplanation(limit int) ([]models.Phrase, error) {
	query := "SELECT " + phraseColumns + " FROM phrases WHERE explanation = '' ORDER BY created_at ASC LIMIT ?"
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query phrases: %w", err)
	}
	defer rows.Close()

	return collectPhrases(rows)
}

// RecordAttempt bumps the attempt counters for a phrase. firstTry is only
// meaningful when correct is true.
func (r *PhraseRepository) RecordAttempt(id string, correct, firstTry bool) error {
	var query string
	switch {
	case correct && firstTry:
		query = "UPDATE phrases SET times_correct = times_correct + 1, first_try_correct = first_try_correct + 1 WHERE id = ?"
	case correct:
		query = "UPDATE phrases SET times_correct = times_correct + 1 WHERE id = ?"
	default:
		query = "UPDATE phrases SET times_incorrect = times_incorrect + 1 WHERE id = ?"
	}

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// DeletePhrase removes a phrase
func (r *PhraseRepository) DeletePhrase(id string) error {
	query := "DELETE FROM phrases WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete phrase: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPhrase(row rowScanner) (*models.Phrase, error) {
	phrase := &models.Phrase{}
	var posTags, accepted string
	if err := row.Scan(
		&phrase.ID,
		&phrase.KoreanText,
		&phrase.EnglishText,
		&posTags,
		&accepted,
		&phrase.Explanation,
		&phrase.Source,
		&phrase.TimesCorrect,
		&phrase.TimesIncorrect,
		&phrase.FirstTryCorrect,
		&phrase.CreatedAt,
	); err != nil {
		return nil, err
	}

	if posTags != "" {
		if err := json.Unmarshal([]byte(posTags), &phrase.POSTags); err != nil {
			return nil, fmt.Errorf("failed to decode pos tags: %w", err)
		}
	}
	if accepted != "" {
		if err := json.Unmarshal([]byte(accepted), &phrase.AcceptedAnswers); err != nil {
			return nil, fmt.Errorf("failed to decode accepted answers: %w", err)
		}
	}

	return phrase, nil
}

func collectPhrases(rows *sql.Rows) ([]models.Phrase, error) {
	var phrases []models.Phrase
	for rows.Next() {
		phrase, err := scanPhrase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phrase: %w", err)
		}
		phrases = append(phrases, *phrase)
	}
	return phrases, rows.Err()
}

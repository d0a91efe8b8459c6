package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"

	"github.com/google/uuid"
)

// WordRepository handles database operations for the lexicon
type WordRepository struct {
	db *database.DB
}

// NewWordRepository creates a new word repository
func NewWordRepository(db *database.DB) *WordRepository {
	return &WordRepository{db: db}
}

// CreateWord stores a new lexicon entry
func (r *WordRepository) CreateWord(korean, english, wordType string) (*models.Word, error) {
	word := &models.Word{
		ID:        uuid.New().String(),
		Korean:    korean,
		English:   english,
		Type:      wordType,
		CreatedAt: time.Now(),
	}

	query := "INSERT INTO words (id, korean, english, type) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, word.ID, korean, english, wordType); err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	return word, nil
}

// GetWordByID retrieves a word by ID, or nil when it does not exist
func (r *WordRepository) GetWordByID(id string) (*models.Word, error) {
	query := "SELECT id, korean, english, type, learned, created_at FROM words WHERE id = ?"
	word := &models.Word{}
	err := r.db.QueryRow(query, id).Scan(
		&word.ID,
		&word.Korean,
		&word.English,
		&word.Type,
		&word.Learned,
		&word.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return word, nil
}

// GetAllWords retrieves the full lexicon, oldest first
func (r *WordRepository) GetAllWords() ([]models.Word, error) {
	query := "SELECT id, korean, english, type, learned, created_at FROM words ORDER BY created_at ASC, id ASC"
	return r.collectWords(query)
}

// GetLearningVerbs returns the verb entries not yet marked learned. These form
// the pool the verb-practice synthesizer draws from.
func (r *WordRepository) GetLearningVerbs() ([]models.Word, error) {
	words, err := r.GetAllWords()
	if err != nil {
		return nil, err
	}

	var verbs []models.Word
	for _, w := range words {
		if !w.Learned && w.IsVerb() {
			verbs = append(verbs, w)
		}
	}
	return verbs, nil
}

// UpdateWord updates a lexicon entry
func (r *WordRepository) UpdateWord(word *models.Word) error {
	query := "UPDATE words SET korean = ?, english = ?, type = ?, learned = ? WHERE id = ?"
	if _, err := r.db.Exec(query, word.Korean, word.English, word.Type, word.Learned, word.ID); err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	return nil
}

// DeleteWord removes a lexicon entry
func (r *WordRepository) DeleteWord(id string) error {
	query := "DELETE FROM words WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}

func (r *WordRepository) collectWords(query string, args ...interface{}) ([]models.Word, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var word models.Word
		if err := rows.Scan(
			&word.ID,
			&word.Korean,
			&word.English,
			&word.Type,
			&word.Learned,
			&word.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

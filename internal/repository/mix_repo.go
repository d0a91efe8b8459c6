package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"

	log "github.com/sirupsen/logrus"
)

// MixRepository persists the single composed practice mix
type MixRepository struct {
	db *database.DB
}

// NewMixRepository creates a new mix repository
func NewMixRepository(db *database.DB) *MixRepository {
	return &MixRepository{db: db}
}

// LoadMix returns the stored mix, or nil when none has been composed yet.
// A cursor that fell outside the item range (a crash mid-write, or items
// edited out from under it) is clamped and the correction written back.
func (r *MixRepository) LoadMix() (*models.MixState, error) {
	query := "SELECT items, cursor_position, first_try_correct_count, updated_at FROM mix_state WHERE id = 1"

	var itemsJSON string
	state := &models.MixState{}
	err := r.db.QueryRow(query).Scan(&itemsJSON, &state.Cursor, &state.FirstTryCorrectCount, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mix: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &state.Items); err != nil {
		return nil, fmt.Errorf("failed to decode mix items: %w", err)
	}

	if clamped := clampCursor(state.Cursor, len(state.Items)); clamped != state.Cursor {
		log.WithFields(log.Fields{
			"stored":  state.Cursor,
			"clamped": clamped,
			"items":   len(state.Items),
		}).Warn("Mix cursor out of range, correcting")
		state.Cursor = clamped
		if err := r.UpdateProgress(state.Cursor, state.FirstTryCorrectCount); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// SaveMix replaces the stored mix wholesale with a freshly composed one
func (r *MixRepository) SaveMix(state *models.MixState) error {
	itemsJSON, err := json.Marshal(state.Items)
	if err != nil {
		return fmt.Errorf("failed to encode mix items: %w", err)
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}

	update := "UPDATE mix_state SET items = ?, cursor_position = ?, first_try_correct_count = ?, updated_at = ? WHERE id = 1"
	result, err := r.db.Exec(update, string(itemsJSON), state.Cursor, state.FirstTryCorrectCount, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save mix: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save mix: %w", err)
	}
	if affected == 0 {
		insert := "INSERT INTO mix_state (id, items, cursor_position, first_try_correct_count, updated_at) VALUES (1, ?, ?, ?, ?)"
		if _, err := r.db.Exec(insert, string(itemsJSON), state.Cursor, state.FirstTryCorrectCount, state.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save mix: %w", err)
		}
	}
	return nil
}

// UpdateProgress persists the cursor and running score without rewriting the items
func (r *MixRepository) UpdateProgress(cursor, firstTryCorrect int) error {
	query := "UPDATE mix_state SET cursor_position = ?, first_try_correct_count = ?, updated_at = ? WHERE id = 1"
	if _, err := r.db.Exec(query, cursor, firstTryCorrect, time.Now()); err != nil {
		return fmt.Errorf("failed to update mix progress: %w", err)
	}
	return nil
}

// ClearMix removes the stored mix entirely
func (r *MixRepository) ClearMix() error {
	if _, err := r.db.Exec("DELETE FROM mix_state WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear mix: %w", err)
	}
	return nil
}

// clampCursor pins a cursor into [0, n]. n itself is valid: it marks a
// completed mix.
func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}

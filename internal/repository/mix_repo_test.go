package repository

import (
	"database/sql"
	"testing"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	raw, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	schema := `CREATE TABLE mix_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		items TEXT NOT NULL DEFAULT '[]',
		cursor_position INTEGER NOT NULL DEFAULT 0,
		first_try_correct_count INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := raw.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return &database.DB{DB: raw, Dialect: database.NewSQLiteDialect()}
}

func testMix(items int) *models.MixState {
	state := &models.MixState{UpdatedAt: time.Now()}
	for i := 0; i < items; i++ {
		state.Items = append(state.Items, models.MixItem{
			ID:      "item-" + string(rune('a'+i)),
			GroupID: "group-" + string(rune('a'+i)),
			Source:  models.SourceCurriculum,
			Phrase: models.Phrase{
				ID:         "p-" + string(rune('a'+i)),
				KoreanText: "문장이에요",
			},
		})
	}
	return state
}

func TestMixRepositoryLoadWhenEmpty(t *testing.T) {
	repo := NewMixRepository(newTestDB(t))
	state, err := repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if state != nil {
		t.Fatalf("LoadMix() = %+v, want nil before first save", state)
	}
}

func TestMixRepositorySaveAndLoad(t *testing.T) {
	repo := NewMixRepository(newTestDB(t))

	saved := testMix(3)
	saved.Cursor = 1
	saved.FirstTryCorrectCount = 1
	if err := repo.SaveMix(saved); err != nil {
		t.Fatalf("SaveMix() error: %v", err)
	}

	loaded, err := repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadMix() returned nil after save")
	}
	if len(loaded.Items) != 3 || loaded.Cursor != 1 || loaded.FirstTryCorrectCount != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.Items[0].Phrase.KoreanText != "문장이에요" {
		t.Errorf("item phrase = %+v", loaded.Items[0].Phrase)
	}
}

func TestMixRepositorySaveReplacesExisting(t *testing.T) {
	repo := NewMixRepository(newTestDB(t))

	if err := repo.SaveMix(testMix(3)); err != nil {
		t.Fatalf("SaveMix() error: %v", err)
	}
	if err := repo.SaveMix(testMix(2)); err != nil {
		t.Fatalf("SaveMix() replace error: %v", err)
	}

	loaded, err := repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if len(loaded.Items) != 2 || loaded.Cursor != 0 {
		t.Fatalf("loaded = %+v, want the replacement mix", loaded)
	}
}

func TestMixRepositoryUpdateProgress(t *testing.T) {
	repo := NewMixRepository(newTestDB(t))
	if err := repo.SaveMix(testMix(3)); err != nil {
		t.Fatalf("SaveMix() error: %v", err)
	}

	if err := repo.UpdateProgress(2, 1); err != nil {
		t.Fatalf("UpdateProgress() error: %v", err)
	}

	loaded, err := repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if loaded.Cursor != 2 || loaded.FirstTryCorrectCount != 1 {
		t.Fatalf("loaded = %+v, want cursor 2 score 1", loaded)
	}
}

func TestMixRepositoryClampsOutOfRangeCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewMixRepository(db)
	if err := repo.SaveMix(testMix(3)); err != nil {
		t.Fatalf("SaveMix() error: %v", err)
	}

	// Force a cursor beyond the item range, as a crash mid-write would.
	if _, err := db.Exec("UPDATE mix_state SET cursor_position = ? WHERE id = 1", 17); err != nil {
		t.Fatalf("forcing cursor: %v", err)
	}

	loaded, err := repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if loaded.Cursor != 3 {
		t.Fatalf("cursor = %d, want clamp to item count", loaded.Cursor)
	}
	if !loaded.Completed() {
		t.Error("a cursor clamped to the end must read as completed")
	}

	// The correction is persisted, not just applied in memory.
	var stored int
	if err := db.QueryRow("SELECT cursor_position FROM mix_state WHERE id = 1").Scan(&stored); err != nil {
		t.Fatalf("reading stored cursor: %v", err)
	}
	if stored != 3 {
		t.Errorf("stored cursor = %d, want 3", stored)
	}

	// Negative cursors clamp to the start.
	if _, err := db.Exec("UPDATE mix_state SET cursor_position = ? WHERE id = 1", -4); err != nil {
		t.Fatalf("forcing cursor: %v", err)
	}
	loaded, err = repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if loaded.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", loaded.Cursor)
	}
}

func TestMixRepositoryClearMix(t *testing.T) {
	repo := NewMixRepository(newTestDB(t))
	if err := repo.SaveMix(testMix(2)); err != nil {
		t.Fatalf("SaveMix() error: %v", err)
	}
	if err := repo.ClearMix(); err != nil {
		t.Fatalf("ClearMix() error: %v", err)
	}
	state, err := repo.LoadMix()
	if err != nil {
		t.Fatalf("LoadMix() error: %v", err)
	}
	if state != nil {
		t.Fatalf("LoadMix() = %+v, want nil after clear", state)
	}
}

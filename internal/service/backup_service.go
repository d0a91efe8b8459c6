package service

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"

	log "github.com/sirupsen/logrus"
)

// BackupData is the full JSON export of the learning content, portable across
// database dialects
type BackupData struct {
	Version       string                 `json:"version"`
	ExportedAt    time.Time              `json:"exported_at"`
	DatabaseType  string                 `json:"database_type"`
	Phrases       []models.Phrase        `json:"phrases"`
	Words         []models.Word          `json:"words"`
	Conversations []models.Conversation  `json:"conversations"`
	Scores        []models.ScoreSnapshot `json:"scores"`
}

const backupVersion = "1"

// BackupService exports and imports the learning content as JSON
type BackupService struct {
	db            *database.DB
	phrases       *repository.PhraseRepository
	words         *repository.WordRepository
	conversations *repository.ConversationRepository
	scores        *repository.ScoreRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:            db,
		phrases:       repository.NewPhraseRepository(db),
		words:         repository.NewWordRepository(db),
		conversations: repository.NewConversationRepository(db),
		scores:        repository.NewScoreRepository(db),
	}
}

// Export writes the full content set to a JSON file
func (s *BackupService) Export(outputPath string) error {
	phrases, err := s.phrases.GetAllPhrases()
	if err != nil {
		return fmt.Errorf("exporting phrases: %w", err)
	}
	words, err := s.words.GetAllWords()
	if err != nil {
		return fmt.Errorf("exporting words: %w", err)
	}
	conversations, err := s.conversations.GetAllConversations()
	if err != nil {
		return fmt.Errorf("exporting conversations: %w", err)
	}
	scores, err := s.scores.GetRecentScores(100000)
	if err != nil {
		return fmt.Errorf("exporting scores: %w", err)
	}

	data := BackupData{
		Version:       backupVersion,
		ExportedAt:    time.Now(),
		DatabaseType:  s.db.Dialect.DriverName(),
		Phrases:       phrases,
		Words:         words,
		Conversations: conversations,
		Scores:        scores,
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	log.WithFields(log.Fields{
		"phrases":       len(phrases),
		"words":         len(words),
		"conversations": len(conversations),
		"scores":        len(scores),
	}).Info("Backup exported")
	return nil
}

// Import loads a backup file into the database. With clear set, existing
// content is removed first.
func (s *BackupService) Import(inputPath string, clear bool) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	var data BackupData
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("parsing backup: %w", err)
	}

	if clear {
		for _, table := range []string{"conversation_lines", "conversations", "phrases", "words", "scores"} {
			if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
	}

	for _, p := range data.Phrases {
		stored, err := s.phrases.CreatePhrase(p.KoreanText, p.EnglishText, p.Source)
		if err != nil {
			return fmt.Errorf("importing phrase: %w", err)
		}
		stored.POSTags = p.POSTags
		stored.AcceptedAnswers = p.AcceptedAnswers
		stored.Explanation = p.Explanation
		if err := s.phrases.UpdatePhrase(stored); err != nil {
			return fmt.Errorf("importing phrase details: %w", err)
		}
	}

	for _, w := range data.Words {
		stored, err := s.words.CreateWord(w.Korean, w.English, w.Type)
		if err != nil {
			return fmt.Errorf("importing word: %w", err)
		}
		if w.Learned {
			stored.Learned = true
			if err := s.words.UpdateWord(stored); err != nil {
				return fmt.Errorf("importing word details: %w", err)
			}
		}
	}

	for _, c := range data.Conversations {
		if _, err := s.conversations.CreateConversation(c.Title, c.Lines); err != nil {
			return fmt.Errorf("importing conversation: %w", err)
		}
	}

	for _, sc := range data.Scores {
		if _, err := s.scores.RecordScore(sc.TotalItems, sc.FirstTryCorrect); err != nil {
			return fmt.Errorf("importing score: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"phrases":       len(data.Phrases),
		"words":         len(data.Words),
		"conversations": len(data.Conversations),
		"scores":        len(data.Scores),
	}).Info("Backup imported")
	return nil
}

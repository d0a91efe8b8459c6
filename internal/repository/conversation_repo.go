package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hanguldrill/internal/database"
	"hanguldrill/internal/models"

	"github.com/google/uuid"
)

// ConversationRepository handles database operations for conversation sets
type ConversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *database.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateConversation stores a conversation with its ordered lines
func (r *ConversationRepository) CreateConversation(title string, lines []models.ConversationLine) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Lines:     make([]models.ConversationLine, len(lines)),
		CreatedAt: time.Now(),
	}

	tx, err := r.db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertConv := r.db.Dialect.RewriteQuery("INSERT INTO conversations (id, title) VALUES (?, ?)")
	if _, err := tx.Exec(insertConv, conv.ID, title); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	insertLine := r.db.Dialect.RewriteQuery("INSERT INTO conversation_lines (conversation_id, position, korean, english) VALUES (?, ?, ?, ?)")
	for i, line := range lines {
		line.Position = i
		conv.Lines[i] = line
		if _, err := tx.Exec(insertLine, conv.ID, i, line.Korean, line.English); err != nil {
			return nil, fmt.Errorf("failed to create conversation line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversation: %w", err)
	}
	return conv, nil
}

// GetConversationByID retrieves a conversation with its lines in order,
// or nil when it does not exist
func (r *ConversationRepository) GetConversationByID(id string) (*models.Conversation, error) {
	query := "SELECT id, title, created_at FROM conversations WHERE id = ?"
	conv := &models.Conversation{}
	err := r.db.QueryRow(query, id).Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	lines, err := r.getLines(conv.ID)
	if err != nil {
		return nil, err
	}
	conv.Lines = lines
	return conv, nil
}

// GetAllConversations retrieves every conversation with its lines, oldest first
func (r *ConversationRepository) GetAllConversations() ([]models.Conversation, error) {
	query := "SELECT id, title, created_at FROM conversations ORDER BY created_at ASC, id ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range convs {
		lines, err := r.getLines(convs[i].ID)
		if err != nil {
			return nil, err
		}
		convs[i].Lines = lines
	}
	return convs, nil
}

// DeleteConversation removes a conversation and its lines
func (r *ConversationRepository) DeleteConversation(id string) error {
	if _, err := r.db.Exec("DELETE FROM conversation_lines WHERE conversation_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete conversation lines: %w", err)
	}
	if _, err := r.db.Exec("DELETE FROM conversations WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) getLines(conversationID string) ([]models.ConversationLine, error) {
	query := "SELECT position, korean, english FROM conversation_lines WHERE conversation_id = ? ORDER BY position ASC"
	rows, err := r.db.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation lines: %w", err)
	}
	defer rows.Close()

	var lines []models.ConversationLine
	for rows.Next() {
		var line models.ConversationLine
		if err := rows.Scan(&line.Position, &line.Korean, &line.English); err != nil {
			return nil, fmt.Errorf("failed to scan conversation line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

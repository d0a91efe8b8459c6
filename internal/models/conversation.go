package models

import "time"

// ConversationLine is a single exchange inside a conversation set
type ConversationLine struct {
	Korean   string `json:"korean"`
	English  string `json:"english"`
	Position int    `json:"position"`
}

// Conversation is an ordered transcript of sentence pairs used as a practice source.
// Line order is pedagogically meaningful and must survive any session shuffle.
type Conversation struct {
	ID        string
	Title     string
	Lines     []ConversationLine
	CreatedAt time.Time
}

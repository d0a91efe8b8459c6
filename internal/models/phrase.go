package models

import (
	"strings"
	"time"
)

// Phrase source values record where a sentence pair came from.
const (
	SourceCurriculum   = "curriculum"
	SourceConversation = "conversation"
	SourceVerbPractice = "verb_practice"
)

// Phrase represents a Korean/English sentence pair used as practice content
type Phrase struct {
	ID              string
	KoreanText      string
	EnglishText     string
	POSTags         []string   // one tag per space-delimited Korean token, optional
	AcceptedAnswers [][]string // accepted answers per blank slot, optional
	Explanation     string
	Source          string
	TimesCorrect    int
	TimesIncorrect  int
	FirstTryCorrect int
	CreatedAt       time.Time
}

// Tokens splits the Korean text into its space-delimited units, dropping empties
func (p *Phrase) Tokens() []string {
	fields := strings.Fields(p.KoreanText)
	return fields
}

// HasPOSTags reports whether the phrase carries a usable per-token tag list
func (p *Phrase) HasPOSTags() bool {
	return len(p.POSTags) > 0 && len(p.POSTags) == len(p.Tokens())
}

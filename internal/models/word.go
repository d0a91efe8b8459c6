package models

import (
	"strings"
	"time"
)

// Word is a lexicon entry. Verb entries feed the verb-practice synthesizer's pool.
type Word struct {
	ID        string
	Korean    string
	English   string
	Type      string // pronoun, noun, proper noun, verb, adjective, adverb, particle, ...
	Learned   bool
	CreatedAt time.Time
}

// IsVerb reports whether the entry is usable as a verb: either tagged as one,
// or in dictionary form (ending in 다) with no tag to say otherwise.
func (w *Word) IsVerb() bool {
	if strings.EqualFold(w.Type, "verb") {
		return true
	}
	return w.Type == "" && strings.HasSuffix(w.Korean, "다")
}

// BaseEnglish strips a leading "to " from the gloss of an infinitive
func (w *Word) BaseEnglish() string {
	en := strings.TrimSpace(w.English)
	lower := strings.ToLower(en)
	if strings.HasPrefix(lower, "to ") {
		return strings.TrimSpace(en[3:])
	}
	return en
}

package models

import "time"

// MixItem is one entry in a composed practice mix
type MixItem struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	Source      string `json:"source"` // curriculum, conversation or verb_practice
	RepeatIndex int    `json:"repeat_index"`
	Phrase      Phrase `json:"phrase"`
}

// MixState is the single persisted mix for the user: the composed item sequence,
// the position of the item currently being practiced, and the running first-try score
type MixState struct {
	Items                []MixItem
	Cursor               int
	FirstTryCorrectCount int
	UpdatedAt            time.Time
}

// Completed reports whether every item in the mix has been practiced
func (s *MixState) Completed() bool {
	return len(s.Items) > 0 && s.Cursor >= len(s.Items)
}

// Current returns the item at the cursor, or nil when the mix is empty or done
func (s *MixState) Current() *MixItem {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return nil
	}
	return &s.Items[s.Cursor]
}

package service

import "strings"

// answerPunctuation is stripped from both sides of a comparison
const answerPunctuation = ".,!?;:"

// NormalizeAnswer trims the input, strips sentence punctuation and lowercases
// it so that "갔어요." and "갔어요" compare equal. Applying it twice changes
// nothing.
func NormalizeAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(answerPunctuation, r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// IsCorrect reports whether the input matches any accepted answer after
// normalization
func IsCorrect(input string, accepted []string) bool {
	normalized := NormalizeAnswer(input)
	for _, a := range accepted {
		if normalized == NormalizeAnswer(a) {
			return true
		}
	}
	return false
}

// AllBlanksCorrect checks every blank of a sentence. accepted holds one answer
// list per blank; when a slot has no explicit list, the originally blanked
// token is the sole accepted answer for that slot.
func AllBlanksCorrect(inputs []string, accepted [][]string, blankedTokens []string) bool {
	if len(inputs) != len(blankedTokens) {
		return false
	}
	for i, input := range inputs {
		list := acceptedForSlot(accepted, blankedTokens, i)
		if !IsCorrect(input, list) {
			return false
		}
	}
	return true
}

func acceptedForSlot(accepted [][]string, blankedTokens []string, i int) []string {
	if i < len(accepted) && len(accepted[i]) > 0 {
		return accepted[i]
	}
	return []string{blankedTokens[i]}
}

package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONObject finds the first balanced {...} value in free text and
// unmarshals it into out. The model is told to return only JSON, but responses
// regularly arrive wrapped in prose or code fences, so this walks the text with
// a brace counter that respects string literals and escapes rather than
// trusting a greedy regex.
func ExtractJSONObject(text string, out interface{}) error {
	raw, err := extractBalanced(text, '{', '}')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// ExtractJSONArray is ExtractJSONObject for the first balanced [...] value
func ExtractJSONArray(text string, out interface{}) error {
	raw, err := extractBalanced(text, '[', ']')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func extractBalanced(text string, open, closing byte) (string, error) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", fmt.Errorf("%w: no %q found", ErrMalformedResponse, string(open))
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced %q", ErrMalformedResponse, string(open))
}

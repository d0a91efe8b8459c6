package service

import (
	"math/rand"
	"sort"
	"strings"
)

// Practice modes
const (
	ModeCurriculum   = "curriculum"
	ModeConversation = "conversation"
	ModeVerbPractice = "verb_practice"
	ModeMix          = "mix"
)

// MaxBlanks is the most tokens that may be hidden in one sentence
const MaxBlanks = 3

// particleSet holds the bare grammatical markers that make poor blanks.
// A token is only excluded when it IS one of these, not when it ends in one:
// most Korean tokens carry an attached particle, and those are fine to blank.
var particleSet = map[string]bool{
	"은": true, "는": true, "이": true, "가": true,
	"을": true, "를": true, "에": true, "에서": true,
	"에게": true, "께": true, "한테": true,
	"으로": true, "로": true, "과": true, "와": true,
	"도": true, "만": true, "까지": true, "부터": true,
	"보다": true, "처럼": true, "같이": true, "하고": true,
}

// verbSuffixes is the best-effort heuristic used when no POS tags are stored.
// It over-matches (polite adjectives end the same way) but a false positive
// only shifts blanking priority, never correctness.
var verbSuffixes = []string{"있어요", "었어요", "았어요", "해요", "어요", "아요", "요", "할", "다"}

// BlankSelector chooses which tokens of a sentence to hide
type BlankSelector struct {
	rng *rand.Rand
}

// NewBlankSelector creates a selector backed by the given random source
func NewBlankSelector(rng *rand.Rand) *BlankSelector {
	return &BlankSelector{rng: rng}
}

// SelectBlanks picks desiredCount distinct token indices to blank, ascending.
// Particles and proper nouns are avoided when other candidates exist. In
// verb-practice mode roughly half the slots are filled from verb-like tokens
// first. The result always has exactly min(desiredCount, len(tokens)) entries,
// capped at MaxBlanks.
func (s *BlankSelector) SelectBlanks(tokens []string, posTags []string, desiredCount int, mode string) []int {
	if len(tokens) == 0 {
		return nil
	}
	if desiredCount < 1 {
		desiredCount = 1
	}
	if desiredCount > MaxBlanks {
		desiredCount = MaxBlanks
	}
	if desiredCount > len(tokens) {
		desiredCount = len(tokens)
	}

	tagged := len(posTags) == len(tokens)

	var candidates []int
	for i, tok := range tokens {
		if particleSet[tok] {
			continue
		}
		if tagged && strings.Contains(strings.ToLower(posTags[i]), "proper noun") {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		candidates = allIndices(len(tokens))
	}

	var chosen []int
	if mode == ModeVerbPractice {
		chosen = s.pickVerbFirst(tokens, posTags, tagged, candidates, desiredCount)
	} else {
		chosen = s.pickUniform(candidates, desiredCount)
	}

	// Top up from the excluded indices when the candidate set ran short.
	if len(chosen) < desiredCount {
		taken := make(map[int]bool, len(chosen))
		for _, i := range chosen {
			taken[i] = true
		}
		var rest []int
		for i := range tokens {
			if !taken[i] {
				rest = append(rest, i)
			}
		}
		chosen = append(chosen, s.pickUniform(rest, desiredCount-len(chosen))...)
	}

	sort.Ints(chosen)
	return chosen
}

// pickVerbFirst fills ceil(n/2) slots from verb-like candidates, then the
// rest from the remaining candidates.
func (s *BlankSelector) pickVerbFirst(tokens, posTags []string, tagged bool, candidates []int, desiredCount int) []int {
	var verbs, others []int
	for _, i := range candidates {
		if isVerbLike(tokens[i], posTags, tagged, i) {
			verbs = append(verbs, i)
		} else {
			others = append(others, i)
		}
	}

	verbSlots := (desiredCount + 1) / 2
	chosen := s.pickUniform(verbs, verbSlots)
	chosen = append(chosen, s.pickUniform(others, desiredCount-len(chosen))...)
	if len(chosen) < desiredCount {
		// Not enough non-verbs; draw from the verbs that were left over.
		taken := make(map[int]bool, len(chosen))
		for _, i := range chosen {
			taken[i] = true
		}
		var leftover []int
		for _, i := range candidates {
			if !taken[i] {
				leftover = append(leftover, i)
			}
		}
		chosen = append(chosen, s.pickUniform(leftover, desiredCount-len(chosen))...)
	}
	return chosen
}

// pickUniform draws up to n indices from pool without replacement
func (s *BlankSelector) pickUniform(pool []int, n int) []int {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	shuffled := make([]int, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func isVerbLike(token string, posTags []string, tagged bool, i int) bool {
	if tagged {
		tag := strings.ToLower(posTags[i])
		return strings.Contains(tag, "verb") && !strings.Contains(tag, "adverb")
	}
	for _, suffix := range verbSuffixes {
		if strings.HasSuffix(token, suffix) {
			return true
		}
	}
	// 하고 mid-token is a connective verb form ("하고 있어요" contractions),
	// distinct from the bare particle screened out above.
	return strings.Contains(token, "하고")
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

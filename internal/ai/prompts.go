package ai

import (
	"context"
	"fmt"
	"strings"

	"hanguldrill/internal/korean"
	"hanguldrill/internal/models"

	"github.com/samber/lo"
)

// SentencePair is the JSON contract for synthesized sentences
type SentencePair struct {
	Korean  string `json:"korean"`
	English string `json:"english"`
}

// VerbSentenceOptions steer one verb-practice synthesis attempt. Rotating the
// date modifier and pronoun between attempts is what keeps a batch diverse.
type VerbSentenceOptions struct {
	DateModifier string // 오늘, 어제 or 내일
	Pronoun      string // 나, 너, 우리, 그, 그녀 or 그들
	Verbs        []models.Word
}

// DateModifiers and Pronouns are the rotation pools for verb-practice synthesis
var (
	DateModifiers = []string{"오늘", "어제", "내일"}
	Pronouns      = []string{"나", "너", "우리", "그", "그녀", "그들"}
)

// ExplainSentence asks for a learner-oriented grammar breakdown of a sentence pair
func (c *Client) ExplainSentence(ctx context.Context, koreanText, english string) (string, error) {
	prompt := fmt.Sprintf(`Explain this Korean sentence in detail.
Korean: %s
English: %s
Please include a clear breakdown of grammar (particles, tense, politeness), vocabulary with brief glosses, and any important notes for a learner.
Break down particles such as 은/는, 이/가, 을/를, 에, 에서, etc, verbs and their root forms, and pronouns
Keep it concise and structured, focusing on helping someone understand how the sentence works.`, koreanText, english)

	return c.Generate(ctx, prompt)
}

// GenerateVariation produces one new sentence pair that mirrors the POS
// silhouette of the given sentence while replacing its content words.
func (c *Client) GenerateVariation(ctx context.Context, koreanText, english string) (*SentencePair, error) {
	prompt := fmt.Sprintf(`Create ONE new sentence pair (Korean + English) by REMIXING the content of the given sentence while preserving the sequence of parts of speech (POS) and clause order. Keep it natural and grammatical. Replace verbs, nouns, adjectives, tenses, and particles as needed, but mirror the original POS silhouette. Return ONLY JSON with these keys: {"korean":"...","english":"..."}.
Original (EN): %s
Original (KO): %s`, english, koreanText)

	return c.generatePair(ctx, prompt, 0.7)
}

// GenerateVerbSentence synthesizes one polite-style practice sentence built
// around a verb from the learner's pool, with the requested date modifier and
// subject pronoun.
func (c *Client) GenerateVerbSentence(ctx context.Context, opts VerbSentenceOptions) (*SentencePair, error) {
	verbs := lo.Filter(opts.Verbs, func(w models.Word, _ int) bool { return w.IsVerb() })
	if len(verbs) == 0 {
		return nil, fmt.Errorf("no verbs available for synthesis")
	}
	if len(verbs) > 20 {
		verbs = verbs[:20]
	}

	verbList := strings.Join(lo.Map(verbs, func(w models.Word, _ int) string {
		return fmt.Sprintf("%s (%s)", strings.TrimSpace(w.Korean), w.BaseEnglish())
	}), ", ")
	selected := verbs[0]

	prompt := fmt.Sprintf(`Return ONLY JSON: {"korean":"...","english":"..."}.
Create ONE natural Korean sentence (polite style) that includes exactly one date modifier from [오늘, 어제, 내일] and a simple subject pronoun (나/너/우리/그/그녀/그들).
Use the date modifier "%s" and the pronoun "%s".
IMPORTANT: Use the verb "%s" (%s) in this sentence. If you must use a different verb, choose a different one from this list: %s.
Conjugate the verb correctly for the tense the date modifier implies (오늘 → present, 어제 → past, 내일 → future), including ㅂ/ㄷ/르/ㅅ irregular forms.
NEVER use Arabic numerals in the Korean text - always write numbers as Korean words (native Korean for time and counting objects, Sino-Korean for dates and money).`,
		opts.DateModifier, opts.Pronoun, strings.TrimSpace(selected.Korean), selected.BaseEnglish(), verbList)

	pair, err := c.generatePair(ctx, prompt, 0.8)
	if err != nil {
		return nil, err
	}
	// The model is told to avoid numerals, but they still slip through.
	pair.Korean = korean.ConvertNumbersInText(pair.Korean)
	return pair, nil
}

// GenerateConversationSentence synthesizes one everyday conversational
// sentence pair. topic steers the subject matter so successive calls differ.
func (c *Client) GenerateConversationSentence(ctx context.Context, topic string) (*SentencePair, error) {
	prompt := fmt.Sprintf(`Return ONLY JSON: {"korean":"...","english":"..."}.
Create ONE natural everyday Korean conversational sentence (polite 요-style) that a beginner could practice, about: %s.
Keep it short (4 to 8 words) and write all numbers as Korean words, never Arabic numerals.`, topic)

	return c.generatePair(ctx, prompt, 0.9)
}

// generatePair runs a prompt that must yield a {"korean","english"} object.
// A malformed response is discarded and the generation retried once.
func (c *Client) generatePair(ctx context.Context, prompt string, temperature float64) (*SentencePair, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := c.GenerateWithTemperature(ctx, prompt, temperature)
		if err != nil {
			return nil, err
		}

		var pair SentencePair
		if err := ExtractJSONObject(text, &pair); err != nil {
			lastErr = err
			continue
		}
		pair.Korean = strings.TrimSpace(pair.Korean)
		pair.English = strings.TrimSpace(pair.English)
		if pair.Korean == "" || pair.English == "" {
			lastErr = fmt.Errorf("%w: empty sentence pair", ErrMalformedResponse)
			continue
		}
		return &pair, nil
	}
	return nil, lastErr
}

// Translate translates text between Korean and English. The model decides the
// direction from the input; callers pass whichever side they have.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Translate the following text between Korean and English (Korean input → English output, English input → Korean output).
Return only the translation, with no extra commentary.

%s`, text)

	return c.GenerateWithTemperature(ctx, prompt, 0.3)
}

// TagTokens asks for one part-of-speech tag per space-delimited Korean token.
// Returns nil when the response cannot be matched to the token count.
func (c *Client) TagTokens(ctx context.Context, koreanText string) ([]string, error) {
	tokens := strings.Fields(koreanText)
	if len(tokens) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(`For the Korean sentence below, return ONLY a JSON array of part-of-speech types, one per space-delimited word, in order.
Types must be one of: pronoun, noun, proper noun, verb, adjective, adverb, particle, numeral, determiner, interjection, other.
Sentence: %s
The sentence has %d words, so the array must have exactly %d entries.`, koreanText, len(tokens), len(tokens))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := c.GenerateWithTemperature(ctx, prompt, 0.2)
		if err != nil {
			return nil, err
		}

		var tags []string
		if err := ExtractJSONArray(text, &tags); err != nil {
			lastErr = err
			continue
		}
		if len(tags) != len(tokens) {
			lastErr = fmt.Errorf("%w: got %d tags for %d tokens", ErrMalformedResponse, len(tags), len(tokens))
			continue
		}
		return tags, nil
	}
	return nil, lastErr
}

// VerbConjugations is the full tense table the conjugation endpoint serves
type VerbConjugations struct {
	BaseForm                string `json:"base_form"`
	Romanization            string `json:"base_form_romanization"`
	English                 string `json:"english"`
	PresentInformal         string `json:"present_informal"`
	PresentFormal           string `json:"present_formal"`
	PresentHonorific        string `json:"present_honorific"`
	PastInformal            string `json:"past_informal"`
	PastFormal              string `json:"past_formal"`
	PastHonorific           string `json:"past_honorific"`
	FutureInformal          string `json:"future_informal"`
	FutureFormal            string `json:"future_formal"`
	FutureHonorific         string `json:"future_honorific"`
	ProgressiveInformal     string `json:"progressive_informal"`
	ProgressiveFormal       string `json:"progressive_formal"`
	NegativePresentInformal string `json:"negative_present_informal"`
	NegativePresentFormal   string `json:"negative_present_formal"`
	NegativePastInformal    string `json:"negative_past_informal"`
	NegativePastFormal      string `json:"negative_past_formal"`
	VerbType                string `json:"verb_type"`
	ConjugationPattern      string `json:"conjugation_pattern"`
}

// ConjugateVerb asks the generation service for the full conjugation table of a
// verb. The deterministic korean.Conjugate covers the three polite tenses; this
// covers the long tail (honorifics, negatives, progressive) and odd inputs.
func (c *Client) ConjugateVerb(ctx context.Context, koreanVerb, englishMeaning string) (*VerbConjugations, error) {
	prompt := fmt.Sprintf(`You are a Korean language expert. Given a Korean verb, generate all its conjugated forms.

Input verb: %s
English meaning: %s

Generate all conjugations as a JSON object with these exact keys: base_form, base_form_romanization, english, present_informal, present_formal, present_honorific, past_informal, past_formal, past_honorific, future_informal, future_formal, future_honorific, progressive_informal, progressive_formal, negative_present_informal, negative_present_formal, negative_past_informal, negative_past_formal, verb_type, conjugation_pattern.

IMPORTANT:
- If the input is already conjugated, identify the base form first
- All forms should be natural Korean with proper formality levels
- Return ONLY the JSON object, no other text`, koreanVerb, englishMeaning)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := c.GenerateWithTemperature(ctx, prompt, 0.2)
		if err != nil {
			return nil, err
		}

		var conj VerbConjugations
		if err := ExtractJSONObject(text, &conj); err != nil {
			lastErr = err
			continue
		}
		if conj.BaseForm == "" || conj.English == "" {
			lastErr = fmt.Errorf("%w: conjugation table missing base form", ErrMalformedResponse)
			continue
		}
		return &conj, nil
	}
	return nil, lastErr
}

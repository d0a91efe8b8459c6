package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"hanguldrill/internal/ai"
	"hanguldrill/internal/korean"
	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// conversationTopics rotate through generated conversation-mode sentences
var conversationTopics = []string{
	"ordering food at a restaurant",
	"asking for directions",
	"shopping at a market",
	"talking about the weather",
	"making weekend plans",
	"taking public transport",
	"meeting a friend",
}

// PhraseService owns the AI-enriched content operations: synthesis of new
// practice sentences, explanations, translation and conjugation. It is the
// RecordSynthesizer and Explainer the session engine depends on.
type PhraseService struct {
	phrases *repository.PhraseRepository
	words   *repository.WordRepository
	ai      *ai.Client
	rng     *rand.Rand
}

// NewPhraseService creates a new phrase service
func NewPhraseService(phrases *repository.PhraseRepository, words *repository.WordRepository, client *ai.Client, rng *rand.Rand) *PhraseService {
	return &PhraseService{phrases: phrases, words: words, ai: client, rng: rng}
}

// CreatePhrase stores a new sentence pair and tags its tokens in the
// background contract-free way: a tagging failure still leaves a usable phrase
func (s *PhraseService) CreatePhrase(ctx context.Context, koreanText, englishText, source string) (*models.Phrase, error) {
	phrase, err := s.phrases.CreatePhrase(koreanText, englishText, source)
	if err != nil {
		return nil, err
	}

	tags, err := s.ai.TagTokens(ctx, koreanText)
	if err != nil {
		log.WithError(err).WithField("phrase_id", phrase.ID).Warn("Token tagging failed")
		return phrase, nil
	}
	phrase.POSTags = tags
	if err := s.phrases.UpdatePhrase(phrase); err != nil {
		log.WithError(err).WithField("phrase_id", phrase.ID).Warn("Failed to store token tags")
	}
	return phrase, nil
}

// Explain generates a grammar explanation for a sentence pair
func (s *PhraseService) Explain(ctx context.Context, koreanText, englishText string) (string, error) {
	return s.ai.ExplainSentence(ctx, koreanText, englishText)
}

// RandomPhrase picks one stored phrase uniformly, optionally limited to a source
func (s *PhraseService) RandomPhrase(source string) (*models.Phrase, error) {
	var (
		pool []models.Phrase
		err  error
	)
	if source != "" {
		pool, err = s.phrases.GetPhrasesBySource(source)
	} else {
		pool, err = s.phrases.GetAllPhrases()
	}
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}
	phrase := pool[s.rng.Intn(len(pool))]
	return &phrase, nil
}

// SynthesizeVariation asks for a POS-preserving remix of an existing record
// and persists it into the curriculum pool, so future sessions include it
func (s *PhraseService) SynthesizeVariation(ctx context.Context, base models.Phrase) (*models.Phrase, error) {
	pair, err := s.ai.GenerateVariation(ctx, base.KoreanText, base.EnglishText)
	if err != nil {
		return nil, err
	}
	return s.phrases.CreatePhrase(pair.Korean, pair.English, models.SourceCurriculum)
}

// SynthesizeRecord generates one ephemeral practice sentence for a generated
// mode. Verb-practice attempts rotate the date modifier to force tense
// variety; conversation attempts rotate topics. The result is not persisted.
func (s *PhraseService) SynthesizeRecord(ctx context.Context, mode string, attempt int) (*models.Phrase, error) {
	var pair *ai.SentencePair
	var err error

	switch mode {
	case ModeVerbPractice:
		verbs, verr := s.words.GetLearningVerbs()
		if verr != nil {
			return nil, verr
		}
		s.rng.Shuffle(len(verbs), func(i, j int) {
			verbs[i], verbs[j] = verbs[j], verbs[i]
		})
		pair, err = s.ai.GenerateVerbSentence(ctx, ai.VerbSentenceOptions{
			DateModifier: ai.DateModifiers[attempt%len(ai.DateModifiers)],
			Pronoun:      ai.Pronouns[s.rng.Intn(len(ai.Pronouns))],
			Verbs:        verbs,
		})
	case ModeConversation:
		topic := conversationTopics[(attempt+s.rng.Intn(len(conversationTopics)))%len(conversationTopics)]
		pair, err = s.ai.GenerateConversationSentence(ctx, topic)
	default:
		return nil, fmt.Errorf("mode %q does not synthesize records", mode)
	}
	if err != nil {
		return nil, err
	}

	return &models.Phrase{
		ID:          uuid.New().String(),
		KoreanText:  pair.Korean,
		EnglishText: pair.English,
		Source:      mode,
		CreatedAt:   time.Now(),
	}, nil
}

// Translate proxies a translation request to the generation service
func (s *PhraseService) Translate(ctx context.Context, text string) (string, error) {
	return s.ai.Translate(ctx, text)
}

// Conjugate returns the full conjugation table for a verb. The generation
// service produces the complete table (honorifics, negatives, verb-type
// classification); when it is unconfigured or fails, the deterministic
// conjugator serves the polite present/past/future forms.
func (s *PhraseService) Conjugate(ctx context.Context, verb, englishMeaning string) (*ai.VerbConjugations, error) {
	table, err := s.ai.ConjugateVerb(ctx, verb, englishMeaning)
	if err == nil {
		return table, nil
	}

	conj, cerr := korean.Conjugate(verb)
	if cerr != nil {
		return nil, err
	}
	log.WithError(err).WithField("verb", verb).Warn("AI conjugation failed, serving deterministic forms only")
	return &ai.VerbConjugations{
		BaseForm:      conj.Base,
		English:       englishMeaning,
		PresentFormal: conj.Present,
		PastFormal:    conj.Past,
		FutureFormal:  conj.Future,
		VerbType:      "regular",
	}, nil
}

// BackfillExplanations generates and stores explanations for up to limit
// phrases that are missing one, pausing between calls. Used by the nightly
// scheduler.
func (s *PhraseService) BackfillExplanations(ctx context.Context, limit int) (int, error) {
	pending, err := s.phrases.GetPhrasesWithoutExplanation(limit)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, p := range pending {
		if filled > 0 {
			time.Sleep(explainDelay)
		}
		text, err := s.ai.ExplainSentence(ctx, p.KoreanText, p.EnglishText)
		if err != nil {
			log.WithError(err).WithField("phrase_id", p.ID).Warn("Explanation backfill failed")
			continue
		}
		if err := s.phrases.UpdateExplanation(p.ID, text); err != nil {
			log.WithError(err).WithField("phrase_id", p.ID).Warn("Failed to store backfilled explanation")
			continue
		}
		filled++
	}
	return filled, nil
}

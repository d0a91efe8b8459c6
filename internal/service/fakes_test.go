package service

import (
	"context"
	"fmt"
	"time"

	"hanguldrill/internal/models"
)

func noSleep(time.Duration) {}

func phrasePool(n int, source string) []models.Phrase {
	pool := make([]models.Phrase, n)
	for i := range pool {
		pool[i] = models.Phrase{
			ID:          fmt.Sprintf("%s-%d", source, i),
			KoreanText:  fmt.Sprintf("문장 %d 입니다", i),
			EnglishText: fmt.Sprintf("sentence %d", i),
			Source:      source,
		}
	}
	return pool
}

// fakeSynth serves canned records and counts calls
type fakeSynth struct {
	recordCalls    int
	variationCalls int
	recordErr      error
	variationErr   error
	// when set, SynthesizeRecord returns records[recordCalls % len]
	records []models.Phrase
}

func (f *fakeSynth) SynthesizeRecord(ctx context.Context, mode string, attempt int) (*models.Phrase, error) {
	f.recordCalls++
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	if len(f.records) > 0 {
		p := f.records[(f.recordCalls-1)%len(f.records)]
		return &p, nil
	}
	return &models.Phrase{
		ID:          fmt.Sprintf("gen-%s-%d", mode, f.recordCalls),
		KoreanText:  fmt.Sprintf("생성 문장 %d 이에요", f.recordCalls),
		EnglishText: fmt.Sprintf("generated %d", f.recordCalls),
		Source:      mode,
	}, nil
}

func (f *fakeSynth) SynthesizeVariation(ctx context.Context, base models.Phrase) (*models.Phrase, error) {
	f.variationCalls++
	if f.variationErr != nil {
		return nil, f.variationErr
	}
	return &models.Phrase{
		ID:          fmt.Sprintf("var-%d", f.variationCalls),
		KoreanText:  base.KoreanText + " 다시",
		EnglishText: base.EnglishText + " again",
		Source:      models.SourceCurriculum,
	}, nil
}

type fakeExplainer struct {
	calls int
	err   error
}

func (f *fakeExplainer) Explain(ctx context.Context, korean, english string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "explanation of " + korean, nil
}

// fakeMixStore backs the composer with fixed pools
type fakeMixStore struct {
	phrases       []models.Phrase
	conversations []models.Conversation
	phrasesErr    error
}

func (f *fakeMixStore) GetPhrasesBySource(source string) ([]models.Phrase, error) {
	if f.phrasesErr != nil {
		return nil, f.phrasesErr
	}
	var out []models.Phrase
	for _, p := range f.phrases {
		if p.Source == source {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeMixStore) GetAllConversations() ([]models.Conversation, error) {
	return f.conversations, nil
}

type recordedAttempt struct {
	id       string
	correct  bool
	firstTry bool
}

// fakePracticeStore backs the controller with a fixed pool
type fakePracticeStore struct {
	phrases  []models.Phrase
	attempts []recordedAttempt
}

func (f *fakePracticeStore) GetPhrasesBySource(source string) ([]models.Phrase, error) {
	var out []models.Phrase
	for _, p := range f.phrases {
		if p.Source == source {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePracticeStore) RecordAttempt(id string, correct, firstTry bool) error {
	f.attempts = append(f.attempts, recordedAttempt{id, correct, firstTry})
	return nil
}

// fakeMixRepo keeps the mix singleton in memory
type fakeMixRepo struct {
	state      *models.MixState
	saves      int
	progresses int
}

func (f *fakeMixRepo) LoadMix() (*models.MixState, error) {
	if f.state == nil {
		return nil, nil
	}
	copied := *f.state
	return &copied, nil
}

func (f *fakeMixRepo) SaveMix(state *models.MixState) error {
	copied := *state
	f.state = &copied
	f.saves++
	return nil
}

func (f *fakeMixRepo) UpdateProgress(cursor, firstTryCorrect int) error {
	if f.state != nil {
		f.state.Cursor = cursor
		f.state.FirstTryCorrectCount = firstTryCorrect
	}
	f.progresses++
	return nil
}

type fakeScores struct {
	snaps []models.ScoreSnapshot
}

func (f *fakeScores) RecordScore(totalItems, firstTryCorrect int) (*models.ScoreSnapshot, error) {
	snap := models.ScoreSnapshot{
		ID:              int64(len(f.snaps) + 1),
		TotalItems:      totalItems,
		FirstTryCorrect: firstTryCorrect,
		CreatedAt:       time.Now(),
	}
	f.snaps = append(f.snaps, snap)
	return &snap, nil
}

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.spoken = append(f.spoken, text)
	return nil
}

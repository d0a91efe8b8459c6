package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"hanguldrill/internal/models"
)

func testConversation(lines int) models.Conversation {
	conv := models.Conversation{ID: "conv-1", Title: "인사"}
	for i := 0; i < lines; i++ {
		conv.Lines = append(conv.Lines, models.ConversationLine{
			Korean:   "대화 문장",
			English:  "conversation line",
			Position: i,
		})
	}
	return conv
}

func TestComposeSize(t *testing.T) {
	const convLen = 3
	store := &fakeMixStore{
		phrases:       phrasePool(9, models.SourceCurriculum),
		conversations: []models.Conversation{testConversation(convLen)},
	}
	synth := &fakeSynth{} // yields 5 unique verb sentences
	composer := NewMixComposer(store, synth, &fakeExplainer{}, rand.New(rand.NewSource(7)), noSleep)

	state, err := composer.Compose(context.Background())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	want := 2*mixCurriculumCount + 2*convLen + 2*mixVerbAttempts
	if len(state.Items) != want {
		t.Fatalf("mix size = %d, want %d", len(state.Items), want)
	}
	if state.Cursor != 0 || state.FirstTryCorrectCount != 0 {
		t.Fatalf("fresh mix must start at cursor 0 with zero score, got %d/%d", state.Cursor, state.FirstTryCorrectCount)
	}
}

func TestComposeEachCurriculumPickAppearsTwice(t *testing.T) {
	store := &fakeMixStore{
		phrases:       phrasePool(5, models.SourceCurriculum),
		conversations: []models.Conversation{testConversation(2)},
	}
	composer := NewMixComposer(store, &fakeSynth{}, &fakeExplainer{}, rand.New(rand.NewSource(7)), noSleep)

	state, err := composer.Compose(context.Background())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	counts := make(map[string]int)
	for _, item := range state.Items {
		if item.Source == models.SourceCurriculum {
			counts[item.Phrase.ID]++
		}
	}
	if len(counts) != mixCurriculumCount {
		t.Fatalf("distinct curriculum phrases = %d, want %d", len(counts), mixCurriculumCount)
	}
	for id, n := range counts {
		if n != 2 {
			t.Errorf("curriculum phrase %s appears %d times, want 2", id, n)
		}
	}
}

func TestComposeGroupCoherence(t *testing.T) {
	const convLen = 4
	store := &fakeMixStore{
		phrases:       phrasePool(6, models.SourceCurriculum),
		conversations: []models.Conversation{testConversation(convLen)},
	}

	// Many seeds, so a contiguity break in any shuffle shows up.
	for seed := int64(0); seed < 20; seed++ {
		composer := NewMixComposer(store, &fakeSynth{}, &fakeExplainer{}, rand.New(rand.NewSource(seed)), noSleep)
		state, err := composer.Compose(context.Background())
		if err != nil {
			t.Fatalf("Compose() error: %v", err)
		}

		firstSeen := make(map[string]int)
		lastSeen := make(map[string]int)
		groupSize := make(map[string]int)
		for i, item := range state.Items {
			if _, ok := firstSeen[item.GroupID]; !ok {
				firstSeen[item.GroupID] = i
			}
			lastSeen[item.GroupID] = i
			groupSize[item.GroupID]++
		}
		for gid := range groupSize {
			if lastSeen[gid]-firstSeen[gid]+1 != groupSize[gid] {
				t.Fatalf("seed %d: group %s not contiguous", seed, gid)
			}
		}

		// Conversation lines keep their original order inside each pass.
		for _, gid := range []string{"conv-repeat-0", "conv-repeat-1"} {
			if groupSize[gid] != convLen {
				t.Fatalf("seed %d: group %s has %d items, want %d", seed, gid, groupSize[gid], convLen)
			}
			wantLine := 0
			for _, item := range state.Items {
				if item.GroupID != gid {
					continue
				}
				wantID := fmt.Sprintf("conv-1-line-%d", wantLine)
				if item.Phrase.ID != wantID {
					t.Fatalf("seed %d: group %s line %d is %s, want %s", seed, gid, wantLine, item.Phrase.ID, wantID)
				}
				wantLine++
			}
		}
	}
}

func TestComposeDeduplicatesVerbSentences(t *testing.T) {
	dup := models.Phrase{ID: "v", KoreanText: "같은 문장", EnglishText: "same sentence", Source: models.SourceVerbPractice}
	store := &fakeMixStore{
		phrases:       phrasePool(5, models.SourceCurriculum),
		conversations: []models.Conversation{testConversation(2)},
	}
	synth := &fakeSynth{records: []models.Phrase{dup}} // every attempt yields the same pair
	composer := NewMixComposer(store, synth, &fakeExplainer{}, rand.New(rand.NewSource(7)), noSleep)

	state, err := composer.Compose(context.Background())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	verbItems := 0
	for _, item := range state.Items {
		if item.Source == models.SourceVerbPractice {
			verbItems++
		}
	}
	if verbItems != 2 {
		t.Fatalf("verb items = %d, want 2 (one unique sentence, twice)", verbItems)
	}
}

func TestComposeSynthFailureShrinksBatch(t *testing.T) {
	store := &fakeMixStore{
		phrases:       phrasePool(5, models.SourceCurriculum),
		conversations: []models.Conversation{testConversation(2)},
	}
	synth := &fakeSynth{recordErr: errors.New("generation down")}
	composer := NewMixComposer(store, synth, &fakeExplainer{}, rand.New(rand.NewSource(7)), noSleep)

	state, err := composer.Compose(context.Background())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	want := 2*mixCurriculumCount + 2*2
	if len(state.Items) != want {
		t.Fatalf("mix size = %d, want %d without verb sentences", len(state.Items), want)
	}
}

func TestComposeAttachesExplanations(t *testing.T) {
	store := &fakeMixStore{
		phrases:       phrasePool(5, models.SourceCurriculum),
		conversations: []models.Conversation{testConversation(2)},
	}
	explainer := &fakeExplainer{}
	composer := NewMixComposer(store, &fakeSynth{}, explainer, rand.New(rand.NewSource(7)), noSleep)

	state, err := composer.Compose(context.Background())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	for _, item := range state.Items {
		if item.Phrase.Explanation == "" {
			t.Fatalf("item %s missing explanation", item.ID)
		}
	}
	// 5 curriculum + 2 conversation lines + 5 verb sentences, one call each.
	if explainer.calls != 12 {
		t.Fatalf("explainer calls = %d, want 12", explainer.calls)
	}
}

func TestComposeEmptyCurriculumFails(t *testing.T) {
	store := &fakeMixStore{}
	composer := NewMixComposer(store, &fakeSynth{}, &fakeExplainer{}, rand.New(rand.NewSource(7)), noSleep)
	if _, err := composer.Compose(context.Background()); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"hanguldrill/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Composition constants: how much of each source goes into a mix, and the
// pauses between sequential generation calls that keep the rate-limited
// external API happy.
const (
	mixCurriculumCount = 5
	mixVerbAttempts    = 5
	explainDelay       = 200 * time.Millisecond
	verbSynthDelay     = 300 * time.Millisecond
)

// Explainer produces a learner-oriented explanation for one sentence pair
type Explainer interface {
	Explain(ctx context.Context, korean, english string) (string, error)
}

// MixStore is the slice of the backing store the composer reads from
type MixStore interface {
	GetPhrasesBySource(source string) ([]models.Phrase, error)
	GetAllConversations() ([]models.Conversation, error)
}

// MixComposer builds one interleaved practice sequence from the three content
// sources: stored curriculum phrases, one stored conversation, and freshly
// synthesized verb-practice sentences.
type MixComposer struct {
	store     MixStore
	synth     RecordSynthesizer
	explainer Explainer
	rng       *rand.Rand
	sleep     func(time.Duration)
}

// NewMixComposer creates a composer. sleep is injectable so tests can skip the
// inter-call delays.
func NewMixComposer(store MixStore, synth RecordSynthesizer, explainer Explainer, rng *rand.Rand, sleep func(time.Duration)) *MixComposer {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &MixComposer{store: store, synth: synth, explainer: explainer, rng: rng, sleep: sleep}
}

// Compose builds a fresh mix: 5 curriculum phrases each twice as their own
// group, one conversation twice as two contiguous groups, and up to 5 unique
// verb sentences each twice as their own group. Group order is shuffled; item
// order inside a group is not. Cursor and score start at zero.
func (c *MixComposer) Compose(ctx context.Context) (*models.MixState, error) {
	groups, err := c.curriculumGroups(ctx)
	if err != nil {
		return nil, err
	}

	convGroups, err := c.conversationGroups(ctx)
	if err != nil {
		return nil, err
	}
	groups = append(groups, convGroups...)

	groups = append(groups, c.verbGroups(ctx)...)

	c.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})

	var items []models.MixItem
	for _, g := range groups {
		items = append(items, g...)
	}

	return &models.MixState{
		Items:     items,
		Cursor:    0,
		UpdatedAt: time.Now(),
	}, nil
}

// curriculumGroups draws 5 distinct curriculum phrases and emits each twice,
// every emission its own single-item group so the shuffle can interleave them
func (c *MixComposer) curriculumGroups(ctx context.Context) ([][]models.MixItem, error) {
	pool, err := c.store.GetPhrasesBySource(models.SourceCurriculum)
	if err != nil {
		return nil, fmt.Errorf("loading curriculum pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("curriculum: %w", ErrNoContent)
	}

	c.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	picks := pool
	if len(picks) > mixCurriculumCount {
		picks = picks[:mixCurriculumCount]
	}

	var groups [][]models.MixItem
	for i := range picks {
		c.attachExplanation(ctx, &picks[i])
		for repeat := 0; repeat < 2; repeat++ {
			groups = append(groups, []models.MixItem{{
				ID:          uuid.New().String(),
				GroupID:     fmt.Sprintf("cur-%s-%d", picks[i].ID, repeat),
				Source:      models.SourceCurriculum,
				RepeatIndex: repeat,
				Phrase:      picks[i],
			}})
		}
	}
	return groups, nil
}

// conversationGroups picks one conversation and emits its full transcript
// twice, each pass one contiguous group so the lines stay in order
func (c *MixComposer) conversationGroups(ctx context.Context) ([][]models.MixItem, error) {
	convs, err := c.store.GetAllConversations()
	if err != nil {
		return nil, fmt.Errorf("loading conversations: %w", err)
	}
	if len(convs) == 0 {
		// Mixes still work without a stored conversation set.
		log.Warn("No conversations stored, composing mix without one")
		return nil, nil
	}

	conv := convs[c.rng.Intn(len(convs))]

	phrases := make([]models.Phrase, len(conv.Lines))
	for i, line := range conv.Lines {
		phrases[i] = models.Phrase{
			ID:          fmt.Sprintf("%s-line-%d", conv.ID, line.Position),
			KoreanText:  line.Korean,
			EnglishText: line.English,
			Source:      models.SourceConversation,
		}
		c.attachExplanation(ctx, &phrases[i])
	}

	var groups [][]models.MixItem
	for repeat := 0; repeat < 2; repeat++ {
		groupID := fmt.Sprintf("conv-repeat-%d", repeat)
		group := make([]models.MixItem, len(phrases))
		for i, p := range phrases {
			group[i] = models.MixItem{
				ID:          uuid.New().String(),
				GroupID:     groupID,
				Source:      models.SourceConversation,
				RepeatIndex: repeat,
				Phrase:      p,
			}
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// verbGroups synthesizes up to 5 verb-practice sentences, deduplicated by
// exact sentence pair, and emits each twice. Synthesis failures shrink the
// batch instead of failing the mix.
func (c *MixComposer) verbGroups(ctx context.Context) [][]models.MixItem {
	seen := make(map[string]bool)
	var uniques []models.Phrase

	for attempt := 0; attempt < mixVerbAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(verbSynthDelay)
		}
		p, err := c.synth.SynthesizeRecord(ctx, ModeVerbPractice, attempt)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("Verb sentence synthesis failed")
			continue
		}
		key := p.KoreanText + "\x00" + p.EnglishText
		if seen[key] {
			continue
		}
		seen[key] = true
		uniques = append(uniques, *p)
	}

	var groups [][]models.MixItem
	for i := range uniques {
		c.attachExplanation(ctx, &uniques[i])
		for repeat := 0; repeat < 2; repeat++ {
			groups = append(groups, []models.MixItem{{
				ID:          uuid.New().String(),
				GroupID:     fmt.Sprintf("verb-%s-%d", uniques[i].ID, repeat),
				Source:      models.SourceVerbPractice,
				RepeatIndex: repeat,
				Phrase:      uniques[i],
			}})
		}
	}
	return groups
}

// attachExplanation fills in a missing explanation, pausing briefly first to
// stay under the generation API's rate limit. A failed call leaves the
// explanation empty rather than failing the mix.
func (c *MixComposer) attachExplanation(ctx context.Context, p *models.Phrase) {
	if c.explainer == nil || p.Explanation != "" {
		return
	}
	c.sleep(explainDelay)
	text, err := c.explainer.Explain(ctx, p.KoreanText, p.EnglishText)
	if err != nil {
		log.WithError(err).WithField("phrase_id", p.ID).Warn("Explanation generation failed")
		return
	}
	p.Explanation = text
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"hanguldrill/internal/models"

	log "github.com/sirupsen/logrus"
)

// sessionWindowSize is how many records rotate before any repetition
const sessionWindowSize = 5

// ErrNoContent is returned when a mode has no records and none can be synthesized
var ErrNoContent = errors.New("no practice content available")

// RecordSynthesizer produces fresh practice content on demand. Variations are
// persisted into the backing store by the implementation before being returned,
// so future windows include them.
type RecordSynthesizer interface {
	SynthesizeRecord(ctx context.Context, mode string, attempt int) (*models.Phrase, error)
	SynthesizeVariation(ctx context.Context, base models.Phrase) (*models.Phrase, error)
}

// SessionRotator serves records for one non-mix practice mode through a small
// rotating window, tracking which records were already shown and refilling or
// regenerating the window on exhaustion.
type SessionRotator struct {
	mode       string
	windowSize int
	rng        *rand.Rand
	synth      RecordSynthesizer

	pool       []models.Phrase // curriculum backing set, nil for generated modes
	candidates []models.Phrase
	usedIDs    map[string]bool
	servedIDs  map[string]bool // across windows, drives the exhaustion fallback
}

// NewSessionRotator creates a rotator for one mode. pool is the curriculum
// backing set; generated modes (verb practice, conversation) pass nil and get
// their windows from the synthesizer.
func NewSessionRotator(mode string, pool []models.Phrase, synth RecordSynthesizer, rng *rand.Rand) *SessionRotator {
	return &SessionRotator{
		mode:       mode,
		windowSize: sessionWindowSize,
		rng:        rng,
		synth:      synth,
		pool:       pool,
		usedIDs:    make(map[string]bool),
		servedIDs:  make(map[string]bool),
	}
}

// Next returns the next record to practice. It never repeats a record before
// the current window is exhausted. On curriculum pool exhaustion it serves an
// AI-synthesized variation; if that fails it re-serves an existing record and
// returns the record together with the error so the caller can surface it once.
func (r *SessionRotator) Next(ctx context.Context) (*models.Phrase, error) {
	if r.mode == ModeCurriculum {
		return r.nextCurriculum(ctx)
	}
	return r.nextGenerated(ctx)
}

func (r *SessionRotator) nextCurriculum(ctx context.Context) (*models.Phrase, error) {
	if len(r.pool) == 0 {
		return nil, ErrNoContent
	}

	if p := r.serveFromWindow(); p != nil {
		return p, nil
	}

	if r.refillWindow() {
		return r.serveFromWindow(), nil
	}

	// Every record in the pool has been served. Grow the pool with a
	// synthesized variation of a random existing record.
	base := r.pool[r.rng.Intn(len(r.pool))]
	variant, err := r.synth.SynthesizeVariation(ctx, base)
	if err != nil {
		log.WithError(err).WithField("base_id", base.ID).Warn("Variation synthesis failed, recycling existing records")
		r.usedIDs = make(map[string]bool)
		r.servedIDs = make(map[string]bool)
		r.refillWindow()
		return r.serveFromWindow(), fmt.Errorf("variation synthesis failed: %w", err)
	}

	r.pool = append(r.pool, *variant)
	r.usedIDs[variant.ID] = true
	r.servedIDs[variant.ID] = true
	return variant, nil
}

func (r *SessionRotator) nextGenerated(ctx context.Context) (*models.Phrase, error) {
	if p := r.serveFromWindow(); p != nil {
		return p, nil
	}

	var fresh []models.Phrase
	for i := 0; i < r.windowSize; i++ {
		p, err := r.synth.SynthesizeRecord(ctx, r.mode, i)
		if err != nil {
			log.WithError(err).WithField("mode", r.mode).Warn("Record synthesis failed")
			continue
		}
		fresh = append(fresh, *p)
	}
	if len(fresh) == 0 {
		return nil, fmt.Errorf("%s window regeneration: %w", r.mode, ErrNoContent)
	}

	r.candidates = fresh
	r.usedIDs = make(map[string]bool)
	return r.serveFromWindow(), nil
}

// serveFromWindow returns the first unused candidate, or nil when the window
// is exhausted
func (r *SessionRotator) serveFromWindow() *models.Phrase {
	for i := range r.candidates {
		p := &r.candidates[i]
		if !r.usedIDs[p.ID] {
			r.usedIDs[p.ID] = true
			r.servedIDs[p.ID] = true
			return p
		}
	}
	return nil
}

// refillWindow draws a new window from the not-yet-served part of the pool.
// Returns false when the pool is fully served.
func (r *SessionRotator) refillWindow() bool {
	var unserved []models.Phrase
	for _, p := range r.pool {
		if !r.servedIDs[p.ID] {
			unserved = append(unserved, p)
		}
	}
	if len(unserved) == 0 {
		return false
	}

	r.rng.Shuffle(len(unserved), func(i, j int) {
		unserved[i], unserved[j] = unserved[j], unserved[i]
	})
	if len(unserved) > r.windowSize {
		unserved = unserved[:r.windowSize]
	}
	r.candidates = unserved
	r.usedIDs = make(map[string]bool)
	return true
}

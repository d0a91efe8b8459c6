package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hanguldrill/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Controller states
type ControllerState string

const (
	StateLoading       ControllerState = "loading"
	StateAwaitingInput ControllerState = "awaiting_input"
	StateFeedback      ControllerState = "feedback"
	StateAdvancing     ControllerState = "advancing"
	StateError         ControllerState = "error"
)

// speakAdvanceDelay is the pause after speech playback before the next
// sentence appears
const speakAdvanceDelay = 1200 * time.Millisecond

var (
	// ErrBusy is returned when an operation arrives while another is settling
	ErrBusy = errors.New("practice operation already in flight")
	// ErrInvalidState is returned for operations not legal in the current state
	ErrInvalidState = errors.New("operation not valid in current state")
)

// PracticeStore is the slice of the backing store the controller needs
type PracticeStore interface {
	GetPhrasesBySource(source string) ([]models.Phrase, error)
	RecordAttempt(id string, correct, firstTry bool) error
}

// MixPersistence is the singleton mix read/write surface
type MixPersistence interface {
	LoadMix() (*models.MixState, error)
	SaveMix(state *models.MixState) error
	UpdateProgress(cursor, firstTryCorrect int) error
}

// ScoreRecorder appends completed-mix results
type ScoreRecorder interface {
	RecordScore(totalItems, firstTryCorrect int) (*models.ScoreSnapshot, error)
}

// MixBuilder composes a fresh mix sequence
type MixBuilder interface {
	Compose(ctx context.Context) (*models.MixState, error)
}

// Speaker reads a sentence aloud, returning once playback finishes
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// BlankDraw is the blanking applied to the currently displayed sentence
type BlankDraw struct {
	TokenIndices  []int
	BlankedTokens []string
}

// SubmitResult describes the outcome of one answer submission
type SubmitResult struct {
	Correct          bool
	SentenceComplete bool
	MixCompleted     bool
	ActiveBlank      int
	Hint             string // original token, set on an incorrect submission
}

// Snapshot is the controller's externally visible view of the session
type Snapshot struct {
	Mode            string          `json:"mode"`
	State           ControllerState `json:"state"`
	Tokens          []string        `json:"tokens,omitempty"`
	BlankIndices    []int           `json:"blank_indices,omitempty"`
	ActiveBlank     int             `json:"active_blank"`
	EnglishText     string          `json:"english_text,omitempty"`
	Explanation     string          `json:"explanation,omitempty"`
	MixCursor       int             `json:"mix_cursor,omitempty"`
	MixTotal        int             `json:"mix_total,omitempty"`
	FirstTryCorrect int             `json:"first_try_correct,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// PracticeController orchestrates one learner's practice session across the
// four modes. It owns the session state; every operation runs to completion
// before the next is accepted, and results of an operation that was superseded
// by a mode switch are discarded.
type PracticeController struct {
	store    PracticeStore
	mixes    MixPersistence
	scores   ScoreRecorder
	composer MixBuilder
	synth    RecordSynthesizer
	speaker  Speaker
	selector *BlankSelector
	rng      *rand.Rand
	sleep    func(time.Duration)

	mu      sync.Mutex
	busy    bool
	opToken string

	mode        string
	state       ControllerState
	lastErr     error
	rotator     *SessionRotator
	mix         *models.MixState
	current     *models.Phrase
	draw        *BlankDraw
	inputs      []string
	activeBlank int
	blankCount  int

	showAnswerUsed bool
	hadWrong       bool
}

// NewPracticeController wires a controller. speaker may be nil (silent
// sessions); sleep is injectable so tests can skip the advance delay.
func NewPracticeController(store PracticeStore, mixes MixPersistence, scores ScoreRecorder, composer MixBuilder, synth RecordSynthesizer, speaker Speaker, rng *rand.Rand, sleep func(time.Duration)) *PracticeController {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &PracticeController{
		store:      store,
		mixes:      mixes,
		scores:     scores,
		composer:   composer,
		synth:      synth,
		speaker:    speaker,
		selector:   NewBlankSelector(rng),
		rng:        rng,
		sleep:      sleep,
		state:      StateLoading,
		blankCount: 1,
	}
}

// SetBlankCount sets how many tokens are hidden per sentence (1 to 3). Takes
// effect from the next drawn sentence.
func (c *PracticeController) SetBlankCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > MaxBlanks {
		n = MaxBlanks
	}
	c.blankCount = n
}

// Start begins a session in the given mode
func (c *PracticeController) Start(ctx context.Context, mode string) error {
	token, err := c.takeOver(mode)
	if err != nil {
		return err
	}
	return c.loadNext(ctx, token)
}

// SwitchMode abandons the current sentence and re-enters loading for the new
// mode. Legal only while loading or awaiting input; any in-flight result is
// discarded via the operation token.
func (c *PracticeController) SwitchMode(ctx context.Context, mode string) error {
	c.mu.Lock()
	if c.state != StateLoading && c.state != StateAwaitingInput {
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot switch mode during %s", ErrInvalidState, c.state)
	}
	c.mu.Unlock()

	token, err := c.takeOver(mode)
	if err != nil {
		return err
	}
	return c.loadNext(ctx, token)
}

// Retry recovers from the error state by reloading the current mode's content
func (c *PracticeController) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateError {
		c.mu.Unlock()
		return fmt.Errorf("%w: retry requires the error state", ErrInvalidState)
	}
	mode := c.mode
	c.mu.Unlock()

	token, err := c.takeOver(mode)
	if err != nil {
		return err
	}
	return c.loadNext(ctx, token)
}

// Next abandons the displayed sentence and draws the following one. In mix
// mode the skipped item is consumed without first-try credit.
func (c *PracticeController) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != StateAwaitingInput || c.current == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no sentence to skip", ErrInvalidState)
	}
	mode := c.mode
	token := uuid.New().String()
	c.opToken = token
	c.busy = true
	c.state = StateLoading
	c.draw = nil
	c.current = nil
	c.inputs = nil
	c.activeBlank = 0
	c.mu.Unlock()

	if mode == ModeMix {
		if _, err := c.advanceMix(ctx, false); err != nil {
			c.fail(token, err)
			return err
		}
	}
	return c.loadNext(ctx, token)
}

// takeOver claims the controller for a new load in the given mode. Refused
// while another operation is settling: one operation at a time, the caller
// retries once the current one lands.
func (c *PracticeController) takeOver(mode string) (string, error) {
	switch mode {
	case ModeCurriculum, ModeConversation, ModeVerbPractice, ModeMix:
	default:
		return "", fmt.Errorf("%w: unknown practice mode %q", ErrInvalidState, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return "", ErrBusy
	}

	fromError := c.state == StateError

	token := uuid.New().String()
	c.opToken = token
	c.busy = true
	c.state = StateLoading
	c.lastErr = nil
	c.draw = nil
	c.current = nil
	c.inputs = nil
	c.activeBlank = 0

	// A rotator built during a failed load may hold an empty pool snapshot, so
	// recovery rebuilds it.
	if c.mode != mode || c.rotator == nil || fromError {
		c.mode = mode
		c.rotator = nil
		c.mix = nil
	}
	return token, nil
}

// SubmitAnswer evaluates the learner's input for the active blank and drives
// the resulting transition. On full-sentence correctness it records the
// attempt, speaks the sentence, waits out the advance delay and loads the
// next one before returning.
func (c *PracticeController) SubmitAnswer(ctx context.Context, input string) (*SubmitResult, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.state != StateAwaitingInput || c.draw == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: no sentence awaiting input", ErrInvalidState)
	}

	slot := c.activeBlank
	accepted := acceptedForSlot(c.current.AcceptedAnswers, c.draw.BlankedTokens, slot)

	if !IsCorrect(input, accepted) {
		c.hadWrong = true
		c.state = StateFeedback
		hint := c.draw.BlankedTokens[slot]
		c.state = StateAwaitingInput
		id := c.current.ID
		c.mu.Unlock()

		if err := c.store.RecordAttempt(id, false, false); err != nil {
			log.WithError(err).Warn("Failed to record incorrect attempt")
		}
		return &SubmitResult{Correct: false, ActiveBlank: slot, Hint: hint}, nil
	}

	c.inputs[slot] = input
	if slot < len(c.draw.TokenIndices)-1 {
		c.activeBlank = slot + 1
		result := &SubmitResult{Correct: true, ActiveBlank: c.activeBlank}
		c.mu.Unlock()
		return result, nil
	}

	// Whole sentence correct.
	c.state = StateFeedback
	firstTry := !c.hadWrong && !c.showAnswerUsed
	current := *c.current
	mode := c.mode
	token := uuid.New().String()
	c.opToken = token
	c.busy = true
	c.mu.Unlock()

	if err := c.store.RecordAttempt(current.ID, true, firstTry); err != nil {
		log.WithError(err).Warn("Failed to record correct attempt")
	}

	result := &SubmitResult{Correct: true, SentenceComplete: true, ActiveBlank: slot}

	if mode == ModeMix {
		completed, err := c.advanceMix(ctx, firstTry)
		if err != nil {
			c.fail(token, err)
			return nil, err
		}
		result.MixCompleted = completed
	}

	c.speakAndWait(ctx, token, current.KoreanText)
	if !c.stillRelevant(token) {
		return result, nil
	}

	if err := c.loadNext(ctx, token); err != nil {
		return result, err
	}
	return result, nil
}

// ShowAnswer reveals the active blank's original token. Using it forfeits
// first-try credit for this sentence.
func (c *PracticeController) ShowAnswer() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingInput || c.draw == nil {
		return "", fmt.Errorf("%w: no sentence awaiting input", ErrInvalidState)
	}
	c.showAnswerUsed = true
	return c.draw.BlankedTokens[c.activeBlank], nil
}

// View returns the current session snapshot
func (c *PracticeController) View() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Mode:        c.mode,
		State:       c.state,
		ActiveBlank: c.activeBlank,
	}
	if c.current != nil && c.draw != nil {
		snap.Tokens = maskTokens(c.current.Tokens(), c.draw.TokenIndices, c.inputs)
		snap.BlankIndices = c.draw.TokenIndices
		snap.EnglishText = c.current.EnglishText
		snap.Explanation = c.current.Explanation
	}
	if c.mode == ModeMix && c.mix != nil {
		snap.MixCursor = c.mix.Cursor
		snap.MixTotal = len(c.mix.Items)
		snap.FirstTryCorrect = c.mix.FirstTryCorrectCount
	}
	if c.lastErr != nil {
		snap.Error = c.lastErr.Error()
	}
	return snap
}

// advanceMix moves the cursor forward and, on completion, records the score,
// composes a replacement mix and resets to its start. Returns whether a mix
// was completed.
func (c *PracticeController) advanceMix(ctx context.Context, firstTry bool) (bool, error) {
	c.mu.Lock()
	if c.mix == nil {
		c.mu.Unlock()
		return false, fmt.Errorf("%w: no mix loaded", ErrInvalidState)
	}
	if firstTry {
		c.mix.FirstTryCorrectCount++
	}
	c.mix.Cursor++
	cursor := c.mix.Cursor
	correct := c.mix.FirstTryCorrectCount
	total := len(c.mix.Items)
	completed := c.mix.Completed()
	c.mu.Unlock()

	if err := c.mixes.UpdateProgress(cursor, correct); err != nil {
		return false, fmt.Errorf("persisting mix progress: %w", err)
	}
	if !completed {
		return false, nil
	}

	if _, err := c.scores.RecordScore(total, correct); err != nil {
		return true, fmt.Errorf("recording mix score: %w", err)
	}
	log.WithFields(log.Fields{"total": total, "first_try_correct": correct}).Info("Mix completed")

	fresh, err := c.composer.Compose(ctx)
	if err != nil {
		return true, fmt.Errorf("composing replacement mix: %w", err)
	}
	if err := c.mixes.SaveMix(fresh); err != nil {
		return true, fmt.Errorf("persisting replacement mix: %w", err)
	}

	c.mu.Lock()
	c.mix = fresh
	c.mu.Unlock()
	return true, nil
}

// loadNext draws the next record for the current mode and presents it blanked.
// Any failure moves the controller to the error state; a superseded load is
// dropped without touching session state.
func (c *PracticeController) loadNext(ctx context.Context, token string) error {
	record, loadErr := c.nextRecord(ctx, token)
	if record == nil {
		if loadErr != nil {
			c.fail(token, loadErr)
		}
		return loadErr
	}
	if !c.stillRelevant(token) {
		return nil
	}
	c.present(token, record)
	// A record served alongside an error (variation-synthesis fallback) is
	// usable, but the error still reaches the caller once.
	return loadErr
}

func (c *PracticeController) nextRecord(ctx context.Context, token string) (*models.Phrase, error) {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	if mode == ModeMix {
		return c.nextMixRecord(ctx, token)
	}

	rotator, err := c.ensureRotator(ctx, mode, token)
	if err != nil || rotator == nil {
		return nil, err
	}
	return rotator.Next(ctx)
}

// nextMixRecord loads or lazily composes the persisted mix, recomposing when
// the stored one is already completed. The op token is rechecked after every
// suspension so a superseded load never persists or installs its mix.
func (c *PracticeController) nextMixRecord(ctx context.Context, token string) (*models.Phrase, error) {
	c.mu.Lock()
	mix := c.mix
	c.mu.Unlock()

	if mix == nil {
		stored, err := c.mixes.LoadMix()
		if err != nil {
			return nil, err
		}
		mix = stored
	}

	if mix == nil || len(mix.Items) == 0 || mix.Completed() {
		fresh, err := c.composer.Compose(ctx)
		if err != nil {
			return nil, err
		}
		if !c.stillRelevant(token) {
			return nil, nil
		}
		if err := c.mixes.SaveMix(fresh); err != nil {
			return nil, err
		}
		mix = fresh
	}

	c.mu.Lock()
	if c.opToken != token {
		c.mu.Unlock()
		return nil, nil
	}
	c.mix = mix
	item := mix.Current()
	c.mu.Unlock()

	if item == nil {
		return nil, ErrNoContent
	}
	return &item.Phrase, nil
}

// ensureRotator returns the mode's rotator, building it on first use. A nil,
// nil return means the operation was superseded while the pool loaded.
func (c *PracticeController) ensureRotator(ctx context.Context, mode, token string) (*SessionRotator, error) {
	c.mu.Lock()
	if c.rotator != nil {
		r := c.rotator
		c.mu.Unlock()
		return r, nil
	}
	c.mu.Unlock()

	var pool []models.Phrase
	if mode == ModeCurriculum {
		var err error
		pool, err = c.store.GetPhrasesBySource(models.SourceCurriculum)
		if err != nil {
			return nil, fmt.Errorf("loading curriculum pool: %w", err)
		}
	}
	rotator := NewSessionRotator(mode, pool, c.synth, c.rng)

	c.mu.Lock()
	if c.opToken != token {
		c.mu.Unlock()
		return nil, nil
	}
	c.rotator = rotator
	c.mu.Unlock()
	return rotator, nil
}

// present blanks the record and opens it for input
func (c *PracticeController) present(token string, record *models.Phrase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opToken != token {
		return
	}

	tokens := record.Tokens()
	selectionMode := c.mode
	if c.mode == ModeMix {
		if item := c.mix.Current(); item != nil {
			selectionMode = item.Source
		}
	}

	indices := c.selector.SelectBlanks(tokens, record.POSTags, c.blankCount, selectionMode)
	blanked := make([]string, len(indices))
	for i, idx := range indices {
		blanked[i] = tokens[idx]
	}

	c.current = record
	c.draw = &BlankDraw{TokenIndices: indices, BlankedTokens: blanked}
	c.inputs = make([]string, len(indices))
	c.activeBlank = 0
	c.showAnswerUsed = false
	c.hadWrong = false
	c.state = StateAwaitingInput
	c.busy = false
}

// speakAndWait reads the completed sentence aloud and holds the advance
// delay. A dropped request context cancels the playback.
func (c *PracticeController) speakAndWait(ctx context.Context, token, text string) {
	c.mu.Lock()
	c.state = StateAdvancing
	c.mu.Unlock()

	if c.speaker != nil {
		if err := c.speaker.Speak(ctx, text); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("Speech playback failed")
		}
	}

	if c.stillRelevant(token) {
		c.sleep(speakAdvanceDelay)
	}
}

func (c *PracticeController) fail(token string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opToken != token {
		return
	}
	c.state = StateError
	c.lastErr = err
	c.busy = false
	log.WithError(err).WithField("mode", c.mode).Error("Practice session load failed")
}

func (c *PracticeController) stillRelevant(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opToken == token
}

// maskTokens replaces blanked positions with the learner's confirmed input or
// an empty marker
func maskTokens(tokens []string, indices []int, inputs []string) []string {
	masked := make([]string, len(tokens))
	copy(masked, tokens)
	for i, idx := range indices {
		if idx < 0 || idx >= len(masked) {
			continue
		}
		if inputs[i] != "" {
			masked[idx] = inputs[i]
		} else {
			masked[idx] = "____"
		}
	}
	return masked
}

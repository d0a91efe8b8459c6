package scheduler

import (
	"context"
	"time"

	"hanguldrill/internal/service"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// backfillBatchSize caps how many explanations one nightly run generates
const backfillBatchSize = 25

// Scheduler runs the nightly maintenance jobs
type Scheduler struct {
	cron    *gocron.Scheduler
	phrases *service.PhraseService
}

// New creates the scheduler with the explanation backfill job registered at
// the given local time of day ("HH:MM")
func New(phrases *service.PhraseService, backfillAt string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    gocron.NewScheduler(time.Local),
		phrases: phrases,
	}

	if _, err := s.cron.Every(1).Day().At(backfillAt).Do(s.runBackfill); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	log.Info("Scheduler started")
}

// Stop waits for a running job to finish and stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runBackfill() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	filled, err := s.phrases.BackfillExplanations(ctx, backfillBatchSize)
	if err != nil {
		log.WithError(err).Error("Explanation backfill failed")
		return
	}
	log.WithField("filled", filled).Info("Explanation backfill completed")
}

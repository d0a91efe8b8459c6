package main

import (
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hanguldrill/internal/ai"
	"hanguldrill/internal/audio"
	"hanguldrill/internal/config"
	"hanguldrill/internal/database"
	"hanguldrill/internal/handlers"
	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"
	"hanguldrill/internal/scheduler"
	"hanguldrill/internal/security"
	"hanguldrill/internal/service"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()
	log.WithField("type", cfg.DatabaseType).Info("Database connection established")

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}
	log.Info("Migrations completed")

	// Repositories
	phraseRepo := repository.NewPhraseRepository(db)
	wordRepo := repository.NewWordRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	mixRepo := repository.NewMixRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	// External collaborators
	aiClient := ai.New(cfg)
	ttsService := audio.NewTTSService(cfg.AudioPath)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.ScoreReportTo)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize email service")
	}

	// Session engine
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	phraseService := service.NewPhraseService(phraseRepo, wordRepo, aiClient, rng)
	scoreService := service.NewScoreService(scoreRepo, emailService)
	composer := service.NewMixComposer(mixStore{phraseRepo, conversationRepo}, phraseService, phraseService, rng, nil)
	controller := service.NewPracticeController(
		practiceStore{phraseRepo},
		mixRepo,
		scoreService,
		composer,
		phraseService,
		audio.NewSpeaker(ttsService),
		rng,
		nil,
	)

	// Nightly explanation backfill
	sched, err := scheduler.New(phraseService, cfg.BackfillAt)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize scheduler")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP surface
	authEnabled := cfg.PasswordHash != ""
	if !authEnabled {
		log.Warn("APP_PASSWORD_HASH not set, authentication disabled")
	}
	sessions := security.NewSessionManager(cfg.JWTSecret, cfg.SessionDuration)
	mw := handlers.NewMiddleware(sessions, authEnabled)
	loginLimiter := security.NewLoginLimiter(10, time.Minute)

	authHandler := handlers.NewAuthHandler(sessions, cfg.PasswordHash, loginLimiter)
	phraseHandler := handlers.NewPhraseHandler(phraseRepo, phraseService)
	wordHandler := handlers.NewWordHandler(wordRepo)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)
	practiceHandler := handlers.NewPracticeHandler(controller)
	mixHandler := handlers.NewMixHandler(mixRepo, composer)
	chatHandler := handlers.NewChatHandler(aiClient, phraseService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	ttsHandler := handlers.NewTTSHandler(ttsService)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/logout", authHandler.Logout)

	mux.HandleFunc("GET /api/phrases", mw.RequireAuth(phraseHandler.List))
	mux.HandleFunc("GET /api/phrases/random", mw.RequireAuth(phraseHandler.Random))
	mux.HandleFunc("POST /api/phrases", mw.RequireAuth(phraseHandler.Create))
	mux.HandleFunc("PUT /api/phrases/{id}", mw.RequireAuth(phraseHandler.Update))
	mux.HandleFunc("DELETE /api/phrases/{id}", mw.RequireAuth(phraseHandler.Delete))
	mux.HandleFunc("POST /api/phrases/{id}/explain", mw.RequireAuth(phraseHandler.Explain))
	mux.HandleFunc("POST /api/phrases/{id}/attempt", mw.RequireAuth(phraseHandler.RecordResult))

	mux.HandleFunc("GET /api/words", mw.RequireAuth(wordHandler.List))
	mux.HandleFunc("GET /api/words/learning", mw.RequireAuth(wordHandler.Learning))
	mux.HandleFunc("POST /api/words", mw.RequireAuth(wordHandler.Create))
	mux.HandleFunc("PUT /api/words/{id}", mw.RequireAuth(wordHandler.Update))
	mux.HandleFunc("DELETE /api/words/{id}", mw.RequireAuth(wordHandler.Delete))

	mux.HandleFunc("GET /api/conversations", mw.RequireAuth(conversationHandler.List))
	mux.HandleFunc("POST /api/conversations", mw.RequireAuth(conversationHandler.Create))
	mux.HandleFunc("DELETE /api/conversations/{id}", mw.RequireAuth(conversationHandler.Delete))

	mux.HandleFunc("POST /api/practice/start", mw.RequireAuth(practiceHandler.Start))
	mux.HandleFunc("POST /api/practice/answer", mw.RequireAuth(practiceHandler.Answer))
	mux.HandleFunc("POST /api/practice/show-answer", mw.RequireAuth(practiceHandler.ShowAnswer))
	mux.HandleFunc("POST /api/practice/mode", mw.RequireAuth(practiceHandler.SwitchMode))
	mux.HandleFunc("POST /api/practice/next", mw.RequireAuth(practiceHandler.Next))
	mux.HandleFunc("POST /api/practice/retry", mw.RequireAuth(practiceHandler.Retry))
	mux.HandleFunc("GET /api/practice/state", mw.RequireAuth(practiceHandler.State))

	mux.HandleFunc("GET /api/mix", mw.RequireAuth(mixHandler.Get))
	mux.HandleFunc("POST /api/mix/recompose", mw.RequireAuth(mixHandler.Recompose))

	mux.HandleFunc("POST /api/chat", mw.RequireAuth(chatHandler.Chat))
	mux.HandleFunc("POST /api/translate", mw.RequireAuth(chatHandler.Translate))
	mux.HandleFunc("POST /api/conjugate", mw.RequireAuth(chatHandler.Conjugate))
	mux.HandleFunc("GET /api/numbers/{number}", mw.RequireAuth(chatHandler.ConvertNumber))

	mux.HandleFunc("GET /api/scores", mw.RequireAuth(scoreHandler.List))
	mux.HandleFunc("GET /api/tts", mw.RequireAuth(ttsHandler.Speak))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      mw.LogRequests(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Server shutting down")
}

// mixStore narrows the repositories to the composer's read surface
type mixStore struct {
	phrases       *repository.PhraseRepository
	conversations *repository.ConversationRepository
}

func (s mixStore) GetPhrasesBySource(source string) ([]models.Phrase, error) {
	return s.phrases.GetPhrasesBySource(source)
}

func (s mixStore) GetAllConversations() ([]models.Conversation, error) {
	return s.conversations.GetAllConversations()
}

// practiceStore narrows the phrase repository to the controller's surface
type practiceStore struct {
	phrases *repository.PhraseRepository
}

func (s practiceStore) GetPhrasesBySource(source string) ([]models.Phrase, error) {
	return s.phrases.GetPhrasesBySource(source)
}

func (s practiceStore) RecordAttempt(id string, correct, firstTry bool) error {
	return s.phrases.RecordAttempt(id, correct, firstTry)
}

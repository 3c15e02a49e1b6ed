package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"assessment-backend/internal/config"
	"assessment-backend/internal/database"
	"assessment-backend/internal/services"
	"assessment-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	store := storage.NewGormStore(db)
	clock := services.SystemClock()

	scoringService := services.NewScoringService()
	quizService := services.NewQuizService(store, clock)
	attemptService := services.NewAttemptService(store, store, scoringService, clock, cfg.AttemptRetryLimit)
	autoSubmitService := services.NewAutoSubmitService(store, attemptService, clock)

	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		quizService.RunActivationSweep(cfg.ActivationSweepInterval, stopCh)
	}()
	go func() {
		defer wg.Done()
		autoSubmitService.Run(cfg.AutoSubmitSweepInterval, stopCh)
	}()

	log.Printf("assessment engine started (activation sweep every %s, auto-submit sweep every %s)",
		cfg.ActivationSweepInterval, cfg.AutoSubmitSweepInterval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("shutting down")
	close(stopCh)
	wg.Wait()
}

package services

import (
	"context"
	"log"
	"time"

	"lexora-lms/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService schedules background maintenance jobs:
// the overdue sweep and refresh-token cleanup.
type CronService struct {
	cron             *cron.Cron
	loanService      *LoanService
	refreshTokenRepo repositories.RefreshTokenRepository
	sweepSchedule    string
}

// NewCronService creates a new cron service. sweepSchedule takes a cron
// expression or a descriptor like "@hourly".
func NewCronService(
	loanService *LoanService,
	refreshTokenRepo repositories.RefreshTokenRepository,
	sweepSchedule string,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		loanService:      loanService,
		refreshTokenRepo: refreshTokenRepo,
		sweepSchedule:    sweepSchedule,
	}
}

// Start registers the jobs and launches the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.sweepSchedule, s.runOverdueSweep); err != nil {
		return err
	}

	// Purge expired refresh tokens nightly
	if _, err := s.cron.AddFunc("@daily", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🚀 CronService started (sweep schedule: %s)", s.sweepSchedule)

	// Run one sweep immediately so a restarted server doesn't wait a full
	// schedule interval to catch up on overdue loans.
	go s.runOverdueSweep()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.loanService.SweepOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue sweep error: %v", err)
		return
	}
	if count > 0 {
		log.Printf("⏰ Overdue sweep marked %d loan(s) OVERDUE", count)
	}
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Refresh token cleanup error: %v", err)
	}
}

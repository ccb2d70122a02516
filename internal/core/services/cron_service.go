package services

import (
	"context"
	"log"
	"time"

	"generate-recruit/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the background maintenance jobs: the optional
// stale-claim sweeper and refresh token cleanup.
type CronService struct {
	cron             *cron.Cron
	reviewService    *ReviewService
	refreshTokenRepo repositories.RefreshTokenRepository
	claimLease       time.Duration
}

// NewCronService creates a new cron service. A zero claim lease
// disables the sweeper entirely; claims are then held until released
// or decided.
func NewCronService(
	reviewService *ReviewService,
	refreshTokenRepo repositories.RefreshTokenRepository,
	claimLeaseMinutes int,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		reviewService:    reviewService,
		refreshTokenRepo: refreshTokenRepo,
		claimLease:       time.Duration(claimLeaseMinutes) * time.Minute,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() {
	if s.claimLease > 0 {
		s.cron.AddFunc("@every 1m", s.sweepStaleClaims)
		log.Printf("⏰ Stale-claim sweeper enabled (lease %s)", s.claimLease)
	}

	// Expired refresh tokens are dead weight; purge nightly
	s.cron.AddFunc("@daily", s.purgeExpiredTokens)

	s.cron.Start()
	log.Println("✅ Cron service started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) sweepStaleClaims() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.reviewService.ReleaseStaleClaims(ctx, s.claimLease); err != nil {
		log.Printf("⚠️ Stale-claim sweep failed: %v", err)
	}
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Expired token purge failed: %v", err)
	}
}

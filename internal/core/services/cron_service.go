package services

import (
	"context"
	"log"
	"time"

	"expensehub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	refreshTokenRepo  repositories.RefreshTokenRepository
	passwordResetRepo repositories.PasswordResetRepository
	cron              *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository, passwordResetRepo repositories.PasswordResetRepository) *CronService {
	return &CronService{
		refreshTokenRepo:  refreshTokenRepo,
		passwordResetRepo: passwordResetRepo,
		cron:              cron.New(),
	}
}

// Start registers the scheduled jobs and starts the scheduler
func (s *CronService) Start() {
	// Expired auth tokens pile up quickly with refresh rotation; purge daily
	s.cron.AddFunc("@daily", s.cleanupExpiredTokens)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) cleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Refresh token cleanup error: %v", err)
	}
	if err := s.passwordResetRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Password reset token cleanup error: %v", err)
	}

	log.Println("🗑️ Expired auth tokens cleaned up")
}

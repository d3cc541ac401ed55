package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
)

// staleAccountWindow is how long a registered account may stay unactivated
// before the nightly cleanup removes it.
const staleAccountWindow = 72 * time.Hour

// CleanupScheduler removes expired password reset tokens and accounts that
// never completed activation.
type CleanupScheduler struct {
	cron      *cron.Cron
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
}

func NewCleanupScheduler(resetRepo repository.PasswordResetRepository, userRepo repository.UserRepository) *CleanupScheduler {
	return &CleanupScheduler{
		cron:      cron.New(),
		resetRepo: resetRepo,
		userRepo:  userRepo,
	}
}

// Start registers the nightly cleanup job and starts the cron loop.
func (s *CleanupScheduler) Start() error {
	// Runs daily at 3:00 AM, off the traffic peak.
	_, err := s.cron.AddFunc("0 3 * * *", s.runCleanup)
	if err != nil {
		logger.Error("Failed to add cron job for token cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

func (s *CleanupScheduler) runCleanup() {
	logger.Info("Starting scheduled cleanup", nil)

	tokens, err := s.resetRepo.DeleteExpired()
	if err != nil {
		logger.Error("Failed to delete expired password reset tokens", err)
	}

	cutoff := time.Now().Add(-staleAccountWindow)
	accounts, err := s.userRepo.DeleteStaleInactive(cutoff)
	if err != nil {
		logger.Error("Failed to delete stale inactive accounts", err)
	}

	logger.Info("Scheduled cleanup finished", map[string]interface{}{
		"expired_tokens_deleted": tokens,
		"stale_accounts_deleted": accounts,
	})
}

// Stop halts the cron loop.
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cleanup scheduler stopped", nil)
}

package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	authRepo "academykit_backend/internals/features/users/auth/repository"
)

const defaultTTLDays = 7

// CleanupTokens removes blacklist rows and refresh tokens that are past their usefulness.
// Blacklist rows are kept ttlDays after expiry.
func CleanupTokens(ctx context.Context, db *gorm.DB, ttlDays int) {
	if ttlDays <= 0 {
		ttlDays = defaultTTLDays
	}
	now := time.Now().UTC()

	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, now.Add(-time.Duration(ttlDays)*24*time.Hour))
	if err != nil {
		log.Error().Err(err).Msg("[CLEANUP] token_blacklist cleanup failed")
	} else {
		log.Info().Int64("deleted", n).Msg("[CLEANUP] token_blacklist cleaned")
	}

	n, err = authRepo.CleanupRefreshTokens(ctx, db, now)
	if err != nil {
		log.Error().Err(err).Msg("[CLEANUP] refresh_tokens cleanup failed")
		return
	}
	log.Info().Int64("deleted", n).Msg("[CLEANUP] refresh_tokens cleaned")
}

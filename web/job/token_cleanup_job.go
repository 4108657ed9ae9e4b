// Package job holds the cron jobs scheduled by the web server.
package job

import (
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/service"

	"go.uber.org/atomic"
)

// TokenCleanupJob deletes used and expired password reset tokens.
type TokenCleanupJob struct {
	resetService service.PasswordResetService
	running      atomic.Bool
}

func NewTokenCleanupJob() *TokenCleanupJob {
	return new(TokenCleanupJob)
}

func (j *TokenCleanupJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug("token cleanup still running, skipping")
		return
	}
	defer j.running.Store(false)

	n, err := j.resetService.CleanExpired()
	if err != nil {
		logger.Warning("token cleanup job err:", err)
		return
	}
	if n > 0 {
		logger.Infof("removed %d stale password reset tokens", n)
	}
}

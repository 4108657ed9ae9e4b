package job

import (
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/service"

	"go.uber.org/atomic"
)

// AuditCleanupJob cleans up old audit logs.
type AuditCleanupJob struct {
	auditService  service.AuditLogService
	retentionDays int
	running       atomic.Bool
}

// NewAuditCleanupJob keeps retentionDays of audit history; values <= 0 mean 90 days.
func NewAuditCleanupJob(retentionDays int) *AuditCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &AuditCleanupJob{retentionDays: retentionDays}
}

func (j *AuditCleanupJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		return
	}
	defer j.running.Store(false)

	logger.Debug("Audit cleanup job started")
	if _, err := j.auditService.CleanOldLogs(j.retentionDays); err != nil {
		logger.Warning("Failed to clean old audit logs:", err)
	} else {
		logger.Debugf("Audit cleanup completed (retention: %d days)", j.retentionDays)
	}
}

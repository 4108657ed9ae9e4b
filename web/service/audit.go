package service

import (
	"time"

	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/common"
	"github.com/next-levels/go-cms/web/entity"

	"github.com/goccy/go-json"
)

// AuditLogService records and queries the audit trail.
type AuditLogService struct{}

// AuditFilter narrows GetAuditLogs; zero fields are ignored.
type AuditFilter struct {
	UserID   string     `form:"userId"`
	Action   string     `form:"action"`
	Resource string     `form:"resource"`
	Start    *time.Time `form:"start" time_format:"2006-01-02"`
	End      *time.Time `form:"end" time_format:"2006-01-02"`
}

func (s *AuditLogService) LogAction(entry model.AuditLog, details map[string]any) error {
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Warning("Failed to marshal audit log details:", err)
		} else {
			entry.Details = string(data)
		}
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		logger.Warningf("Failed to create audit log: user=%s, action=%s, resource=%s, error=%v", entry.UserID, entry.Action, entry.Resource, err)
		return err
	}
	return nil
}

func (s *AuditLogService) GetAuditLogs(f AuditFilter, q entity.PageQuery) ([]model.AuditLog, entity.Pagination, error) {
	q = q.Normalize()
	query := database.GetDB().Model(&model.AuditLog{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.Resource != "" {
		query = query.Where("resource = ?", f.Resource)
	}
	if f.Start != nil {
		query = query.Where("timestamp >= ?", f.Start)
	}
	if f.End != nil {
		query = query.Where("timestamp <= ?", f.End)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, entity.Pagination{}, err
	}
	var logs []model.AuditLog
	if err := query.Order("timestamp DESC").Limit(q.PageSize).Offset(q.Offset()).Find(&logs).Error; err != nil {
		return nil, entity.Pagination{}, err
	}
	return logs, entity.NewPagination(q, total), nil
}

// CleanOldLogs removes audit logs older than days.
func (s *AuditLogService) CleanOldLogs(days int) (int64, error) {
	if days <= 0 {
		return 0, common.NewError("days must be greater than 0")
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	res := database.GetDB().Where("timestamp < ?", cutoff).Delete(&model.AuditLog{})
	if res.Error != nil {
		return 0, res.Error
	}
	logger.Infof("Cleaned %d old audit logs (older than %d days)", res.RowsAffected, days)
	return res.RowsAffected, nil
}

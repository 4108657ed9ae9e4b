package service

import (
	"testing"
	"time"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogLifecycle(t *testing.T) {
	setup(t)
	s := AuditLogService{}

	require.NoError(t, s.LogAction(model.AuditLog{UserID: "u1", Email: "a@example.local", Action: "CREATE", Resource: "user"},
		map[string]any{"path": "/api/users"}))
	require.NoError(t, s.LogAction(model.AuditLog{UserID: "u2", Action: "DELETE", Resource: "order", Timestamp: time.Now().AddDate(0, 0, -200)}, nil))

	logs, p, err := s.GetAuditLogs(AuditFilter{Action: "CREATE"}, entity.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"path":"/api/users"}`, logs[0].Details)

	n, err := s.CleanOldLogs(90)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.CleanOldLogs(0)
	assert.Error(t, err)
}

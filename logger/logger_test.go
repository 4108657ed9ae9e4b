package logger

import (
	"strings"
	"testing"

	"github.com/next-levels/go-cms/config"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func resetBuffer() {
	bufferMu.Lock()
	logBuffer = nil
	bufferMu.Unlock()
}

func TestGetLogsFiltersByLevel(t *testing.T) {
	resetBuffer()
	Debug("debug line")
	Info("info line")
	Warning("warn line")
	Errorf("error %d", 1)

	logs := GetLogs(10, "WARNING")
	assert.Len(t, logs, 2)
	assert.True(t, strings.HasSuffix(logs[0], "ERROR - error 1"))
	assert.True(t, strings.HasSuffix(logs[1], "WARNING - warn line"))
}

func TestGetLogsLimit(t *testing.T) {
	resetBuffer()
	for i := 0; i < 5; i++ {
		Infof("line %d", i)
	}
	logs := GetLogs(2, "DEBUG")
	assert.Len(t, logs, 2)
	assert.True(t, strings.HasSuffix(logs[0], "line 4"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(config.Warn)
	assert.NoError(t, err)
	assert.Equal(t, logging.WARNING, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

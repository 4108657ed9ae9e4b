package job

import (
	"io"
	"os"

	"github.com/next-levels/go-cms/logger"

	"go.uber.org/atomic"
)

// ClearLogsJob rotates the log file: the current content moves to <path>.1
// and the previous rotation is dropped.
type ClearLogsJob struct {
	path    string
	running atomic.Bool
}

func NewClearLogsJob(path string) *ClearLogsJob {
	return &ClearLogsJob{path: path}
}

func (j *ClearLogsJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug("log rotation still running, skipping")
		return
	}
	defer j.running.Store(false)

	prevPath := j.path + ".1"

	logFilePrev, err := os.OpenFile(prevPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	defer logFilePrev.Close()

	logFile, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return
	} else if err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	defer logFile.Close()

	if _, err := io.Copy(logFilePrev, logFile); err != nil {
		logger.Warning("clear logs job err:", err)
		return
	}
	if err := os.Truncate(j.path, 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}

package service

import (
	"bytes"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/common"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status describes the host the CMS runs on.
type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Logical  int       `json:"logicalPro"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Disk struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"disk"`
	Uptime    uint64    `json:"uptime"`
	AppUptime uint64    `json:"appUptime"`
	Loads     []float64 `json:"loads"`
	Version   string    `json:"version"`
}

var appStart = time.Now()

type ServerService struct {
	mu         sync.Mutex
	lastStatus *Status
}

// GetStatus samples the host; results younger than two seconds are reused.
func (s *ServerService) GetStatus() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastStatus != nil && time.Since(s.lastStatus.T) < 2*time.Second {
		return s.lastStatus
	}

	status := &Status{T: time.Now(), Logical: runtime.NumCPU(), Version: config.GetVersion()}
	status.AppUptime = uint64(time.Since(appStart).Seconds())

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	var err error
	status.CpuCores, err = cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu cores count failed:", err)
	}

	if status.Uptime, err = host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	if distInfo, err := disk.Usage("/"); err != nil {
		logger.Warning("get disk usage failed:", err)
	} else {
		status.Disk.Current = distInfo.Used
		status.Disk.Total = distInfo.Total
	}

	if avg, err := load.Avg(); err != nil {
		if runtime.GOOS != "windows" {
			logger.Warning("get load avg failed:", err)
		}
	} else {
		status.Loads = []float64{avg.Load1, avg.Load5, avg.Load15}
	}

	s.lastStatus = status
	return status
}

// GetLogs returns up to count buffered log lines at or above level.
func (s *ServerService) GetLogs(count int, level string) []string {
	if count < 1 || count > 10000 {
		count = 100
	}
	return logger.GetLogs(count, level)
}

// GetDb checkpoints and returns the sqlite database file.
func (s *ServerService) GetDb() ([]byte, error) {
	if !database.IsSQLite() {
		return nil, common.NewError("database backup is only available for sqlite")
	}
	if err := database.Checkpoint(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(database.Path())
	if err != nil {
		return nil, err
	}
	if ok, err := database.IsSQLiteDB(bytes.NewReader(data)); err != nil || !ok {
		return nil, common.NewError("invalid sqlite database file")
	}
	return data, nil
}

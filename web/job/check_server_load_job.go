package job

import (
	"context"
	"fmt"
	"time"

	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/service"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/atomic"
)

// CheckServerLoadJob alerts the Telegram admins when CPU or memory usage
// exceeds its threshold. A threshold of 0 disables that check.
type CheckServerLoadJob struct {
	tgbotService service.Tgbot

	cpuThreshold int
	memThreshold int

	// sample returns the CPU and memory usage in percent.
	sample  func() (float64, float64, error)
	running atomic.Bool
}

func NewCheckServerLoadJob(cpuThreshold, memThreshold int) *CheckServerLoadJob {
	return &CheckServerLoadJob{
		cpuThreshold: cpuThreshold,
		memThreshold: memThreshold,
		sample:       sampleLoad,
	}
}

func sampleLoad() (float64, float64, error) {
	percent, err := cpu.Percent(10*time.Second, false)
	if err != nil {
		return 0, 0, err
	}
	if len(percent) == 0 {
		return 0, 0, fmt.Errorf("no cpu sample")
	}
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	return percent[0], memInfo.UsedPercent, nil
}

func (j *CheckServerLoadJob) Run() {
	if j.cpuThreshold <= 0 && j.memThreshold <= 0 {
		return
	}
	// sampling takes ten seconds
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug("server load check still running, skipping")
		return
	}
	defer j.running.Store(false)
	if !j.tgbotService.IsRunning() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, msg := range j.messages() {
		j.tgbotService.SendMsgToTgbotAdmins(ctx, msg)
	}
}

func (j *CheckServerLoadJob) messages() []string {
	cpuPercent, memPercent, err := j.sample()
	if err != nil {
		logger.Error("CheckServerLoadJob -- sampling failed:", err)
		return nil
	}
	var msgs []string
	if j.cpuThreshold > 0 && cpuPercent > float64(j.cpuThreshold) {
		msgs = append(msgs, fmt.Sprintf("🔴 CPU usage %.2f%% exceeds the threshold of %d%%", cpuPercent, j.cpuThreshold))
	}
	if j.memThreshold > 0 && memPercent > float64(j.memThreshold) {
		msgs = append(msgs, fmt.Sprintf("🔴 Memory usage %.2f%% exceeds the threshold of %d%%", memPercent, j.memThreshold))
	}
	return msgs
}

package app

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/pbnjay/memory"

	"tickdown/internal/logger"
)

const monitorInterval = 30 * time.Second

// Monitor periodically logs runtime statistics. Purely observational;
// nothing reads its output at runtime.
type Monitor struct {
	log    logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMonitor(log logger.Logger) *Monitor {
	if log == nil {
		log = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Monitor) Start() {
	m.log.Info("Monitor", "system memory", map[string]interface{}{
		"total_mb": memory.TotalMemory() / 1024 / 1024,
		"free_mb":  memory.FreeMemory() / 1024 / 1024,
	})

	m.wg.Add(1)
	go m.loop()
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.logMetrics()
		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Monitor) logMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.log.Debug("Monitor", "performance metrics", map[string]interface{}{
		"go_memory_mb":      memStats.Alloc / 1024 / 1024,
		"go_total_alloc_mb": memStats.TotalAlloc / 1024 / 1024,
		"go_gc_runs":        memStats.NumGC,
		"goroutine_count":   runtime.NumGoroutine(),
		"system_free_mb":    memory.FreeMemory() / 1024 / 1024,
	})
}

func (m *Monitor) Shutdown() {
	m.cancel()
	m.wg.Wait()
}

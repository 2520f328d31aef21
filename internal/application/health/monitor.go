package health

import (
	"sync"
	"time"

	"github.com/23f3001208/iris-classifier/pkg/ports"
	"go.uber.org/zap"
)

// Monitor periodically reports the health state
type Monitor struct {
	state     *State
	reporters []ports.HealthReporter
	interval  time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewMonitor creates a new health monitor
func NewMonitor(state *State, interval time.Duration, logger *zap.Logger, reporters ...ports.HealthReporter) *Monitor {
	return &Monitor{
		state:     state,
		reporters: reporters,
		interval:  interval,
		logger:    logger,
	}
}

// Start reports once immediately, then every interval until Stop
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	m.Report()
	go m.run(m.stopCh, m.doneCh)
}

// Stop stops the monitor and waits for its loop to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main monitoring loop
func (m *Monitor) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.Report()
		}
	}
}

// Report pushes the current state to every reporter
func (m *Monitor) Report() {
	alive, ready := m.state.Snapshot()

	for _, r := range m.reporters {
		r.ReportHealth(alive, ready)
	}

	if !alive || !ready {
		m.logger.Warn("service is degraded",
			zap.Bool("alive", alive),
			zap.Bool("ready", ready))
		return
	}

	m.logger.Debug("service health check",
		zap.Bool("alive", alive),
		zap.Bool("ready", ready))
}

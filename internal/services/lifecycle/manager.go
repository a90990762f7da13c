// Package lifecycle sequences graceful shutdown of the service components.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// CloseFunc releases one component. It must respect the context deadline.
type CloseFunc func(ctx context.Context) error

type closer struct {
	name string
	fn   CloseFunc
}

// Manager collects close functions during startup and runs them in reverse
// registration order on shutdown, so dependents stop before their
// dependencies.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	closers []closer
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register appends a close function under a component name.
func (m *Manager) Register(name string, fn CloseFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closers = append(m.closers, closer{name: name, fn: fn})
}

// Shutdown runs every registered close function, newest first, under the
// configured timeout. All closers run even when earlier ones fail; their
// errors are joined.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	closers := make([]closer, len(m.closers))
	copy(closers, m.closers)
	m.mu.Unlock()

	var joined error
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		started := time.Now()
		if err := c.fn(ctx); err != nil {
			m.logger.Error("component failed to stop",
				zap.String("component", c.name),
				zap.Error(err))
			joined = errors.Join(joined, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", c.name),
			zap.Duration("took", time.Since(started)))
	}
	return joined
}

// Listen cancels the application context on SIGINT or SIGTERM. A second
// signal aborts the process without waiting for the graceful path.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()

		sig = <-sigCh
		m.logger.Warn("second signal received, aborting", zap.String("signal", sig.String()))
		os.Exit(1)
	}()
}

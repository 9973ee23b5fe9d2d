// Package hooks runs the external notify program after lease file writes.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/athena-dhcpd/udhcpd/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// NotifyRunner executes notify_file with the lease file path as its only
// argument. Runs are bounded by a semaphore; when every slot is busy the
// run is dropped, since the next write will notify again.
type NotifyRunner struct {
	program string
	timeout time.Duration
	logger  *slog.Logger
	sem     chan struct{}
	wg      sync.WaitGroup
}

// NewNotifyRunner creates a runner for program. A zero timeout or
// concurrency picks the defaults (30s, one run at a time).
func NewNotifyRunner(program string, timeout time.Duration, concurrency int, logger *slog.Logger) *NotifyRunner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &NotifyRunner{
		program: program,
		timeout: timeout,
		logger:  logger,
		sem:     make(chan struct{}, concurrency),
	}
}

// Notify starts the program in the background. It never blocks on the
// program itself. No shell is involved.
func (r *NotifyRunner) Notify(ctx context.Context, leaseFile string) {
	select {
	case r.sem <- struct{}{}:
	default:
		metrics.HookExecutions.WithLabelValues("notify", "dropped").Inc()
		r.logger.Warn("notify still running, skipping",
			"program", r.program,
			"lease_file", leaseFile)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() { <-r.sem }()
		r.execute(ctx, leaseFile)
	}()
}

func (r *NotifyRunner) execute(ctx context.Context, leaseFile string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.program, leaseFile)
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)
	metrics.HookDuration.WithLabelValues("notify").Observe(duration.Seconds())

	if err != nil {
		metrics.HookExecutions.WithLabelValues("notify", "error").Inc()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.logger.Error("notify program timed out, killed",
				"program", r.program,
				"timeout", r.timeout.String())
			return
		}
		r.logger.Error("notify program failed",
			"program", r.program,
			"lease_file", leaseFile,
			"error", err,
			"stderr", stderr.String(),
			"duration", duration.String())
		return
	}

	metrics.HookExecutions.WithLabelValues("notify", "success").Inc()
	r.logger.Debug("notify program completed",
		"program", r.program,
		"duration", duration.String())
}

// Wait blocks until all running programs exit.
func (r *NotifyRunner) Wait() {
	r.wg.Wait()
}

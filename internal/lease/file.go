package lease

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/athena-dhcpd/udhcpd/internal/metrics"
)

// WriteFile serializes t to path. The data goes to a temporary file in the
// same directory which is then renamed over path, so readers never see a
// partially written lease file.
func WriteFile(path string, t *Table, remaining bool, now time.Time) (int, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary lease file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	bw := bufio.NewWriter(tmp)
	n, err := Serialize(bw, t, remaining, now)
	if err != nil {
		cleanup()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return 0, fmt.Errorf("flushing lease file %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return 0, fmt.Errorf("syncing lease file %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return 0, fmt.Errorf("setting mode on lease file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("closing lease file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("renaming lease file into place at %s: %w", path, err)
	}
	return n, nil
}

// ReadFile loads the lease file at path into t. See Deserialize.
func ReadFile(path string, t *Table, pool Pool, remaining bool, now time.Time) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("opening lease file %s: %w", path, err)
	}
	defer f.Close()

	res, err := Deserialize(bufio.NewReader(f), t, pool, remaining, now)
	if err != nil {
		return res, fmt.Errorf("reading lease file %s: %w", path, err)
	}
	return res, nil
}

// Notifier is told about each successful lease file write.
type Notifier interface {
	Notify(ctx context.Context, leaseFile string)
}

// Writer persists a lease table to its lease file and runs the post-write
// hooks: an optional snapshot database and an optional notifier.
type Writer struct {
	table     *Table
	path      string
	remaining bool
	notifier  Notifier
	snapshot  *Snapshot
	now       func() time.Time
	logger    *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithNotifier runs n after every successful write.
func WithNotifier(n Notifier) WriterOption {
	return func(w *Writer) { w.notifier = n }
}

// WithSnapshot mirrors every successful write into s.
func WithSnapshot(s *Snapshot) WriterOption {
	return func(w *Writer) { w.snapshot = s }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) { w.now = now }
}

// NewWriter creates a writer for t. remaining selects the expiry policy.
func NewWriter(t *Table, path string, remaining bool, logger *slog.Logger, opts ...WriterOption) *Writer {
	w := &Writer{
		table:     t,
		path:      path,
		remaining: remaining,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write saves the table. Hooks run only after the lease file is in place;
// a snapshot failure is logged and does not fail the write.
func (w *Writer) Write(ctx context.Context) error {
	start := time.Now()
	now := w.now()

	n, err := WriteFile(w.path, w.table, w.remaining, now)
	metrics.LeaseFileWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LeaseFileWrites.WithLabelValues("error").Inc()
		w.logger.Error("unable to write lease file", "path", w.path, "error", err)
		return err
	}
	metrics.LeaseFileWrites.WithLabelValues("success").Inc()
	metrics.LeaseRecords.WithLabelValues("written").Add(float64(n))
	metrics.LeasesActive.Set(float64(n))
	w.logger.Debug("lease file written", "path", w.path, "lease_count", n, "remaining", w.remaining)

	if w.snapshot != nil {
		if err := w.snapshot.Save(w.table, now); err != nil {
			metrics.SnapshotSaves.WithLabelValues("error").Inc()
			w.logger.Warn("lease snapshot save failed", "error", err)
		} else {
			metrics.SnapshotSaves.WithLabelValues("success").Inc()
		}
	}

	if w.notifier != nil {
		w.notifier.Notify(ctx, w.path)
	}
	return nil
}

// Load reads the lease file into the table, logging the outcome the way the
// daemon reports it. The returned error is only for an unreadable file.
func Load(path string, t *Table, pool Pool, remaining bool, logger *slog.Logger) (LoadResult, error) {
	res, err := ReadFile(path, t, pool, remaining, time.Now())
	if err != nil {
		logger.Error("unable to read lease file", "path", path, "error", err)
		return res, err
	}

	metrics.LeaseRecords.WithLabelValues("loaded").Add(float64(res.Loaded))
	metrics.LeaseRecords.WithLabelValues("skipped").Add(float64(res.Skipped))
	metrics.LeasesActive.Set(float64(res.Loaded))
	logger.Info("read leases", "path", path, "lease_count", res.Loaded, "skipped", res.Skipped)

	if res.Truncated {
		metrics.LeaseFileTruncations.Inc()
		logger.Warn("too many leases while loading lease file",
			"path", path,
			"max_leases", t.Cap())
	}
	return res, nil
}

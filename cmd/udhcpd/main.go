// udhcpd loads udhcpd.conf, restores the lease table from the lease file,
// and writes it back periodically, on SIGUSR1, and at shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/athena-dhcpd/udhcpd/internal/api"
	"github.com/athena-dhcpd/udhcpd/internal/config"
	"github.com/athena-dhcpd/udhcpd/internal/hooks"
	"github.com/athena-dhcpd/udhcpd/internal/lease"
	"github.com/athena-dhcpd/udhcpd/internal/logging"
	"github.com/athena-dhcpd/udhcpd/internal/metrics"
)

var version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "path to udhcpd.conf")
	daemonPath := flag.String("daemon-config", "", "path to TOML daemon settings (optional)")
	flag.Parse()

	daemon, err := config.LoadDaemon(*daemonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(daemon.LogLevel, os.Stdout)
	logger.Info("udhcpd starting", "config", *configPath, "version", version)
	metrics.ServerStartTime.SetToCurrentTime()
	metrics.ServerInfo.WithLabelValues(version).Set(1)

	cfg := loadConfig(*configPath, logger)

	if cfg.PIDFile != "" {
		if err := writePIDFile(cfg.PIDFile); err != nil {
			logger.Warn("failed to write PID file", "path", cfg.PIDFile, "error", err)
		} else {
			defer removePIDFile(cfg.PIDFile)
		}
	}

	table := lease.NewTable(int(cfg.MaxLeases))
	metrics.LeaseTableCapacity.Set(float64(table.Cap()))

	var snapshot *lease.Snapshot
	if daemon.SnapshotDB != "" {
		snapshot, err = lease.OpenSnapshot(daemon.SnapshotDB)
		if err != nil {
			logger.Error("failed to open lease snapshot, continuing without it", "error", err)
			snapshot = nil
		} else {
			defer snapshot.Close()
		}
	}

	restoreLeases(cfg, table, snapshot, logger)

	writer, notifier := newWriter(cfg, daemon, table, snapshot, logger)

	var status *api.Server
	if daemon.MetricsListen != "" {
		status = api.NewServer(daemon.MetricsListen, table, cfg, logger, api.WithVersion(version))
		ln, err := status.Listen()
		if err != nil {
			logger.Error("failed to start status server", "error", err)
			status = nil
		} else {
			go func() {
				if err := status.Serve(ln); err != nil {
					logger.Error("status server failed", "error", err)
				}
			}()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker, tick := newAutoTicker(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1)

	for {
		select {
		case <-tick:
			writer.Write(ctx)

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGUSR1:
				logger.Info("received SIGUSR1, writing lease file")
				writer.Write(ctx)

			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config", "config", *configPath)
				newCfg := loadConfig(*configPath, logger)
				if newCfg.MaxLeases != cfg.MaxLeases {
					logger.Warn("max_leases changed, restart to resize the lease table",
						"current", cfg.MaxLeases,
						"configured", newCfg.MaxLeases)
				}
				if notifier != nil {
					notifier.Wait()
				}
				cfg = newCfg
				writer, notifier = newWriter(cfg, daemon, table, snapshot, logger)
				if ticker != nil {
					ticker.Stop()
				}
				ticker, tick = newAutoTicker(cfg)
				if status != nil {
					status.UpdateConfig(cfg)
				}
				logger.Info("configuration reloaded", "options", cfg.Options.Len())

			case syscall.SIGINT, syscall.SIGTERM:
				logger.Info("received shutdown signal", "signal", sig.String())
				if ticker != nil {
					ticker.Stop()
				}

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()

				writer.Write(shutdownCtx)
				if notifier != nil {
					notifier.Wait()
				}
				if status != nil {
					status.Stop(shutdownCtx)
				}
				cancel()

				logger.Info("udhcpd stopped")
				return
			}
		}
	}
}

// loadConfig reads udhcpd.conf. An unreadable file is logged and the
// defaults are used, so the daemon still starts.
func loadConfig(path string, logger *slog.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("unable to open config file, using defaults", "error", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "warning", w)
	}
	metrics.OptionsConfigured.Set(float64(cfg.Options.Len()))
	logger.Info("config loaded",
		"interface", cfg.Interface,
		"start", cfg.Start.String(),
		"end", cfg.End.String(),
		"max_leases", cfg.MaxLeases,
		"lease_file", cfg.LeaseFile,
		"options", cfg.Options.String())
	return cfg
}

// restoreLeases loads the lease file, falling back to the snapshot
// database when the file does not exist.
func restoreLeases(cfg *config.Config, table *lease.Table, snapshot *lease.Snapshot, logger *slog.Logger) {
	_, err := lease.Load(cfg.LeaseFile, table, cfg.LeasePool(), cfg.Remaining, logger)
	if err == nil || snapshot == nil || !errors.Is(err, fs.ErrNotExist) {
		return
	}

	res, err := snapshot.Restore(table, cfg.LeasePool())
	if err != nil {
		logger.Error("failed to restore leases from snapshot", "error", err)
		return
	}
	savedAt, _ := snapshot.SavedAt()
	metrics.LeasesActive.Set(float64(res.Loaded))
	logger.Info("restored leases from snapshot",
		"lease_count", res.Loaded,
		"skipped", res.Skipped,
		"saved_at", savedAt)
	if res.Truncated {
		logger.Warn("too many leases in snapshot", "max_leases", table.Cap())
	}
}

// newWriter builds the lease writer for cfg along with its notify runner,
// which is nil when notify_file is unset.
func newWriter(cfg *config.Config, daemon *config.DaemonConfig, table *lease.Table, snapshot *lease.Snapshot, logger *slog.Logger) (*lease.Writer, *hooks.NotifyRunner) {
	var opts []lease.WriterOption
	if snapshot != nil {
		opts = append(opts, lease.WithSnapshot(snapshot))
	}

	var notifier *hooks.NotifyRunner
	if cfg.NotifyFile != "" {
		notifier = hooks.NewNotifyRunner(cfg.NotifyFile, daemon.NotifyTimeout(), daemon.Notify.Concurrency, logger)
		opts = append(opts, lease.WithNotifier(notifier))
	}
	return lease.NewWriter(table, cfg.LeaseFile, cfg.Remaining, logger, opts...), notifier
}

// newAutoTicker returns a ticker for auto_time. A zero auto_time disables
// periodic writes and the returned channel never fires.
func newAutoTicker(cfg *config.Config) (*time.Ticker, <-chan time.Time) {
	if cfg.AutoTime == 0 {
		return nil, nil
	}
	t := time.NewTicker(cfg.AutoInterval())
	return t, t.C
}

// writePIDFile writes the current process ID to the given path.
func writePIDFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating PID directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
}

// removePIDFile removes the PID file.
func removePIDFile(path string) {
	os.Remove(path)
}

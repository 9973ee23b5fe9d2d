package hooks

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/athena-dhcpd/udhcpd/internal/lease"
	"github.com/athena-dhcpd/udhcpd/internal/metrics"
)

// NotifyRunner must satisfy the lease writer's hook interface.
var _ lease.Notifier = (*NotifyRunner)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func hookCount(result string) float64 {
	return testutil.ToFloat64(metrics.HookExecutions.WithLabelValues("notify", result))
}

func TestNotifyPassesLeaseFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	script := writeScript(t, `printf '%s' "$1" > `+out)

	before := hookCount("success")
	r := NewNotifyRunner(script, 5*time.Second, 1, testLogger())
	r.Notify(context.Background(), "/var/lib/udhcpd.leases")
	r.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading script output: %v", err)
	}
	if string(data) != "/var/lib/udhcpd.leases" {
		t.Errorf("script got %q, want lease file path", data)
	}
	if got := hookCount("success") - before; got != 1 {
		t.Errorf("success count delta = %v, want 1", got)
	}
}

func TestNotifyArgumentIsNotShellExpanded(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	script := writeScript(t, `printf '%s' "$1" > `+out)

	r := NewNotifyRunner(script, 5*time.Second, 1, testLogger())
	r.Notify(context.Background(), "leases; echo injected")
	r.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading script output: %v", err)
	}
	if string(data) != "leases; echo injected" {
		t.Errorf("script got %q", data)
	}
}

func TestNotifyFailure(t *testing.T) {
	script := writeScript(t, "echo broken >&2\nexit 3")

	before := hookCount("error")
	r := NewNotifyRunner(script, 5*time.Second, 1, testLogger())
	r.Notify(context.Background(), "leases")
	r.Wait()

	if got := hookCount("error") - before; got != 1 {
		t.Errorf("error count delta = %v, want 1", got)
	}
}

func TestNotifyMissingProgram(t *testing.T) {
	before := hookCount("error")
	r := NewNotifyRunner(filepath.Join(t.TempDir(), "does-not-exist"), time.Second, 1, testLogger())
	r.Notify(context.Background(), "leases")
	r.Wait()

	if got := hookCount("error") - before; got != 1 {
		t.Errorf("error count delta = %v, want 1", got)
	}
}

func TestNotifyTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 10")

	before := hookCount("error")
	r := NewNotifyRunner(script, 100*time.Millisecond, 1, testLogger())

	start := time.Now()
	r.Notify(context.Background(), "leases")
	r.Wait()

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Wait took %v, program was not killed", elapsed)
	}
	if got := hookCount("error") - before; got != 1 {
		t.Errorf("error count delta = %v, want 1", got)
	}
}

func TestNotifyDropsWhenBusy(t *testing.T) {
	script := writeScript(t, "exec sleep 1")

	before := hookCount("dropped")
	r := NewNotifyRunner(script, 5*time.Second, 1, testLogger())
	r.Notify(context.Background(), "leases")
	r.Notify(context.Background(), "leases")
	r.Wait()

	if got := hookCount("dropped") - before; got != 1 {
		t.Errorf("dropped count delta = %v, want 1", got)
	}
}

func TestNewNotifyRunnerDefaults(t *testing.T) {
	r := NewNotifyRunner("/bin/true", 0, 0, testLogger())
	if r.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", r.timeout, defaultTimeout)
	}
	if cap(r.sem) != 1 {
		t.Errorf("concurrency = %d, want 1", cap(r.sem))
	}
	if !strings.HasSuffix(r.program, "true") {
		t.Errorf("program = %q", r.program)
	}
}

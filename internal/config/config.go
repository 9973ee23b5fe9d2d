// Package config parses the udhcpd.conf keyword file and the optional TOML
// daemon settings.
package config

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/athena-dhcpd/udhcpd/internal/dhcp"
	"github.com/athena-dhcpd/udhcpd/internal/lease"
	"github.com/athena-dhcpd/udhcpd/internal/metrics"
	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// maxLineLen is the line buffer size of the config reader. A line longer
// than maxLineLen-1 bytes is split and its tail read as the next line.
const maxLineLen = 80

// Config is the server configuration built from udhcpd.conf.
type Config struct {
	Start        net.IP
	End          net.IP
	Interface    string
	Options      dhcp.OptionList
	MaxLeases    uint32
	Remaining    bool   // Store seconds remaining instead of absolute expiry
	AutoTime     uint32 // Seconds between automatic lease file writes
	DeclineTime  uint32
	ConflictTime uint32
	OfferTime    uint32
	MinLease     uint32
	LeaseFile    string
	PIDFile      string
	NotifyFile   string
}

// Defaults returns a Config with every keyword default applied.
func Defaults() *Config {
	cfg := &Config{}
	for _, kw := range keywords {
		if kw.Default != "" {
			kw.Handler.Apply(cfg, kw.Default)
		}
	}
	return cfg
}

// Load applies the defaults and then reads path. If the file cannot be
// opened the defaults are returned together with the error; the caller
// decides whether that is fatal.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	f, err := os.Open(path)
	if err != nil {
		metrics.ConfigLoads.WithLabelValues("open_error").Inc()
		return cfg, fmt.Errorf("opening config file %s: %w", path, err)
	}
	defer f.Close()

	parse(cfg, f)
	metrics.ConfigLoads.WithLabelValues("ok").Inc()
	return cfg, nil
}

// Parse applies the defaults and then reads config statements from r.
func Parse(r io.Reader) *Config {
	cfg := Defaults()
	parse(cfg, r)
	return cfg
}

func parse(cfg *Config, r io.Reader) {
	br := bufio.NewReader(r)
	for {
		line, ok := readLine(br)
		if !ok {
			return
		}
		applyLine(cfg, line)
	}
}

// readLine returns at most maxLineLen-1 bytes, stopping after a newline.
func readLine(br *bufio.Reader) (string, bool) {
	buf := make([]byte, 0, maxLineLen)
	for len(buf) < maxLineLen-1 {
		c, err := br.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, c)
		if c == '\n' {
			break
		}
	}
	if len(buf) == 0 {
		return "", false
	}
	return string(buf), true
}

// applyLine handles a single "keyword [ \t=]+ value" statement.
func applyLine(cfg *Config, line string) {
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(line, "\r")
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	token := strings.TrimLeft(line, " \t")
	if token == "" {
		return
	}
	end := strings.IndexAny(token, " \t=")
	if end < 0 {
		return
	}
	value := strings.TrimRight(strings.TrimLeft(token[end+1:], " \t="), " \t")
	token = token[:end]
	if value == "" {
		return
	}

	kw, ok := LookupKeyword(token)
	if !ok {
		metrics.ConfigLinesSkipped.WithLabelValues("unknown_keyword").Inc()
		return
	}
	if !kw.Handler.Apply(cfg, value) {
		metrics.ConfigLinesSkipped.WithLabelValues("bad_value").Inc()
	}
}

// LeasePool returns the configured start..end range for lease validation.
func (cfg *Config) LeasePool() lease.Pool {
	return lease.NewPool(cfg.Start, cfg.End)
}

// PoolSize returns the number of addresses between start and end inclusive.
func (cfg *Config) PoolSize() uint32 {
	return dhcpv4.IPRangeSize(cfg.Start, cfg.End)
}

// AutoInterval returns auto_time as a duration.
func (cfg *Config) AutoInterval() time.Duration {
	return time.Duration(cfg.AutoTime) * time.Second
}

// Warnings reports settings that load fine but are probably mistakes.
// None of them stop the server.
func (cfg *Config) Warnings() []string {
	var w []string
	if p := cfg.LeasePool(); p.Start > p.End {
		w = append(w, fmt.Sprintf("start %s is after end %s: no lease can be loaded", cfg.Start, cfg.End))
	}
	if cfg.MaxLeases == 0 {
		w = append(w, "max_leases is 0: the lease table has no slots")
	}
	if size := cfg.PoolSize(); size > 0 && cfg.MaxLeases > size {
		w = append(w, fmt.Sprintf("max_leases %d is larger than the pool (%d addresses)", cfg.MaxLeases, size))
	}
	if cfg.AutoTime == 0 {
		w = append(w, "auto_time is 0: leases are only written on signal and shutdown")
	}
	return w
}

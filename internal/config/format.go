package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/athena-dhcpd/udhcpd/internal/dhcp"
	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// Format renders cfg as udhcpd.conf text. It parses back to the same
// configuration as long as each line fits the reader's 79-byte limit.
// List options are written one value per line.
func Format(cfg *Config) string {
	var b strings.Builder
	WriteConfig(&b, cfg)
	return b.String()
}

// WriteConfig writes cfg to w in udhcpd.conf syntax.
func WriteConfig(w io.Writer, cfg *Config) error {
	yn := "no"
	if cfg.Remaining {
		yn = "yes"
	}

	lines := []struct {
		key, val string
	}{
		{"start", cfg.Start.String()},
		{"end", cfg.End.String()},
		{"interface", cfg.Interface},
		{"max_leases", fmt.Sprint(cfg.MaxLeases)},
		{"remaining", yn},
		{"auto_time", fmt.Sprint(cfg.AutoTime)},
		{"decline_time", fmt.Sprint(cfg.DeclineTime)},
		{"conflict_time", fmt.Sprint(cfg.ConflictTime)},
		{"offer_time", fmt.Sprint(cfg.OfferTime)},
		{"min_lease", fmt.Sprint(cfg.MinLease)},
		{"lease_file", cfg.LeaseFile},
		{"pid_file", cfg.PIDFile},
		{"notify_file", cfg.NotifyFile},
	}
	for _, l := range lines {
		if l.val == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-14s%s\n", l.key, l.val); err != nil {
			return fmt.Errorf("writing %s: %w", l.key, err)
		}
	}

	for _, o := range cfg.Options.All() {
		def, ok := dhcp.OptionByCode(o.Code)
		if !ok || !def.Configurable {
			continue
		}
		if _, err := fmt.Fprintf(w, "option %-9s%s\n", def.Name, formatOptionValue(def, o.Data)); err != nil {
			return fmt.Errorf("writing option %s: %w", def.Name, err)
		}
	}
	return nil
}

func formatOptionValue(def dhcp.OptionDef, data []byte) string {
	if def.Type == dhcp.TypeIPPair && len(data) == 8 {
		return dhcpv4.BytesToIP(data[:4]).String() + " " + dhcpv4.BytesToIP(data[4:]).String()
	}
	return dhcp.FormatValue(def.Type, data)
}

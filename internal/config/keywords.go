package config

import (
	"net"
	"strings"

	"github.com/athena-dhcpd/udhcpd/internal/dhcp"
)

// Handler applies the text following a keyword to a Config. It returns
// false when the value is malformed, leaving the Config unchanged.
type Handler interface {
	Apply(cfg *Config, value string) bool
}

type ipHandler struct{ field func(*Config) *net.IP }

func (h ipHandler) Apply(cfg *Config, value string) bool {
	b, ok := dhcp.ReadIP(value)
	if !ok {
		return false
	}
	*h.field(cfg) = net.IP(b)
	return true
}

type stringHandler struct{ field func(*Config) *string }

func (h stringHandler) Apply(cfg *Config, value string) bool {
	s, ok := dhcp.ReadString(value)
	if !ok {
		return false
	}
	*h.field(cfg) = s
	return true
}

type uint32Handler struct{ field func(*Config) *uint32 }

func (h uint32Handler) Apply(cfg *Config, value string) bool {
	v, ok := dhcp.ReadUint32(value)
	if !ok {
		return false
	}
	*h.field(cfg) = v
	return true
}

type boolHandler struct{ field func(*Config) *bool }

func (h boolHandler) Apply(cfg *Config, value string) bool {
	v, ok := dhcp.ReadBool(value)
	if !ok {
		return false
	}
	*h.field(cfg) = v
	return true
}

type optionHandler struct{}

func (optionHandler) Apply(cfg *Config, value string) bool {
	return cfg.Options.ParseOptionLine(value)
}

// Keyword binds a config-file keyword to its handler and default text.
type Keyword struct {
	Keyword string
	Handler Handler
	Default string
}

var keywords = []Keyword{
	{"start", ipHandler{func(c *Config) *net.IP { return &c.Start }}, "192.168.0.20"},
	{"end", ipHandler{func(c *Config) *net.IP { return &c.End }}, "192.168.0.254"},
	{"interface", stringHandler{func(c *Config) *string { return &c.Interface }}, "eth0"},
	{"option", optionHandler{}, ""},
	{"opt", optionHandler{}, ""},
	{"max_leases", uint32Handler{func(c *Config) *uint32 { return &c.MaxLeases }}, "254"},
	{"remaining", boolHandler{func(c *Config) *bool { return &c.Remaining }}, "yes"},
	{"auto_time", uint32Handler{func(c *Config) *uint32 { return &c.AutoTime }}, "7200"},
	{"decline_time", uint32Handler{func(c *Config) *uint32 { return &c.DeclineTime }}, "3600"},
	{"conflict_time", uint32Handler{func(c *Config) *uint32 { return &c.ConflictTime }}, "3600"},
	{"offer_time", uint32Handler{func(c *Config) *uint32 { return &c.OfferTime }}, "60"},
	{"min_lease", uint32Handler{func(c *Config) *uint32 { return &c.MinLease }}, "60"},
	{"lease_file", stringHandler{func(c *Config) *string { return &c.LeaseFile }}, "/etc/udhcpd.leases"},
	{"pid_file", stringHandler{func(c *Config) *string { return &c.PIDFile }}, "/var/run/udhcpd.pid"},
	{"notify_file", stringHandler{func(c *Config) *string { return &c.NotifyFile }}, ""},
}

// LookupKeyword finds a keyword binding, ignoring case.
func LookupKeyword(name string) (Keyword, bool) {
	for _, kw := range keywords {
		if strings.EqualFold(kw.Keyword, name) {
			return kw, true
		}
	}
	return Keyword{}, false
}

// Keywords returns a copy of the keyword registry in declaration order.
func Keywords() []Keyword {
	out := make([]Keyword, len(keywords))
	copy(out, keywords)
	return out
}

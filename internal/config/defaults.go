package config

import "time"

// Default daemon settings, used when the TOML file is absent or leaves a key unset.
const (
	DefaultConfigFile        = "/etc/udhcpd.conf"
	DefaultLogLevel          = "info"
	DefaultNotifyTimeout     = 30 * time.Second
	DefaultNotifyConcurrency = 1
)

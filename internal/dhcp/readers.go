package dhcp

import (
	"strings"

	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// ReadIP parses an IPv4 address in any form inet_aton accepts: a.b.c.d,
// a.b.c, a.b or a, where each part may be decimal, octal (leading 0) or hex
// (leading 0x). It returns the 4-byte network-order address.
func ReadIP(token string) ([]byte, bool) {
	parts := strings.Split(token, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return nil, false
	}

	vals := make([]uint64, len(parts))
	for i, p := range parts {
		if p == "" || p[0] < '0' || p[0] > '9' {
			return nil, false
		}
		v, n := parseCUint(p)
		if n != len(p) {
			return nil, false
		}
		vals[i] = v
	}

	// All parts but the last are single bytes; the last fills the rest.
	var addr uint64
	for i := 0; i < len(vals)-1; i++ {
		if vals[i] > 0xff {
			return nil, false
		}
		addr |= vals[i] << (24 - 8*uint(i))
	}
	last := vals[len(vals)-1]
	if last > uint64(0xffffffff)>>(8*uint(len(vals)-1)) {
		return nil, false
	}
	addr |= last
	return dhcpv4.Uint32ToBytes(uint32(addr)), true
}

// ReadString returns the token unchanged. It never fails.
func ReadString(token string) (string, bool) {
	return token, true
}

// ReadUint32 parses an unsigned integer the way strtoul(s, NULL, 0) does:
// leading blanks and sign are allowed, the base follows the prefix, parsing
// stops at the first invalid digit and out-of-range values wrap modulo 2^32.
// Text with no digits reads as 0.
func ReadUint32(token string) (uint32, bool) {
	v, _ := parseCUint(token)
	return uint32(v), true
}

// ReadInt32 parses a signed integer like strtol and truncates it to 32 bits.
func ReadInt32(token string) (int32, bool) {
	v, _ := parseCUint(token)
	return int32(uint32(v)), true
}

// ReadBool accepts yes/true/1 and no/false/0, case-insensitively.
func ReadBool(token string) (bool, bool) {
	switch strings.ToLower(token) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}

// parseCUint implements strtoul base-0 semantics. It returns the value
// (wrapping on overflow, negated for a leading minus) and the number of
// bytes consumed, or 0 when no digits were found.
func parseCUint(s string) (uint64, int) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '\v' || s[i] == '\f') {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	base := uint64(10)
	switch {
	case i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') && i+2 < len(s) && hexDigit(s[i+2]) >= 0:
		base = 16
		i += 2
	case i < len(s) && s[i] == '0':
		base = 8
	}

	start := i
	var v uint64
	for i < len(s) {
		d := hexDigit(s[i])
		if d < 0 || uint64(d) >= base {
			break
		}
		v = v*base + uint64(d)
		i++
	}
	if i == start {
		return 0, 0
	}
	if neg {
		v = -v
	}
	return v, i
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

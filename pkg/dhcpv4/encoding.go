package dhcpv4

import (
	"encoding/binary"
	"fmt"
	"net"
)

// BytesToIP converts a 4-byte slice to net.IP.
func BytesToIP(b []byte) net.IP {
	if len(b) != 4 {
		return nil
	}
	return net.IPv4(b[0], b[1], b[2], b[3])
}

// Uint16ToBytes converts a uint16 to 2 bytes (big-endian).
func Uint16ToBytes(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// BytesToUint16 converts 2 bytes to uint16 (big-endian).
func BytesToUint16(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("invalid uint16 length %d: expected 2", len(b))
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32ToBytes converts a uint32 to 4 bytes (big-endian).
func Uint32ToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// BytesToUint32 converts 4 bytes to uint32 (big-endian).
func BytesToUint32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("invalid uint32 length %d: expected 4", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// Int16ToBytes converts an int16 to 2 bytes (big-endian, two's complement).
func Int16ToBytes(v int16) []byte {
	return Uint16ToBytes(uint16(v))
}

// Int32ToBytes converts an int32 to 4 bytes (big-endian, two's complement).
func Int32ToBytes(v int32) []byte {
	return Uint32ToBytes(uint32(v))
}

// BytesToInt32 converts 4 bytes to int32 (big-endian).
func BytesToInt32(b []byte) (int32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("invalid int32 length %d: expected 4", len(b))
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// IPToUint32 converts a net.IP to a uint32.
func IPToUint32(ip net.IP) uint32 {
	ip4 := ip.To4()
	if ip4 == nil {
		return 0
	}
	return binary.BigEndian.Uint32(ip4)
}

// Uint32ToIP converts a uint32 to a net.IP.
func Uint32ToIP(n uint32) net.IP {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return net.IPv4(b[0], b[1], b[2], b[3])
}

// IPRangeSize returns the number of IPs in a range (inclusive).
func IPRangeSize(start, end net.IP) uint32 {
	s := IPToUint32(start)
	e := IPToUint32(end)
	if e < s {
		return 0
	}
	return e - s + 1
}


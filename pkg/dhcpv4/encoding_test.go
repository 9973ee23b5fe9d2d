package dhcpv4

import (
	"bytes"
	"net"
	"testing"
)

func TestIPToUint32(t *testing.T) {
	tests := []struct {
		ip   net.IP
		want uint32
	}{
		{net.IPv4(0, 0, 0, 0), 0},
		{net.IPv4(255, 255, 255, 255), 0xFFFFFFFF},
		{net.IPv4(192, 168, 1, 1), 0xC0A80101},
		{net.IPv4(10, 0, 0, 1), 0x0A000001},
		{nil, 0},
	}
	for _, tt := range tests {
		got := IPToUint32(tt.ip)
		if got != tt.want {
			t.Errorf("IPToUint32(%s) = 0x%08X, want 0x%08X", tt.ip, got, tt.want)
		}
	}
}

func TestIPRoundTrip(t *testing.T) {
	ips := []net.IP{
		net.IPv4(192, 168, 0, 20),
		net.IPv4(10, 0, 0, 1),
		net.IPv4(0, 0, 0, 0),
		net.IPv4(255, 255, 255, 255),
	}
	for _, ip := range ips {
		u := IPToUint32(ip)
		got := Uint32ToIP(u)
		if !got.Equal(ip) {
			t.Errorf("roundtrip failed: %s → 0x%08X → %s", ip, u, got)
		}
	}
}

func TestBytesToIP(t *testing.T) {
	if got := BytesToIP([]byte{192, 168, 0, 254}); !got.Equal(net.IPv4(192, 168, 0, 254)) {
		t.Errorf("BytesToIP = %s, want 192.168.0.254", got)
	}
	if got := BytesToIP([]byte{1, 2, 3}); got != nil {
		t.Errorf("BytesToIP(short) = %s, want nil", got)
	}
}

func TestSignedEncoding(t *testing.T) {
	if got := Int16ToBytes(-2); !bytes.Equal(got, []byte{0xff, 0xfe}) {
		t.Errorf("Int16ToBytes(-2) = %x, want fffe", got)
	}
	b := Int32ToBytes(-3600)
	v, err := BytesToInt32(b)
	if err != nil {
		t.Fatalf("BytesToInt32 error: %v", err)
	}
	if v != -3600 {
		t.Errorf("BytesToInt32 = %d, want -3600", v)
	}
}

func TestBytesToUint32(t *testing.T) {
	v, err := BytesToUint32([]byte{0, 0, 0x10, 0})
	if err != nil {
		t.Fatalf("BytesToUint32 error: %v", err)
	}
	if v != 0x1000 {
		t.Errorf("BytesToUint32 = 0x%X, want 0x1000", v)
	}
	if _, err := BytesToUint32([]byte{1}); err == nil {
		t.Error("expected error for short uint32")
	}
	if _, err := BytesToUint16([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for long uint16")
	}
}

func TestIPRangeSize(t *testing.T) {
	if got := IPRangeSize(net.IPv4(192, 168, 0, 20), net.IPv4(192, 168, 0, 254)); got != 235 {
		t.Errorf("IPRangeSize = %d, want 235", got)
	}
	if got := IPRangeSize(net.IPv4(10, 0, 0, 9), net.IPv4(10, 0, 0, 1)); got != 0 {
		t.Errorf("IPRangeSize(reversed) = %d, want 0", got)
	}
}

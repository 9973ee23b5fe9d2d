package dhcp

import (
	"bytes"
	"testing"
)

func TestReadIP(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
		ok   bool
	}{
		{"192.168.0.20", []byte{192, 168, 0, 20}, true},
		{"10.0.0.1", []byte{10, 0, 0, 1}, true},
		{"0x0a.0.0.1", []byte{10, 0, 0, 1}, true},
		{"010.0.0.1", []byte{8, 0, 0, 1}, true},
		{"10.1", []byte{10, 0, 0, 1}, true},
		{"10.1.258", []byte{10, 1, 1, 2}, true},
		{"167772161", []byte{10, 0, 0, 1}, true},
		{"", nil, false},
		{"256.0.0.1", nil, false},
		{"1.2.3.4.5", nil, false},
		{"1..2.3", nil, false},
		{"a.b.c.d", nil, false},
		{"1.2.3.4x", nil, false},
		{"+1.2.3.4", nil, false},
		{"08.0.0.1", nil, false},
	}
	for _, tt := range tests {
		got, ok := ReadIP(tt.in)
		if ok != tt.ok {
			t.Errorf("ReadIP(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !bytes.Equal(got, tt.want) {
			t.Errorf("ReadIP(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadUint32(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"254", 254},
		{"0x1000", 0x1000},
		{"0X1f", 0x1f},
		{"010", 8},
		{"0", 0},
		{"  42", 42},
		{"7200s", 7200},
		{"abc", 0},
		{"", 0},
		{"4294967296", 0},
		{"4294967297", 1},
		{"-1", 0xFFFFFFFF},
		{"0x", 0},
	}
	for _, tt := range tests {
		got, ok := ReadUint32(tt.in)
		if !ok {
			t.Errorf("ReadUint32(%q) failed", tt.in)
		}
		if got != tt.want {
			t.Errorf("ReadUint32(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadInt32(t *testing.T) {
	if got, _ := ReadInt32("-3600"); got != -3600 {
		t.Errorf("ReadInt32(-3600) = %d, want -3600", got)
	}
	if got, _ := ReadInt32("0x7fffffff"); got != 0x7fffffff {
		t.Errorf("ReadInt32(0x7fffffff) = %d, want %d", got, 0x7fffffff)
	}
}

func TestReadBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
		ok   bool
	}{
		{"yes", true, true},
		{"YES", true, true},
		{"True", true, true},
		{"1", true, true},
		{"no", false, true},
		{"FALSE", false, true},
		{"0", false, true},
		{"maybe", false, false},
		{"", false, false},
		{"2", false, false},
	}
	for _, tt := range tests {
		got, ok := ReadBool(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ReadBool(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReadString(t *testing.T) {
	got, ok := ReadString("/etc/udhcpd.leases")
	if !ok || got != "/etc/udhcpd.leases" {
		t.Errorf("ReadString = (%q, %v)", got, ok)
	}
}

package dhcp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

func TestTokenizer(t *testing.T) {
	tok := NewTokenizer("router = 10.0.0.1,, 10.0.0.2\t10.0.0.3 ")
	name, ok := tok.Next(optionNameDelims)
	if !ok || name != "router" {
		t.Fatalf("first token = (%q, %v), want router", name, ok)
	}

	var vals []string
	for {
		v, ok := tok.Next(optionValueDelims)
		if !ok {
			break
		}
		vals = append(vals, v)
	}
	// "=" is not a value delimiter, so it comes back as a token.
	want := []string{"=", "10.0.0.1", "10.0.0.2", "10.0.0.3"}
	if strings.Join(vals, "|") != strings.Join(want, "|") {
		t.Errorf("values = %q, want %q", vals, want)
	}
}

func TestParseOptionLineRouterList(t *testing.T) {
	var l OptionList
	if !l.ParseOptionLine("router 10.0.0.1,10.0.0.2") {
		t.Fatal("ParseOptionLine returned false")
	}
	opts := l.All()
	if len(opts) != 2 {
		t.Fatalf("records = %d, want 2", len(opts))
	}
	want := [][]byte{{0x0A, 0, 0, 0x01}, {0x0A, 0, 0, 0x02}}
	for i, o := range opts {
		if o.Code != dhcpv4.OptionRouter {
			t.Errorf("record %d code = %d, want %d", i, o.Code, dhcpv4.OptionRouter)
		}
		if !bytes.Equal(o.Data, want[i]) {
			t.Errorf("record %d data = %x, want %x", i, o.Data, want[i])
		}
	}
}

func TestParseOptionLineLeaseUint32(t *testing.T) {
	var l OptionList
	if !l.ParseOptionLine("lease 0x1000") {
		t.Fatal("ParseOptionLine returned false")
	}
	if l.Len() != 1 {
		t.Fatalf("records = %d, want 1", l.Len())
	}
	data, ok := l.Get(dhcpv4.OptionIPLeaseTime)
	if !ok {
		t.Fatal("lease option missing")
	}
	if !bytes.Equal(data, []byte{0, 0, 0x10, 0}) {
		t.Errorf("lease data = %x, want 00001000", data)
	}
}

func TestParseOptionLineNonListTakesOneValue(t *testing.T) {
	var l OptionList
	l.ParseOptionLine("subnet 255.255.255.0 255.255.0.0")
	if l.Len() != 1 {
		t.Fatalf("records = %d, want 1", l.Len())
	}
	data, _ := l.Get(dhcpv4.OptionSubnetMask)
	if !bytes.Equal(data, []byte{255, 255, 255, 0}) {
		t.Errorf("subnet = %v, want 255.255.255.0", data)
	}
}

func TestParseOptionLineMissingValue(t *testing.T) {
	var l OptionList
	if l.ParseOptionLine("subnet") {
		t.Error("ParseOptionLine(subnet) = true, want false")
	}
	if l.ParseOptionLine("dns  ,, ") {
		t.Error("ParseOptionLine(dns with no values) = true, want false")
	}
	if l.Len() != 0 {
		t.Errorf("records = %d, want 0", l.Len())
	}
}

func TestParseOptionLineRejectsUnknownAndInternal(t *testing.T) {
	var l OptionList
	for _, line := range []string{"nosuch 1", "dhcptype 5", "serverid 10.0.0.1", ""} {
		if l.ParseOptionLine(line) {
			t.Errorf("ParseOptionLine(%q) = true, want false", line)
		}
	}
	if l.Len() != 0 {
		t.Errorf("records = %d, want 0", l.Len())
	}
}

func TestParseOptionLineString(t *testing.T) {
	var l OptionList
	l.ParseOptionLine("domain example.lan")
	data, ok := l.Get(dhcpv4.OptionDomainName)
	if !ok || string(data) != "example.lan" {
		t.Errorf("domain = %q, want %q", data, "example.lan")
	}

	long := strings.Repeat("a", 300)
	var l2 OptionList
	l2.ParseOptionLine("rootpath " + long)
	data, _ = l2.Get(dhcpv4.OptionRootPath)
	if len(data) != dhcpv4.MaxOptionLen {
		t.Errorf("rootpath length = %d, want %d", len(data), dhcpv4.MaxOptionLen)
	}
}

func TestParseOptionLineScalarTypes(t *testing.T) {
	var l OptionList
	l.ParseOptionLine("mtu 1500")
	l.ParseOptionLine("timezone -3600")

	if data, _ := l.Get(dhcpv4.OptionInterfaceMTU); !bytes.Equal(data, []byte{0x05, 0xdc}) {
		t.Errorf("mtu = %x, want 05dc", data)
	}
	if data, _ := l.Get(dhcpv4.OptionTimeOffset); !bytes.Equal(data, []byte{0xff, 0xff, 0xf1, 0xf0}) {
		t.Errorf("timezone = %x, want fffff1f0", data)
	}
}

func TestParseOptionLineListStopsAtBadValue(t *testing.T) {
	var l OptionList
	l.ParseOptionLine("dns 10.0.0.1 bogus 10.0.0.3")
	if got := l.GetAll(dhcpv4.OptionDomainNameServer); len(got) != 1 {
		t.Errorf("dns records = %d, want 1", len(got))
	}
}

func TestEncodeOptionIPPair(t *testing.T) {
	def := OptionDef{Name: "route", Type: TypeIPPair, List: true, Code: 33}

	var l OptionList
	n := l.EncodeOption(def, NewTokenizer("10.0.0.0 10.0.0.1, 10.1.0.0 10.1.0.1"))
	if n != 2 {
		t.Fatalf("appended = %d, want 2", n)
	}
	want := []byte{10, 0, 0, 0, 10, 0, 0, 1}
	if got := l.All()[0].Data; !bytes.Equal(got, want) {
		t.Errorf("pair = %v, want %v", got, want)
	}

	var l2 OptionList
	if n := l2.EncodeOption(def, NewTokenizer("10.0.0.0")); n != 0 {
		t.Errorf("appended = %d for half pair, want 0", n)
	}
}

func TestEncodeOptionBool(t *testing.T) {
	def := OptionDef{Name: "forward", Type: TypeBool, Code: 19}

	var l OptionList
	if n := l.EncodeOption(def, NewTokenizer("yes")); n != 1 {
		t.Fatalf("appended = %d, want 1", n)
	}
	if data, _ := l.Get(19); !bytes.Equal(data, []byte{1}) {
		t.Errorf("bool = %v, want [1]", data)
	}
	if n := l.EncodeOption(def, NewTokenizer("perhaps")); n != 0 {
		t.Errorf("appended = %d for bad bool, want 0", n)
	}
}

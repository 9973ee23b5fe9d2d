package dhcp

import (
	"fmt"
	"strings"

	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// Option is a single encoded option record. The wire length is len(Data).
type Option struct {
	Code dhcpv4.OptionCode
	Data []byte
}

// OptionList is an ordered list of option records. A code may appear more
// than once; list-valued options produce one record per value.
type OptionList struct {
	opts []Option
}

// Append adds a record to the end of the list. Data longer than
// dhcpv4.MaxOptionLen is truncated.
func (l *OptionList) Append(code dhcpv4.OptionCode, data []byte) {
	if len(data) > dhcpv4.MaxOptionLen {
		data = data[:dhcpv4.MaxOptionLen]
	}
	v := make([]byte, len(data))
	copy(v, data)
	l.opts = append(l.opts, Option{Code: code, Data: v})
}

// Len returns the number of records.
func (l *OptionList) Len() int {
	return len(l.opts)
}

// All returns a copy of the records in insertion order.
func (l *OptionList) All() []Option {
	out := make([]Option, len(l.opts))
	copy(out, l.opts)
	return out
}

// Get returns the value of the first record with the given code.
func (l *OptionList) Get(code dhcpv4.OptionCode) ([]byte, bool) {
	for _, o := range l.opts {
		if o.Code == code {
			return o.Data, true
		}
	}
	return nil, false
}

// GetAll returns the values of every record with the given code, in order.
func (l *OptionList) GetAll(code dhcpv4.OptionCode) [][]byte {
	var out [][]byte
	for _, o := range l.opts {
		if o.Code == code {
			out = append(out, o.Data)
		}
	}
	return out
}

// Encode serializes the records in order as TLV bytes with an end marker.
func (l *OptionList) Encode() []byte {
	size := 1
	for _, o := range l.opts {
		size += 2 + len(o.Data)
	}

	buf := make([]byte, 0, size)
	for _, o := range l.opts {
		if o.Code == dhcpv4.OptionPad || o.Code == dhcpv4.OptionEnd {
			continue
		}
		buf = append(buf, byte(o.Code), byte(len(o.Data)))
		buf = append(buf, o.Data...)
	}
	buf = append(buf, byte(dhcpv4.OptionEnd))
	return buf
}

// DecodeOptions parses TLV-encoded option bytes, preserving order and repeats.
// Pad is skipped and end stops parsing (RFC 2132).
func DecodeOptions(data []byte) (*OptionList, error) {
	l := &OptionList{}
	i := 0
	for i < len(data) {
		code := dhcpv4.OptionCode(data[i])
		i++

		if code == dhcpv4.OptionPad {
			continue
		}
		if code == dhcpv4.OptionEnd {
			break
		}

		if i >= len(data) {
			return nil, fmt.Errorf("truncated option %d: no length byte", code)
		}
		length := int(data[i])
		i++

		if i+length > len(data) {
			return nil, fmt.Errorf("truncated option %d: need %d bytes, have %d", code, length, len(data)-i)
		}
		l.Append(code, data[i:i+length])
		i += length
	}
	return l, nil
}

// FormatValue renders option data as config-file text for the given type.
func FormatValue(t OptionType, data []byte) string {
	switch t {
	case TypeIP:
		if ip := dhcpv4.BytesToIP(data); ip != nil {
			return ip.String()
		}
	case TypeIPPair:
		if len(data) == 8 {
			return dhcpv4.BytesToIP(data[:4]).String() + "," + dhcpv4.BytesToIP(data[4:]).String()
		}
	case TypeBool:
		if len(data) == 1 {
			if data[0] != 0 {
				return "yes"
			}
			return "no"
		}
	case TypeString:
		return string(data)
	case TypeUint8:
		if len(data) == 1 {
			return fmt.Sprintf("%d", data[0])
		}
	case TypeUint16:
		if v, err := dhcpv4.BytesToUint16(data); err == nil {
			return fmt.Sprintf("%d", v)
		}
	case TypeInt16:
		if v, err := dhcpv4.BytesToUint16(data); err == nil {
			return fmt.Sprintf("%d", int16(v))
		}
	case TypeUint32:
		if v, err := dhcpv4.BytesToUint32(data); err == nil {
			return fmt.Sprintf("%d", v)
		}
	case TypeInt32:
		if v, err := dhcpv4.BytesToInt32(data); err == nil {
			return fmt.Sprintf("%d", v)
		}
	}
	return fmt.Sprintf("%x", data)
}

// String renders the list as "name=value" pairs in order, for logging.
func (l *OptionList) String() string {
	parts := make([]string, 0, len(l.opts))
	for _, o := range l.opts {
		if def, ok := OptionByCode(o.Code); ok {
			parts = append(parts, def.Name+"="+FormatValue(def.Type, o.Data))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d=%x", o.Code, o.Data))
	}
	return strings.Join(parts, " ")
}

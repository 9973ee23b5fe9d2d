package dhcp

import (
	"strings"

	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// Delimiters used when splitting an option statement.
const (
	optionNameDelims  = " \t="
	optionValueDelims = ", \t"
)

// Tokenizer hands out delimiter-separated tokens from a single line.
// Each call may use a different delimiter set, as strtok does.
type Tokenizer struct {
	rest string
}

// NewTokenizer returns a tokenizer over line.
func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{rest: line}
}

// Next skips leading delimiters and returns the next token, or false when
// the line is exhausted.
func (t *Tokenizer) Next(delims string) (string, bool) {
	s := strings.TrimLeft(t.rest, delims)
	if s == "" {
		t.rest = ""
		return "", false
	}
	end := strings.IndexAny(s, delims)
	if end < 0 {
		t.rest = ""
		return s, true
	}
	t.rest = s[end+1:]
	return s[:end], true
}

// ParseOptionLine handles the remainder of an "option" statement, e.g.
// "router 10.0.0.1, 10.0.0.2". Unknown and non-configurable names are
// rejected without touching the list.
func (l *OptionList) ParseOptionLine(line string) bool {
	tok := NewTokenizer(line)
	name, ok := tok.Next(optionNameDelims)
	if !ok {
		return false
	}
	def, ok := LookupOption(name)
	if !ok || !def.Configurable {
		return false
	}
	return l.EncodeOption(def, tok) > 0
}

// EncodeOption reads values for def from tok and appends one record per
// value. Non-list options read a single value; list options keep reading
// until the tokens run out or a value fails. It returns the number of
// records appended.
func (l *OptionList) EncodeOption(def OptionDef, tok *Tokenizer) int {
	appended := 0
	for {
		val, ok := tok.Next(optionValueDelims)
		if !ok {
			return appended
		}
		data, ok := encodeValue(def.Type, val, tok)
		if !ok {
			return appended
		}
		l.Append(def.Code, data)
		appended++
		if !def.List {
			return appended
		}
	}
}

// encodeValue converts one value to its wire form. IP pairs pull their
// second address from tok.
func encodeValue(t OptionType, val string, tok *Tokenizer) ([]byte, bool) {
	switch t {
	case TypeIP:
		return ReadIP(val)
	case TypeIPPair:
		first, ok := ReadIP(val)
		if !ok {
			return nil, false
		}
		next, ok := tok.Next(optionValueDelims)
		if !ok {
			return nil, false
		}
		second, ok := ReadIP(next)
		if !ok {
			return nil, false
		}
		return append(first, second...), true
	case TypeString:
		s, _ := ReadString(val)
		if len(s) > dhcpv4.MaxOptionLen {
			s = s[:dhcpv4.MaxOptionLen]
		}
		return []byte(s), true
	case TypeBool:
		b, ok := ReadBool(val)
		if !ok {
			return nil, false
		}
		if b {
			return []byte{1}, true
		}
		return []byte{0}, true
	case TypeUint8:
		v, _ := ReadUint32(val)
		return []byte{byte(v)}, true
	case TypeUint16:
		v, _ := ReadUint32(val)
		return dhcpv4.Uint16ToBytes(uint16(v)), true
	case TypeInt16:
		v, _ := ReadInt32(val)
		return dhcpv4.Int16ToBytes(int16(v)), true
	case TypeUint32:
		v, _ := ReadUint32(val)
		return dhcpv4.Uint32ToBytes(v), true
	case TypeInt32:
		v, _ := ReadInt32(val)
		return dhcpv4.Int32ToBytes(v), true
	}
	return nil, false
}

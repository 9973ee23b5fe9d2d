package dhcp

import (
	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// OptionType defines the data type of a DHCP option value.
type OptionType int

const (
	TypeIP     OptionType = iota + 1 // Single IPv4 address (4 bytes)
	TypeIPPair                       // Two IPv4 addresses (8 bytes)
	TypeBool                         // 1 byte, 0x00 or 0x01
	TypeString                       // Variable-length ASCII, at most 254 bytes
	TypeUint8                        // Single byte
	TypeUint16                       // 2 bytes big-endian
	TypeInt16                        // 2 bytes big-endian signed
	TypeUint32                       // 4 bytes big-endian
	TypeInt32                        // 4 bytes big-endian signed
)

var typeNames = map[OptionType]string{
	TypeIP:     "ip",
	TypeIPPair: "ip-pair",
	TypeBool:   "boolean",
	TypeString: "string",
	TypeUint8:  "u8",
	TypeUint16: "u16",
	TypeInt16:  "s16",
	TypeUint32: "u32",
	TypeInt32:  "s32",
}

func (t OptionType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// typeLengths holds the fixed encoded size of each type. Strings are 0 (variable).
var typeLengths = map[OptionType]int{
	TypeIP:     4,
	TypeIPPair: 8,
	TypeBool:   1,
	TypeString: 0,
	TypeUint8:  1,
	TypeUint16: 2,
	TypeInt16:  2,
	TypeUint32: 4,
	TypeInt32:  4,
}

// TypeLength returns the fixed byte length of a type, or 0 for variable-length types.
func TypeLength(t OptionType) int {
	return typeLengths[t]
}

// OptionDef describes one option the server knows how to encode.
type OptionDef struct {
	Name         string
	Type         OptionType
	List         bool // Each value becomes its own record with the same code
	Code         dhcpv4.OptionCode
	Configurable bool // Settable from the config file
}

// optionSchema lists every supported option. Order is the order used for display.
var optionSchema = []OptionDef{
	{Name: "subnet", Type: TypeIP, Code: dhcpv4.OptionSubnetMask, Configurable: true},
	{Name: "timezone", Type: TypeInt32, Code: dhcpv4.OptionTimeOffset, Configurable: true},
	{Name: "router", Type: TypeIP, List: true, Code: dhcpv4.OptionRouter, Configurable: true},
	{Name: "timesvr", Type: TypeIP, List: true, Code: dhcpv4.OptionTimeServer, Configurable: true},
	{Name: "namesvr", Type: TypeIP, List: true, Code: dhcpv4.OptionNameServer, Configurable: true},
	{Name: "dns", Type: TypeIP, List: true, Code: dhcpv4.OptionDomainNameServer, Configurable: true},
	{Name: "logsvr", Type: TypeIP, List: true, Code: dhcpv4.OptionLogServer, Configurable: true},
	{Name: "cookiesvr", Type: TypeIP, List: true, Code: dhcpv4.OptionCookieServer, Configurable: true},
	{Name: "lprsvr", Type: TypeIP, List: true, Code: dhcpv4.OptionLPRServer, Configurable: true},
	{Name: "bootsize", Type: TypeUint16, Code: dhcpv4.OptionBootFileSize, Configurable: true},
	{Name: "domain", Type: TypeString, Code: dhcpv4.OptionDomainName, Configurable: true},
	{Name: "swapsvr", Type: TypeIP, Code: dhcpv4.OptionSwapServer, Configurable: true},
	{Name: "rootpath", Type: TypeString, Code: dhcpv4.OptionRootPath, Configurable: true},
	{Name: "mtu", Type: TypeUint16, Code: dhcpv4.OptionInterfaceMTU, Configurable: true},
	{Name: "broadcast", Type: TypeIP, Code: dhcpv4.OptionBroadcastAddress, Configurable: true},
	{Name: "wins", Type: TypeIP, List: true, Code: dhcpv4.OptionNetBIOSNameServer, Configurable: true},
	{Name: "lease", Type: TypeUint32, Code: dhcpv4.OptionIPLeaseTime, Configurable: true},
	{Name: "dhcptype", Type: TypeUint8, Code: dhcpv4.OptionDHCPMessageType},
	{Name: "serverid", Type: TypeIP, Code: dhcpv4.OptionServerIdentifier},
	// udhcpd has always sent NTP servers under 0x3a; clients configured
	// against it expect that code, so it is kept.
	{Name: "ntpsrv", Type: TypeIP, List: true, Code: dhcpv4.OptionRenewalTime, Configurable: true},
	{Name: "tftp", Type: TypeString, Code: dhcpv4.OptionTFTPServerName, Configurable: true},
	{Name: "bootfile", Type: TypeString, Code: dhcpv4.OptionBootfileName, Configurable: true},
}

var (
	schemaByName = make(map[string]OptionDef, len(optionSchema))
	schemaByCode = make(map[dhcpv4.OptionCode]OptionDef, len(optionSchema))
)

func init() {
	for _, def := range optionSchema {
		if def.Code == dhcpv4.OptionPad || def.Code == dhcpv4.OptionEnd {
			panic("dhcp: option " + def.Name + " uses a reserved code")
		}
		if _, dup := schemaByCode[def.Code]; dup {
			panic("dhcp: duplicate option code for " + def.Name)
		}
		schemaByName[def.Name] = def
		schemaByCode[def.Code] = def
	}
}

// LookupOption returns the definition for an option name. Names match exactly.
func LookupOption(name string) (OptionDef, bool) {
	def, ok := schemaByName[name]
	return def, ok
}

// OptionByCode returns the definition for a wire code.
func OptionByCode(code dhcpv4.OptionCode) (OptionDef, bool) {
	def, ok := schemaByCode[code]
	return def, ok
}

// Schema returns a copy of the option schema in display order.
func Schema() []OptionDef {
	out := make([]OptionDef, len(optionSchema))
	copy(out, optionSchema)
	return out
}

// Package dhcpv4 provides constants and encoding helpers for DHCPv4 option data.
package dhcpv4

// DHCP Option Codes (RFC 2132)
type OptionCode byte

const (
	OptionPad               OptionCode = 0
	OptionSubnetMask        OptionCode = 1
	OptionTimeOffset        OptionCode = 2
	OptionRouter            OptionCode = 3
	OptionTimeServer        OptionCode = 4
	OptionNameServer        OptionCode = 5
	OptionDomainNameServer  OptionCode = 6
	OptionLogServer         OptionCode = 7
	OptionCookieServer      OptionCode = 8
	OptionLPRServer         OptionCode = 9
	OptionBootFileSize      OptionCode = 13
	OptionDomainName        OptionCode = 15
	OptionSwapServer        OptionCode = 16
	OptionRootPath          OptionCode = 17
	OptionInterfaceMTU      OptionCode = 26
	OptionBroadcastAddress  OptionCode = 28
	OptionNetBIOSNameServer OptionCode = 44
	OptionIPLeaseTime       OptionCode = 51
	OptionDHCPMessageType   OptionCode = 53
	OptionServerIdentifier  OptionCode = 54
	OptionRenewalTime       OptionCode = 58
	OptionTFTPServerName    OptionCode = 66
	OptionBootfileName      OptionCode = 67
	OptionEnd               OptionCode = 255
)

// MaxOptionLen is the largest value a single option record may carry.
// The length byte allows 255, but one byte is reserved as in udhcpd.
const MaxOptionLen = 254

// CHAddrLen is the size of the client hardware address field (RFC 2131 §2).
const CHAddrLen = 16

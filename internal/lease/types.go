// Package lease holds the fixed-capacity lease table and its on-disk format.
package lease

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// Lease is one slot of the lease table. A zero YIAddr marks an empty slot.
type Lease struct {
	CHAddr  [dhcpv4.CHAddrLen]byte
	YIAddr  uint32
	Expires time.Time
}

// IsEmpty reports whether the slot holds no lease.
func (l Lease) IsEmpty() bool {
	return l.YIAddr == 0
}

// IsExpired returns true if the lease has expired at now.
func (l Lease) IsExpired(now time.Time) bool {
	return !l.Expires.After(now)
}

// Remaining returns the time left on the lease at now, never negative.
func (l Lease) Remaining(now time.Time) time.Duration {
	r := l.Expires.Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

// IP returns the assigned address.
func (l Lease) IP() net.IP {
	return dhcpv4.Uint32ToIP(l.YIAddr)
}

// MAC returns the first n bytes of the hardware address field (6 for Ethernet).
func (l Lease) MAC(n int) net.HardwareAddr {
	if n <= 0 || n > len(l.CHAddr) {
		n = 6
	}
	mac := make(net.HardwareAddr, n)
	copy(mac, l.CHAddr[:n])
	return mac
}

// SetMAC copies a hardware address into the CHAddr field.
func (l *Lease) SetMAC(mac net.HardwareAddr) {
	l.CHAddr = [dhcpv4.CHAddrLen]byte{}
	copy(l.CHAddr[:], mac)
}

func (l Lease) String() string {
	return fmt.Sprintf("%s %s %s", l.MAC(6), l.IP(), l.Expires.UTC().Format(time.RFC3339))
}

// Pool is an inclusive address range in host byte order.
type Pool struct {
	Start uint32
	End   uint32
}

// NewPool builds a pool from two IPv4 addresses.
func NewPool(start, end net.IP) Pool {
	return Pool{Start: dhcpv4.IPToUint32(start), End: dhcpv4.IPToUint32(end)}
}

// Contains reports whether addr lies within the pool.
func (p Pool) Contains(addr uint32) bool {
	return addr >= p.Start && addr <= p.End
}

// Size returns the number of addresses in the pool.
func (p Pool) Size() uint32 {
	if p.End < p.Start {
		return 0
	}
	return p.End - p.Start + 1
}

// Table is a fixed-capacity array of lease slots. It never grows.
type Table struct {
	mu    sync.RWMutex
	slots []Lease
}

// NewTable creates an empty table with room for capacity leases.
func NewTable(capacity int) *Table {
	if capacity < 0 {
		capacity = 0
	}
	return &Table{slots: make([]Lease, capacity)}
}

// Cap returns the number of slots.
func (t *Table) Cap() int {
	return len(t.slots)
}

// Len returns the number of non-empty slots.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, l := range t.slots {
		if !l.IsEmpty() {
			n++
		}
	}
	return n
}

// Get returns the lease in slot i.
func (t *Table) Get(i int) (Lease, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.slots) {
		return Lease{}, fmt.Errorf("slot %d out of range [0,%d)", i, len(t.slots))
	}
	return t.slots[i], nil
}

// Set stores l in slot i. A lease with a zero address clears the slot.
func (t *Table) Set(i int, l Lease) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.slots) {
		return fmt.Errorf("slot %d out of range [0,%d)", i, len(t.slots))
	}
	t.slots[i] = l
	return nil
}

// Clear empties every slot.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.slots {
		t.slots[i] = Lease{}
	}
}

// FindByIP returns the slot index holding ip, or -1.
func (t *Table) FindByIP(ip net.IP) int {
	addr := dhcpv4.IPToUint32(ip)
	if addr == 0 {
		return -1
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, l := range t.slots {
		if l.YIAddr == addr {
			return i
		}
	}
	return -1
}

// Leases returns copies of the non-empty slots in slot order.
func (t *Table) Leases() []Lease {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Lease, 0, len(t.slots))
	for _, l := range t.slots {
		if !l.IsEmpty() {
			out = append(out, l)
		}
	}
	return out
}

// load replaces the table contents with leases, which must fit.
func (t *Table) load(leases []Lease) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.slots {
		t.slots[i] = Lease{}
	}
	copy(t.slots, leases)
}

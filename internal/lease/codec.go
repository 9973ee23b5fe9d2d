package lease

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/athena-dhcpd/udhcpd/pkg/dhcpv4"
)

// RecordSize is the size of one on-disk lease record.
const RecordSize = dhcpv4.CHAddrLen + 4 + 4

// Record is the on-disk form of a lease: hardware address, assigned address
// and expiry, both integers big-endian. Expiry is either an absolute Unix
// time or the seconds remaining when the record was written.
type Record struct {
	CHAddr [dhcpv4.CHAddrLen]byte
	YIAddr uint32
	Expiry uint32
}

// MarshalBinary encodes the record as RecordSize bytes.
func (r Record) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordSize)
	copy(b, r.CHAddr[:])
	binary.BigEndian.PutUint32(b[16:20], r.YIAddr)
	binary.BigEndian.PutUint32(b[20:24], r.Expiry)
	return b, nil
}

// UnmarshalBinary decodes a record from exactly RecordSize bytes.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) != RecordSize {
		return fmt.Errorf("invalid lease record length %d: expected %d", len(b), RecordSize)
	}
	copy(r.CHAddr[:], b[:16])
	r.YIAddr = binary.BigEndian.Uint32(b[16:20])
	r.Expiry = binary.BigEndian.Uint32(b[20:24])
	return nil
}

// encodeRecord converts a lease to its stored form. In remaining mode the
// expiry is the whole seconds left at now, clamped to zero for expired leases.
func encodeRecord(l Lease, remaining bool, now time.Time) Record {
	r := Record{CHAddr: l.CHAddr, YIAddr: l.YIAddr}
	if remaining {
		if left := l.Expires.Unix() - now.Unix(); left > 0 {
			r.Expiry = uint32(left)
		}
	} else {
		r.Expiry = uint32(l.Expires.Unix())
	}
	return r
}

// decodeRecord is the inverse of encodeRecord.
func decodeRecord(r Record, remaining bool, now time.Time) Lease {
	l := Lease{CHAddr: r.CHAddr, YIAddr: r.YIAddr}
	if remaining {
		l.Expires = time.Unix(now.Unix()+int64(r.Expiry), 0)
	} else {
		l.Expires = time.Unix(int64(r.Expiry), 0)
	}
	return l
}

// Lease converts the record to a lease under the given expiry policy.
func (r Record) Lease(remaining bool, now time.Time) Lease {
	return decodeRecord(r, remaining, now)
}

// ReadRecords decodes every complete record in r with no pool or capacity
// checks, for inspecting a lease file as written. A trailing partial record
// is ignored.
func ReadRecords(r io.Reader) ([]Record, error) {
	var recs []Record
	buf := make([]byte, RecordSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return recs, nil
			}
			return recs, fmt.Errorf("reading lease record %d: %w", len(recs), err)
		}
		var rec Record
		if err := rec.UnmarshalBinary(buf); err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}

// Serialize writes one record per non-empty slot of t, in slot order.
// It returns the number of records written.
func Serialize(w io.Writer, t *Table, remaining bool, now time.Time) (int, error) {
	written := 0
	var werr error
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, l := range t.slots {
		if l.IsEmpty() {
			continue
		}
		b, _ := encodeRecord(l, remaining, now).MarshalBinary()
		if _, err := w.Write(b); err != nil {
			werr = fmt.Errorf("writing lease record for %s: %w", l.IP(), err)
			break
		}
		written++
	}
	return written, werr
}

// LoadResult summarizes a Deserialize call.
type LoadResult struct {
	Loaded    int  // Records accepted into the table
	Skipped   int  // Records outside the pool
	Truncated bool // More data followed once the table was full
}

// Deserialize replaces the contents of t with records read from r. Records
// whose address is zero or outside pool are skipped. Reading stops once t.Cap()
// records have been accepted; if data remains at that point the result is
// marked Truncated. A trailing partial record is ignored.
func Deserialize(r io.Reader, t *Table, pool Pool, remaining bool, now time.Time) (LoadResult, error) {
	var res LoadResult
	accepted := make([]Lease, 0, t.Cap())
	buf := make([]byte, RecordSize)

	for len(accepted) < t.Cap() {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return res, fmt.Errorf("reading lease record %d: %w", len(accepted)+res.Skipped, err)
		}
		var rec Record
		if err := rec.UnmarshalBinary(buf); err != nil {
			return res, err
		}
		if rec.YIAddr == 0 || !pool.Contains(rec.YIAddr) {
			res.Skipped++
			continue
		}
		accepted = append(accepted, decodeRecord(rec, remaining, now))
	}
	res.Loaded = len(accepted)

	if res.Loaded == t.Cap() {
		var probe [1]byte
		if n, _ := io.ReadFull(r, probe[:]); n > 0 {
			res.Truncated = true
		}
	}

	t.load(accepted)
	return res, nil
}

package lease

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltDB bucket names.
var (
	bucketLeases = []byte("leases")
	bucketMeta   = []byte("meta")
	keySavedAt   = []byte("saved_at")
)

// Snapshot mirrors the lease table into a BoltDB file. Each occupied slot is
// stored under its 4-byte address as a lease record with an absolute expiry,
// so a snapshot can rebuild the table when the lease file is lost.
type Snapshot struct {
	db *bolt.DB
}

// OpenSnapshot opens or creates the snapshot database at path.
func OpenSnapshot(path string) (*Snapshot, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketLeases, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("creating bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing snapshot buckets: %w", err)
	}
	return &Snapshot{db: db}, nil
}

// Close closes the underlying database.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

// Save replaces the stored leases with the current contents of t.
func (s *Snapshot) Save(t *Table, now time.Time) error {
	leases := t.Leases()
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketLeases); err != nil {
			return fmt.Errorf("clearing snapshot leases: %w", err)
		}
		b, err := tx.CreateBucket(bucketLeases)
		if err != nil {
			return fmt.Errorf("creating bucket %s: %w", bucketLeases, err)
		}
		for _, l := range leases {
			key := make([]byte, 4)
			binary.BigEndian.PutUint32(key, l.YIAddr)
			val, _ := encodeRecord(l, false, now).MarshalBinary()
			if err := b.Put(key, val); err != nil {
				return fmt.Errorf("writing snapshot lease %s: %w", l.IP(), err)
			}
		}

		ts := make([]byte, 8)
		binary.BigEndian.PutUint64(ts, uint64(now.Unix()))
		return tx.Bucket(bucketMeta).Put(keySavedAt, ts)
	})
}

// Restore loads the snapshot into t with the same pool and capacity rules as
// Deserialize. Leases come back in ascending address order.
func (s *Snapshot) Restore(t *Table, pool Pool) (LoadResult, error) {
	var res LoadResult
	accepted := make([]Lease, 0, t.Cap())

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLeases).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if len(accepted) == t.Cap() {
				res.Truncated = true
				return nil
			}
			var rec Record
			if err := rec.UnmarshalBinary(v); err != nil {
				return fmt.Errorf("decoding snapshot lease %x: %w", k, err)
			}
			if rec.YIAddr == 0 || !pool.Contains(rec.YIAddr) {
				res.Skipped++
				continue
			}
			accepted = append(accepted, decodeRecord(rec, false, time.Time{}))
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	res.Loaded = len(accepted)
	t.load(accepted)
	return res, nil
}

// SavedAt returns the time of the last Save, or the zero time if none.
func (s *Snapshot) SavedAt() (time.Time, error) {
	var at time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(keySavedAt)
		if len(v) == 8 {
			at = time.Unix(int64(binary.BigEndian.Uint64(v)), 0)
		}
		return nil
	})
	return at, err
}

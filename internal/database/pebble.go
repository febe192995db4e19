package database

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/cockroachdb/pebble"

	"databazaar/internal/bazaar"
	"databazaar/internal/record"
)

// Key layout:
//
//	listing/<id, zero padded to 20 digits>  -> encoded record
//	meta/next_id                            -> big-endian uint64
//
// Zero padding makes lexicographic key order equal to numeric id order.
const listingPrefix = "listing/"

var (
	nextIDKey       = []byte("meta/next_id")
	listingLowerKey = []byte(listingPrefix)
	listingUpperKey = []byte("listing0") // '0' sorts right after '/'
)

// PebbleStore implements bazaar.Storage on a Pebble LSM database.
// Every write is synced before it returns.
type PebbleStore struct {
	db *pebble.DB

	// allocMu serialises read-increment-write of the counter key.
	allocMu sync.Mutex
}

// NewPebbleStore opens (creating if needed) a Pebble database in dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening pebble database: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Next returns the next identifier and advances the persisted counter.
func (p *PebbleStore) Next() (uint64, error) {
	p.allocMu.Lock()
	defer p.allocMu.Unlock()

	next := uint64(1)
	val, closer, err := p.db.Get(nextIDKey)
	switch {
	case errors.Is(err, pebble.ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("reading allocator: %w", err)
	default:
		if len(val) != 8 {
			closer.Close()
			return 0, fmt.Errorf("allocator value has %d bytes, want 8", len(val))
		}
		next = binary.BigEndian.Uint64(val)
		closer.Close()
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next+1)
	if err := p.db.Set(nextIDKey, buf[:], pebble.Sync); err != nil {
		return 0, fmt.Errorf("advancing allocator: %w", err)
	}
	return next, nil
}

// Insert stores listing under id, overwriting any existing record.
func (p *PebbleStore) Insert(id uint64, listing *bazaar.Listing) error {
	if err := p.db.Set(listingKey(id), record.Encode(listing), pebble.Sync); err != nil {
		return fmt.Errorf("writing listing %d: %w", id, err)
	}
	return nil
}

// Update is identical to Insert.
func (p *PebbleStore) Update(id uint64, listing *bazaar.Listing) error {
	return p.Insert(id, listing)
}

// Get returns the listing stored under id, or nil if there is none.
func (p *PebbleStore) Get(id uint64) (*bazaar.Listing, error) {
	val, closer, err := p.db.Get(listingKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading listing %d: %w", id, err)
	}
	defer closer.Close()

	// Decode copies out of val, which is only valid until closer is closed.
	l, err := record.Decode(val)
	if err != nil {
		return nil, fmt.Errorf("decoding listing %d: %w", id, err)
	}
	return l, nil
}

// Scan returns all listings in ascending identifier order.
func (p *PebbleStore) Scan() ([]*bazaar.Listing, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: listingLowerKey,
		UpperBound: listingUpperKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating iterator: %w", err)
	}
	defer iter.Close()

	var result []*bazaar.Listing
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := parseListingKey(iter.Key())
		if err != nil {
			return nil, err
		}
		l, err := record.Decode(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("decoding listing %d: %w", id, err)
		}
		result = append(result, l)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}
	return result, nil
}

// BackupTo writes a consistent checkpoint of the database to destDir,
// which must not exist yet.
func (p *PebbleStore) BackupTo(destDir string) error {
	if err := p.db.Checkpoint(destDir); err != nil {
		return fmt.Errorf("checkpointing database: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func listingKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", listingPrefix, id))
}

func parseListingKey(key []byte) (uint64, error) {
	s := string(key)
	if len(s) <= len(listingPrefix) || s[:len(listingPrefix)] != listingPrefix {
		return 0, fmt.Errorf("unexpected key %q", s)
	}
	id, err := strconv.ParseUint(s[len(listingPrefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing key %q: %w", s, err)
	}
	return id, nil
}

// Compile-time check that PebbleStore implements bazaar.Storage interface
var _ bazaar.Storage = (*PebbleStore)(nil)

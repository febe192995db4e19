package bazaar

// Allocator issues listing identifiers. The first identifier is 1 and every
// identifier returned is strictly greater than all identifiers returned
// before it, across restarts for durable implementations.
type Allocator interface {
	Next() (uint64, error)
}

// ListingStore is a durable mapping from identifier to listing.
// Implementations never hand out references to their internal state: every
// listing returned is a fresh copy, and every listing passed in is copied
// before it is kept.
type ListingStore interface {
	// Insert stores listing under id, overwriting any existing record.
	Insert(id uint64, listing *Listing) error

	// Get returns the listing stored under id, or nil if there is none.
	Get(id uint64) (*Listing, error)

	// Scan returns every stored listing in ascending identifier order.
	// Each call performs a fresh traversal.
	Scan() ([]*Listing, error)

	// Update overwrites the record at id. It behaves exactly like Insert;
	// whether the listing must already exist is decided by the caller.
	Update(id uint64, listing *Listing) error
}

// Storage is a backend that provides both the allocator and the listing
// store, sharing one lifetime.
type Storage interface {
	Allocator
	ListingStore

	// Close releases the underlying resources.
	Close() error
}

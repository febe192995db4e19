package bazaar

import (
	"fmt"
	"sync"
)

// UploadSucceeded is the status message reported for a successful upload.
const UploadSucceeded = "Data uploaded successfully"

// ListingService is the operations layer of the marketplace. It mints
// identifiers, enforces ownership on mutation and projects public views.
//
// Mutating operations hold the write lock for their whole read-modify-write
// sequence, so at most one writer touches the store at a time. Reads share
// the read lock and observe the state left by the last completed write.
type ListingService struct {
	mu        sync.RWMutex
	allocator Allocator
	store     ListingStore
	logger    Logger
}

// NewListingService creates a ListingService over the given allocator and store.
// A nil logger discards output.
func NewListingService(allocator Allocator, store ListingStore, logger Logger) *ListingService {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &ListingService{
		allocator: allocator,
		store:     store,
		logger:    logger,
	}
}

// CreateListing records a new listing owned by the caller and returns its
// identifier. Inputs are not validated; empty names and zero prices are accepted.
func (s *ListingService) CreateListing(rc RequestContext, name, description string, price uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.allocator.Next()
	if err != nil {
		return 0, fmt.Errorf("allocating listing id: %w", err)
	}

	listing := &Listing{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Owner:       rc.Caller,
		CreatedAt:   rc.Now,
	}
	if err := s.store.Insert(id, listing); err != nil {
		return 0, fmt.Errorf("inserting listing %d: %w", id, err)
	}

	s.logger.Info("listing created", "id", id, "owner", string(rc.Caller), "price", price)
	return id, nil
}

// UploadData replaces the payload of listing id with data.
// Only the owner may upload; the previous payload is discarded entirely.
func (s *ListingService) UploadData(rc RequestContext, id uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.store.Get(id)
	if err != nil {
		return fmt.Errorf("getting listing %d: %w", id, err)
	}
	if listing == nil {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if !listing.IsOwnedBy(rc.Caller) {
		s.logger.Warn("upload rejected", "id", id, "caller", string(rc.Caller))
		return fmt.Errorf("listing %d: %w", id, ErrUnauthorized)
	}

	listing.DataContent = append([]byte(nil), data...)
	if err := s.store.Update(id, listing); err != nil {
		return fmt.Errorf("updating listing %d: %w", id, err)
	}

	s.logger.Info("listing data uploaded", "id", id, "size", len(data))
	return nil
}

// ListAllListings returns every listing in creation order with payloads stripped.
func (s *ListingService) ListAllListings() ([]*Listing, error) {
	return s.collect(func(*Listing) bool { return true })
}

// GetListing returns the full listing, payload included. No ownership check
// is applied.
func (s *ListingService) GetListing(id uint64) (*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting listing %d: %w", id, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	return listing, nil
}

// GetMyListings returns the caller's listings in creation order with
// payloads stripped.
func (s *ListingService) GetMyListings(rc RequestContext) ([]*Listing, error) {
	return s.collect(func(l *Listing) bool { return l.IsOwnedBy(rc.Caller) })
}

// collect scans the store and returns public views of the listings accepted by keep.
func (s *ListingService) collect(keep func(*Listing) bool) ([]*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.store.Scan()
	if err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}

	result := make([]*Listing, 0, len(all))
	for _, l := range all {
		if keep(l) {
			result = append(result, l.PublicView())
		}
	}
	return result, nil
}

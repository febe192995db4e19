package bazaar

import "time"

// Identity is the opaque caller identity supplied by the host environment.
type Identity string

// Listing is a marketplace data listing: metadata, a price and an optional
// binary payload owned by the identity that created it.
type Listing struct {
	ID          uint64
	Name        string
	Description string
	Price       uint64
	Owner       Identity
	DataContent []byte
	CreatedAt   time.Time
}

// Clone returns a deep copy of the listing.
func (l *Listing) Clone() *Listing {
	c := *l
	if l.DataContent != nil {
		c.DataContent = append([]byte(nil), l.DataContent...)
	}
	return &c
}

// PublicView returns a copy of the listing with the payload stripped.
// Collection-returning operations only ever hand out public views.
func (l *Listing) PublicView() *Listing {
	c := *l
	c.DataContent = nil
	return &c
}

// IsOwnedBy reports whether id created the listing.
func (l *Listing) IsOwnedBy(id Identity) bool {
	return l.Owner == id
}

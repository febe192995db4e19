// Package record encodes listings to and from the byte form kept by the
// storage backends.
//
// Records use the protobuf wire format. Each attribute is a numbered field,
// so a decoder skips fields it does not know (written by a newer schema) and
// leaves absent fields at their zero value (written by an older one).
package record

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"databazaar/internal/bazaar"
)

// ErrCorruptRecord is returned when stored bytes cannot be decoded.
// The stores only decode bytes they wrote themselves, so this indicates
// storage corruption rather than a user error.
var ErrCorruptRecord = errors.New("corrupt listing record")

// Field numbers. Never reuse or renumber these.
const (
	fieldID          protowire.Number = 1
	fieldName        protowire.Number = 2
	fieldDescription protowire.Number = 3
	fieldPrice       protowire.Number = 4
	fieldOwner       protowire.Number = 5
	fieldDataContent protowire.Number = 6
	fieldCreatedAt   protowire.Number = 7
)

// Encode returns the byte form of l. Zero-valued fields are omitted.
func Encode(l *bazaar.Listing) []byte {
	var b []byte
	b = appendVarint(b, fieldID, l.ID)
	b = appendString(b, fieldName, l.Name)
	b = appendString(b, fieldDescription, l.Description)
	b = appendVarint(b, fieldPrice, l.Price)
	b = appendString(b, fieldOwner, string(l.Owner))
	if len(l.DataContent) > 0 {
		b = protowire.AppendTag(b, fieldDataContent, protowire.BytesType)
		b = protowire.AppendBytes(b, l.DataContent)
	}
	if !l.CreatedAt.IsZero() {
		b = appendVarint(b, fieldCreatedAt, uint64(l.CreatedAt.UnixNano()))
	}
	return b
}

// Decode parses b into a new Listing. The returned listing shares no memory with b.
func Decode(b []byte) (*bazaar.Listing, error) {
	l := &bazaar.Listing{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: tag: %v", ErrCorruptRecord, protowire.ParseError(n))
		}
		b = b[n:]

		if want, known := wireTypes[num]; known && typ != want {
			return nil, fmt.Errorf("%w: field %d has wire type %d, want %d", ErrCorruptRecord, num, typ, want)
		}

		switch num {
		case fieldID, fieldPrice, fieldCreatedAt:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrCorruptRecord, num, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case fieldID:
				l.ID = v
			case fieldPrice:
				l.Price = v
			case fieldCreatedAt:
				l.CreatedAt = time.Unix(0, int64(v)).UTC()
			}
		case fieldName, fieldDescription, fieldOwner, fieldDataContent:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrCorruptRecord, num, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case fieldName:
				l.Name = string(v)
			case fieldDescription:
				l.Description = string(v)
			case fieldOwner:
				l.Owner = bazaar.Identity(v)
			case fieldDataContent:
				l.DataContent = append([]byte(nil), v...)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: unknown field %d: %v", ErrCorruptRecord, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return l, nil
}

var wireTypes = map[protowire.Number]protowire.Type{
	fieldID:          protowire.VarintType,
	fieldName:        protowire.BytesType,
	fieldDescription: protowire.BytesType,
	fieldPrice:       protowire.VarintType,
	fieldOwner:       protowire.BytesType,
	fieldDataContent: protowire.BytesType,
	fieldCreatedAt:   protowire.VarintType,
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

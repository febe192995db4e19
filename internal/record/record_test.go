package record

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"databazaar/internal/bazaar"
)

func sampleListing() *bazaar.Listing {
	return &bazaar.Listing{
		ID:          7,
		Name:        "Census2024",
		Description: "US demo data",
		Price:       100,
		Owner:       "principal-a",
		DataContent: []byte("a,b,c\n1,2,3\n"),
		CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 123, time.UTC),
	}
}

func TestEncodeDecode(t *testing.T) {
	want := sampleListing()

	got, err := Decode(Encode(want))
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Price, got.Price)
	assert.Equal(t, want.Owner, got.Owner)
	assert.Equal(t, want.DataContent, got.DataContent)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
}

func TestDecode_EmptyRecordIsZeroListing(t *testing.T) {
	got, err := Decode(nil)
	require.NoError(t, err)

	assert.Zero(t, got.ID)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.DataContent)
	assert.True(t, got.CreatedAt.IsZero())
}

func TestDecode_DoesNotAliasInput(t *testing.T) {
	b := Encode(sampleListing())

	got, err := Decode(b)
	require.NoError(t, err)

	for i := range b {
		b[i] = 0xff
	}
	assert.Equal(t, []byte("a,b,c\n1,2,3\n"), got.DataContent)
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	b := Encode(sampleListing())
	// Fields a later schema might add.
	b = protowire.AppendTag(b, 20, protowire.BytesType)
	b = protowire.AppendString(b, "category")
	b = protowire.AppendTag(b, 21, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = protowire.AppendTag(b, 22, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 99)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "Census2024", got.Name)
	assert.Equal(t, uint64(100), got.Price)
}

func TestDecode_OlderRecordWithoutPayloadOrTimestamp(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, fieldID, protowire.VarintType)
	b = protowire.AppendVarint(b, 3)
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, "old")
	b = protowire.AppendTag(b, fieldOwner, protowire.BytesType)
	b = protowire.AppendString(b, "principal-b")

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.ID)
	assert.Equal(t, "old", got.Name)
	assert.Equal(t, bazaar.Identity("principal-b"), got.Owner)
	assert.Zero(t, got.Price)
	assert.Nil(t, got.DataContent)
}

func TestDecode_Corrupt(t *testing.T) {
	valid := Encode(sampleListing())

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "truncated", input: valid[:len(valid)-3]},
		{name: "invalid tag", input: []byte{0x00}},
		{name: "wrong wire type for name", input: protowire.AppendVarint(protowire.AppendTag(nil, fieldName, protowire.VarintType), 1)},
		{name: "bytes length overflows", input: append(protowire.AppendTag(nil, fieldDataContent, protowire.BytesType), 0x7f, 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}

func TestEncode_StableOutput(t *testing.T) {
	a := Encode(sampleListing())
	b := Encode(sampleListing())
	assert.True(t, bytes.Equal(a, b))
}

package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"databazaar/internal/bazaar"
)

func sampleListings() []*bazaar.Listing {
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []*bazaar.Listing{
		{ID: 1, Name: "weather", Description: "daily temps", Price: 100, Owner: "principal-a", CreatedAt: created},
		{ID: 2, Name: "traffic", Description: "hourly counts", Price: 250, Owner: "principal-b", CreatedAt: created.Add(time.Second)},
	}
}

func TestRenderListings_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListings(&buf, FormatText, sampleListings()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "weather")
	assert.Contains(t, lines[1], "2024-01-15T10:30:00Z")
	assert.Contains(t, lines[2], "principal-b")
}

func TestRenderListings_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListings(&buf, FormatJSON, sampleListings()))

	var got []ListingView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[1].ID)
	assert.Equal(t, "traffic", got[1].Name)
	assert.NotContains(t, buf.String(), `"data"`)
}

func TestRenderListings_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListings(&buf, FormatYAML, sampleListings()))

	var got []ListingView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "principal-a", got[0].Owner)
	assert.Equal(t, uint64(250), got[1].Price)
}

func TestRenderListings_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListings(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderListing_IncludesPayload(t *testing.T) {
	l := sampleListings()[0]
	l.DataContent = []byte{0x00, 0xff, 0x10}

	var buf bytes.Buffer
	require.NoError(t, RenderListing(&buf, FormatJSON, l))

	var got ListingView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.DataSize)
	assert.Equal(t, "AP8Q", got.Data)

	buf.Reset()
	require.NoError(t, RenderListing(&buf, FormatText, l))
	assert.Contains(t, buf.String(), "3 bytes")
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderListings(&buf, "xml", sampleListings()))
	assert.Error(t, RenderListing(&buf, "xml", sampleListings()[0]))
}

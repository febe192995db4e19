package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"databazaar/internal/bazaar"
)

// Output formats accepted by the render functions.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ListingView is the serialised form of a listing. Data holds the payload
// base64 encoded and is omitted for public views.
type ListingView struct {
	ID          uint64    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Price       uint64    `json:"price" yaml:"price"`
	Owner       string    `json:"owner" yaml:"owner"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	DataSize    int       `json:"data_size" yaml:"data_size"`
	Data        string    `json:"data,omitempty" yaml:"data,omitempty"`
}

// NewListingView converts l to its serialised form.
func NewListingView(l *bazaar.Listing) ListingView {
	v := ListingView{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Price:       l.Price,
		Owner:       string(l.Owner),
		CreatedAt:   l.CreatedAt.UTC(),
		DataSize:    len(l.DataContent),
	}
	if len(l.DataContent) > 0 {
		v.Data = base64.StdEncoding.EncodeToString(l.DataContent)
	}
	return v
}

// RenderListings writes listings to w in the given format.
func RenderListings(w io.Writer, format string, listings []*bazaar.Listing) error {
	views := make([]ListingView, len(listings))
	for i, l := range listings {
		views[i] = NewListingView(l)
	}

	switch format {
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tOWNER\tCREATED")
		for _, v := range views {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", v.ID, v.Name, v.Price, v.Owner, v.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	case FormatJSON:
		return writeJSON(w, views)
	case FormatYAML:
		return writeYAML(w, views)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

// RenderListing writes a single full listing to w in the given format.
// The text format prints metadata only; payload bytes go through --out.
func RenderListing(w io.Writer, format string, l *bazaar.Listing) error {
	v := NewListingView(l)

	switch format {
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "ID:\t%d\n", v.ID)
		fmt.Fprintf(tw, "Name:\t%s\n", v.Name)
		fmt.Fprintf(tw, "Description:\t%s\n", v.Description)
		fmt.Fprintf(tw, "Price:\t%d\n", v.Price)
		fmt.Fprintf(tw, "Owner:\t%s\n", v.Owner)
		fmt.Fprintf(tw, "Created:\t%s\n", v.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(tw, "Data:\t%d bytes\n", v.DataSize)
		return tw.Flush()
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

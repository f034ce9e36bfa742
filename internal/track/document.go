package track

import (
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	// ErrInvalidJSON is returned when the input is not valid JSON.
	ErrInvalidJSON = eris.New("track: document is not valid JSON")
	// ErrNotObject is returned when the document root is not a JSON object.
	ErrNotObject = eris.New("track: document root must be an object")
)

// Document is a parsed track description. It keeps the raw JSON so that
// object key order and untouched fields survive a round trip.
type Document struct {
	raw []byte
}

// Parse validates data and wraps it as a Document.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, ErrNotObject
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Document{raw: raw}, nil
}

// Bytes returns the document's raw JSON.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Get looks up a gjson path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Has reports whether path exists in the document.
func (d *Document) Has(path string) bool {
	return d.Get(path).Exists()
}

// SetRaw returns a copy of the document with raw JSON stored at path.
func (d *Document) SetRaw(path string, raw []byte) (*Document, error) {
	out, err := sjson.SetRawBytes(d.Bytes(), path, raw)
	if err != nil {
		return nil, eris.Wrapf(err, "track: set %s", path)
	}
	return &Document{raw: out}, nil
}

// Set returns a copy of the document with value encoded at path.
func (d *Document) Set(path string, value any) (*Document, error) {
	out, err := sjson.SetBytes(d.Bytes(), path, value)
	if err != nil {
		return nil, eris.Wrapf(err, "track: set %s", path)
	}
	return &Document{raw: out}, nil
}

// FormatOptions controls how a document is rendered for output. Keys are
// never reordered: curvature rows line up with the units key order.
type FormatOptions struct {
	Indent string
	Width  int
}

// DefaultFormat matches the four-space layout track files are shipped with.
var DefaultFormat = FormatOptions{Indent: "    ", Width: 80}

// Format pretty-prints the document.
func (d *Document) Format(opts FormatOptions) []byte {
	return pretty.PrettyOptions(d.raw, &pretty.Options{
		Width:    opts.Width,
		Prefix:   "",
		Indent:   opts.Indent,
		SortKeys: false,
	})
}

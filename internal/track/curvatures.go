package track

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

// Paths of the curvature section inside a track document.
const (
	CurvaturesPath = "curvatures"
	UnitsPath      = "curvatures.units"
	ValuesPath     = "curvatures.values"
)

// ErrRowShape is returned when a curvature row does not line up with the
// units columns.
var ErrRowShape = eris.New("track: curvature row does not match units")

// Column is one entry of the curvature units mapping. Unit holds raw JSON.
type Column struct {
	Name string
	Unit string
}

// Row maps a column name to the raw JSON value of one track section.
type Row map[string]gjson.Result

// Curvatures is the decoded curvature section.
type Curvatures struct {
	Columns []Column
	Rows    []Row
}

// Index returns the position of the named column, or -1.
func (c Curvatures) Index(name string) int {
	for i, col := range c.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Names lists column names in units order.
func (c Curvatures) Names() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// DecodeColumns reads the units mapping in document order. A repeated key
// keeps its first position and takes the last unit.
func DecodeColumns(units gjson.Result) []Column {
	var cols []Column
	seen := make(map[string]int)
	units.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if i, ok := seen[name]; ok {
			cols[i].Unit = value.Raw
			return true
		}
		seen[name] = len(cols)
		cols = append(cols, Column{Name: name, Unit: value.Raw})
		return true
	})
	return cols
}

// DecodeRows binds each positional row to the given columns.
func DecodeRows(values gjson.Result, cols []Column) ([]Row, error) {
	if !values.IsArray() {
		return nil, eris.Wrap(ErrRowShape, "values is not an array")
	}
	raw := values.Array()
	rows := make([]Row, 0, len(raw))
	for i, r := range raw {
		if !r.IsArray() {
			return nil, eris.Wrapf(ErrRowShape, "row %d is not an array", i)
		}
		entries := r.Array()
		if len(entries) != len(cols) {
			return nil, eris.Wrapf(ErrRowShape, "row %d has %d entries, want %d", i, len(entries), len(cols))
		}
		row := make(Row, len(cols))
		for j, col := range cols {
			row[col.Name] = entries[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EncodeUnits renders columns as a JSON object in slice order.
func EncodeUnits(cols []Column) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quote(col.Name))
		buf.WriteByte(':')
		buf.WriteString(col.Unit)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// EncodeValues renders rows as nested JSON arrays ordered by names.
func EncodeValues(rows []Row, names []string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, name := range names {
			if j > 0 {
				buf.WriteByte(',')
			}
			v, ok := row[name]
			if !ok || v.Raw == "" {
				buf.WriteString("null")
				continue
			}
			buf.WriteString(v.Raw)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// quote encodes s as a JSON string.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

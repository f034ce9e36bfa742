package preprocess

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/sells-group/track-preprocess/internal/model"
	"github.com/sells-group/track-preprocess/internal/track"
)

// Curvature column names.
const (
	ColPosition    = "position"
	ColRadiusStart = "radius at start"
	ColRadiusEnd   = "radius at end"
	ColRadius      = "radius"
)

// CurvatureNotePath is where the curvature step records itself.
const CurvatureNotePath = "metadata.preprocessing.curvatures"

var requiredColumns = []string{ColPosition, ColRadiusStart, ColRadiusEnd}

var two = decimal.NewFromInt(2)

// NormalizeCurvatures replaces the "radius at start" and "radius at end"
// columns of the curvature section with a single nonnegative "radius"
// column. Equal radii become their absolute value; differing radii (transition
// curves) become the mean of their absolute values rounded to two decimals,
// half away from zero. The input document is left untouched.
func NormalizeCurvatures(doc *track.Document) (*track.Document, error) {
	if !doc.Has(track.CurvaturesPath) {
		return nil, ErrMissingSection
	}
	section := doc.Get(track.CurvaturesPath)
	units := section.Get("units")
	values := section.Get("values")
	if !units.Exists() || !values.Exists() {
		return nil, ErrMissingField
	}

	cols := track.DecodeColumns(units)
	curv := track.Curvatures{Columns: cols}
	for _, name := range requiredColumns {
		if curv.Index(name) < 0 {
			return nil, ErrMissingColumn
		}
	}
	if curv.Index(ColRadius) >= 0 {
		return nil, ErrColumnConflict
	}

	rows, err := track.DecodeRows(values, cols)
	if err != nil {
		return nil, err
	}
	curv.Rows = rows

	out := remapColumns(cols)
	for i, row := range curv.Rows {
		r, err := reconcile(row[ColRadiusStart], row[ColRadiusEnd])
		if err != nil {
			return nil, eris.Wrapf(err, "row %d", i)
		}
		delete(row, ColRadiusStart)
		delete(row, ColRadiusEnd)
		row[ColRadius] = gjson.Result{Type: gjson.Number, Raw: r.String(), Num: r.InexactFloat64()}
	}
	names := track.Curvatures{Columns: out}.Names()

	doc, err = doc.SetRaw(track.UnitsPath, track.EncodeUnits(out))
	if err != nil {
		return nil, err
	}
	doc, err = doc.SetRaw(track.ValuesPath, track.EncodeValues(curv.Rows, names))
	if err != nil {
		return nil, err
	}
	return doc.Set(CurvatureNotePath, model.CurvatureNote)
}

// remapColumns renames "radius at start" to "radius" in place and drops
// "radius at end", keeping every other column and its unit.
func remapColumns(cols []track.Column) []track.Column {
	out := make([]track.Column, 0, len(cols)-1)
	for _, col := range cols {
		switch col.Name {
		case ColRadiusStart:
			out = append(out, track.Column{Name: ColRadius, Unit: col.Unit})
		case ColRadiusEnd:
			// dropped
		default:
			out = append(out, col)
		}
	}
	return out
}

// reconcile combines the start and end radius of one track section.
func reconcile(start, end gjson.Result) (decimal.Decimal, error) {
	r1, err := radius(start)
	if err != nil {
		return decimal.Decimal{}, err
	}
	r2, err := radius(end)
	if err != nil {
		return decimal.Decimal{}, err
	}
	// Exact float equality: a constant-radius curve repeats the same number.
	if start.Float() == end.Float() {
		return r1.Abs(), nil
	}
	return r1.Abs().Add(r2.Abs()).Div(two).Round(2), nil
}

func radius(v gjson.Result) (decimal.Decimal, error) {
	if v.Type != gjson.Number {
		return decimal.Decimal{}, eris.Wrapf(ErrMalformedRow, "radius %q is not a number", v.Raw)
	}
	d, err := decimal.NewFromString(v.Raw)
	if err != nil {
		return decimal.Decimal{}, eris.Wrapf(ErrMalformedRow, "radius %q: %v", v.Raw, err)
	}
	return d, nil
}

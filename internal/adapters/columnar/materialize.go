package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	perr "corpuspack/internal/platform/errors"
)

// Options tunes record materialization
type Options struct {
	// StrictColumns turns a column with an unsupported physical type into a
	// fatal error instead of silently omitting it from every row
	StrictColumns bool
}

// MaterializeRecord flattens one Arrow record batch into rows. Supported
// column types are utf8 strings, int64, boolean, lists of utf8 strings, and
// nanosecond timestamps; anything else is dropped from the output (or
// rejected under StrictColumns). Cell nulls come through as nil field values.
func MaterializeRecord(rec arrow.Record, opts Options) ([]Row, error) {
	schema := rec.Schema()
	nrows := int(rec.NumRows())

	rows := make([]Row, nrows)
	for i := range rows {
		rows[i] = make(Row, 0, rec.NumCols())
	}

	for c := 0; c < int(rec.NumCols()); c++ {
		name := schema.Field(c).Name
		col := rec.Column(c)

		cells, ok := materializeColumn(col, nrows)
		if !ok {
			if opts.StrictColumns {
				return nil, perr.UnsupportedColumnf(
					"column %q has unsupported type %s", name, col.DataType())
			}
			continue
		}
		for i := 0; i < nrows; i++ {
			rows[i] = append(rows[i], Field{Name: name, Value: cells[i]})
		}
	}

	return rows, nil
}

// materializeColumn extracts every cell of a column as any values, nil for
// nulls. ok=false means the column type is not representable.
func materializeColumn(col arrow.Array, nrows int) ([]any, bool) {
	cells := make([]any, nrows)

	switch a := col.(type) {
	case *array.String:
		for i := 0; i < nrows; i++ {
			if a.IsNull(i) {
				continue
			}
			cells[i] = a.Value(i)
		}
	case *array.Int64:
		for i := 0; i < nrows; i++ {
			if a.IsNull(i) {
				continue
			}
			cells[i] = a.Value(i)
		}
	case *array.Boolean:
		for i := 0; i < nrows; i++ {
			if a.IsNull(i) {
				continue
			}
			cells[i] = a.Value(i)
		}
	case *array.Timestamp:
		ts, ok := a.DataType().(*arrow.TimestampType)
		if !ok || ts.Unit != arrow.Nanosecond {
			return nil, false
		}
		for i := 0; i < nrows; i++ {
			if a.IsNull(i) {
				continue
			}
			cells[i] = int64(a.Value(i))
		}
	case *array.List:
		vals, ok := a.ListValues().(*array.String)
		if !ok {
			return nil, false
		}
		for i := 0; i < nrows; i++ {
			if a.IsNull(i) {
				continue
			}
			start, end := a.ValueOffsets(i)
			items := make([]string, 0, end-start)
			for j := start; j < end; j++ {
				// null elements inside a list are dropped, not nulled
				if vals.IsNull(int(j)) {
					continue
				}
				items = append(items, vals.Value(int(j)))
			}
			cells[i] = items
		}
	default:
		return nil, false
	}

	return cells, true
}

// Package columnar turns Arrow record batches read from parquet into
// row-oriented values ready for JSON serialization
package columnar

import (
	"encoding/json"

	perr "corpuspack/internal/platform/errors"
)

// Field is one named cell of a materialized row. A nil Value marks a null
// cell that must survive into the JSON output as an explicit null.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered field list; order follows the source column order so the
// emitted JSON keys are stable across rows and files
type Row []Field

// Get returns the value for a field name
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString returns a field value as a string, ok=false when the field is
// absent, null, or not a string
func (r Row) GetString(name string) (string, bool) {
	v, ok := r.Get(name)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AppendJSON appends the row as a single JSON object plus trailing newline.
// Keys keep field order; values go through encoding/json so strings are
// escaped and nils become nulls.
func (r Row) AppendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	for i, f := range r {
		if i > 0 {
			dst = append(dst, ',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "marshal key %q", f.Name)
		}
		dst = append(dst, k...)
		dst = append(dst, ':')

		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "marshal field %q", f.Name)
		}
		dst = append(dst, v...)
	}
	dst = append(dst, '}', '\n')
	return dst, nil
}

package columnar

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	perr "corpuspack/internal/platform/errors"
)

// DefaultBatchSize bounds how many rows one Arrow record batch carries
const DefaultBatchSize = 1024

// Reader streams record batches out of one parquet file
type Reader struct {
	pf *file.Reader
	rr pqarrow.RecordReader
}

// Open prepares a streaming reader over path. batchSize <= 0 falls back to
// DefaultBatchSize.
func Open(ctx context.Context, path string, batchSize int64) (*Reader, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open parquet %s", path)
	}

	fr, err := pqarrow.NewFileReader(pf,
		pqarrow.ArrowReadProperties{BatchSize: batchSize},
		memory.DefaultAllocator)
	if err != nil {
		pf.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "arrow reader for %s", path)
	}

	rr, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		pf.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "record reader for %s", path)
	}

	return &Reader{pf: pf, rr: rr}, nil
}

// NumRows reports the total row count from the parquet footer
func (r *Reader) NumRows() int64 { return r.pf.NumRows() }

// Next advances to the next record batch
func (r *Reader) Next() bool { return r.rr.Next() }

// Record returns the current batch; it is only valid until the next call to
// Next unless the caller retains it
func (r *Reader) Record() arrow.Record { return r.rr.Record() }

// Err reports a scan failure after Next returns false
func (r *Reader) Err() error {
	if err := r.rr.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeMalformed, "parquet scan")
	}
	return nil
}

// Close releases the record reader and the underlying file
func (r *Reader) Close() error {
	r.rr.Release()
	if err := r.pf.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "close parquet")
	}
	return nil
}

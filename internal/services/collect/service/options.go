package service

import (
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/flate"

	"corpuspack/internal/adapters/columnar"
	perr "corpuspack/internal/platform/errors"
	"corpuspack/internal/services/collect/domain"
)

// Options carries the tunable knobs of the pipeline
type Options struct {
	// MaxLines bounds rows per output chunk
	MaxLines int `validate:"gt=0"`
	// Threads caps parallel workers; 0 resolves to the CPU count at run time
	Threads int `validate:"gte=0"`
	// BatchSize bounds rows per Arrow record batch while scanning parquet
	BatchSize int64 `validate:"gt=0"`
	// MissingRatio is the missing-blob fraction above which a chunk aborts
	MissingRatio float64 `validate:"gte=0,lt=1"`
	// CompressionLevel is the flate level for row payloads
	CompressionLevel int `validate:"gte=-2,lte=9"`
	// StrictColumns fails on unsupported column types instead of omitting them
	StrictColumns bool
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		MaxLines:         domain.DefaultMaxLines,
		Threads:          0,
		BatchSize:        columnar.DefaultBatchSize,
		MissingRatio:     domain.MissingRatioLimit,
		CompressionLevel: flate.DefaultCompression,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks option ranges
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return perr.Wrap(err, perr.ErrorCodeValidation, "collect options")
	}
	return nil
}

// withRequest overlays per-run overrides and resolves the worker count
func (o Options) withRequest(req domain.CollectRequest) Options {
	if req.MaxLines > 0 {
		o.MaxLines = req.MaxLines
	}
	if req.Threads > 0 {
		o.Threads = req.Threads
	}
	if req.StrictColumns {
		o.StrictColumns = true
	}
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
	return o
}

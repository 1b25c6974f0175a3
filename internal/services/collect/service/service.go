// Package service drives the compaction pipeline: materialize parquet rows,
// partition into chunks, resolve and decode blobs in parallel, and emit one
// gzip artifact per chunk
package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/sync/errgroup"

	"corpuspack/internal/adapters/columnar"
	"corpuspack/internal/core/gzcat"
	"corpuspack/internal/core/textenc"
	perr "corpuspack/internal/platform/errors"
	"corpuspack/internal/platform/logger"
	"corpuspack/internal/services/collect/domain"
)

// BlobReader resolves blob ids against a shard directory
type BlobReader interface {
	Read(ctx context.Context, dir, blobID string) ([]byte, error)
}

// Service implements domain.CollectorPort
type Service struct {
	log   logger.Logger
	blobs BlobReader
	opts  Options
}

// New constructs the collect service
func New(log logger.Logger, blobs BlobReader, opts Options) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	named := log.With().Str("component", "collect").Logger()
	return &Service{log: named, blobs: blobs, opts: opts}, nil
}

// rowOutcome is the closed per-row result: a compressed payload or a counted
// missing blob. Fatal conditions travel as errors, never as outcome states.
type rowOutcome struct {
	body    gzcat.Body
	missing bool
}

// Run processes one source file, or every *.parquet under a source
// directory in name order
func (s *Service) Run(ctx context.Context, req domain.CollectRequest) (domain.CollectReport, error) {
	opts := s.opts.withRequest(req)

	paths, err := expandSource(req.Source)
	if err != nil {
		return domain.CollectReport{}, err
	}

	var report domain.CollectReport
	for _, path := range paths {
		ref, err := domain.ParseSourceRef(path)
		if err != nil {
			return report, err
		}

		artifacts, rows, missing, err := s.processSource(ctx, ref, req.OutDir, opts)
		report.Artifacts = append(report.Artifacts, artifacts...)
		report.Rows += rows
		report.Missing += missing
		if err != nil {
			return report, err
		}

		logger.CFrom(ctx, &s.log).Info().
			Str("file", path).
			Int("artifacts", len(artifacts)).
			Int64("rows", rows).
			Int64("missing", missing).
			Msg("source compacted")
	}

	return report, nil
}

// processSource materializes every row of one parquet file, partitions them
// into chunks, and writes one artifact per chunk. Chunks run strictly in
// sequence; only the rows inside a chunk are processed in parallel.
func (s *Service) processSource(ctx context.Context, ref domain.SourceRef, outDir string, opts Options) (artifacts []string, rows, missing int64, err error) {
	all, err := s.materializeRows(ctx, ref.Path, opts)
	if err != nil {
		return nil, 0, 0, err
	}
	rows = int64(len(all))

	chunkCount := (len(all) + opts.MaxLines - 1) / opts.MaxLines

	dir := filepath.Join(outDir, ref.Language)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, rows, 0, perr.Wrapf(err, perr.ErrorCodeIO, "create output dir %s", dir)
	}

	for idx := 0; idx*opts.MaxLines < len(all); idx++ {
		start := idx * opts.MaxLines
		end := min(start+opts.MaxLines, len(all))

		bodies, chunkMissing, err := s.processChunk(ctx, ref, all[start:end], opts)
		missing += int64(chunkMissing)
		if err != nil {
			return artifacts, rows, missing, err
		}

		path := filepath.Join(dir, ref.ArtifactName(idx, chunkCount))
		if err := writeArtifact(path, bodies); err != nil {
			return artifacts, rows, missing, err
		}
		artifacts = append(artifacts, path)

		logger.CFrom(ctx, &s.log).Debug().
			Str("artifact", path).
			Int("rows", end-start).
			Int("missing", chunkMissing).
			Msg("chunk written")
	}

	return artifacts, rows, missing, nil
}

// materializeRows streams every record batch out of the parquet file and
// flattens them to rows. Batches materialize in parallel; the indexed result
// slice keeps the original (batch, row) order intact.
func (s *Service) materializeRows(ctx context.Context, path string, opts Options) ([]columnar.Row, error) {
	r, err := columnar.Open(ctx, path, opts.BatchSize)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var recs []arrow.Record
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	batches := make([][]columnar.Row, len(recs))
	var g errgroup.Group
	g.SetLimit(opts.Threads)
	for i, rec := range recs {
		g.Go(func() error {
			rows, err := columnar.MaterializeRecord(rec, columnar.Options{StrictColumns: opts.StrictColumns})
			if err != nil {
				return err
			}
			batches[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []columnar.Row
	for _, b := range batches {
		all = append(all, b...)
	}
	return all, nil
}

// processChunk resolves every row of one chunk concurrently, then folds the
// per-row outcomes sequentially: surviving payloads keep row order, missing
// blobs are tallied against the abort threshold.
func (s *Service) processChunk(ctx context.Context, ref domain.SourceRef, rows []columnar.Row, opts Options) ([]gzcat.Body, int, error) {
	outcomes := make([]rowOutcome, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)
	for i, row := range rows {
		g.Go(func() error {
			out, err := s.resolveRow(gctx, ref, row)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	missing := 0
	bodies := make([]gzcat.Body, 0, len(rows))
	for _, o := range outcomes {
		if o.missing {
			missing++
			continue
		}
		bodies = append(bodies, o.body)
	}

	if len(rows) > 0 && float64(missing)/float64(len(rows)) > opts.MissingRatio {
		tmm := &domain.TooManyMissing{MissingCount: missing, ChunkSize: len(rows)}
		return nil, missing, perr.Wrap(tmm, perr.ErrorCodeTooManyMissing, "chunk over missing-blob threshold")
	}

	return bodies, missing, nil
}

// resolveRow fetches and decodes one row's blob, merges the text under the
// contents field, and compresses the serialized JSON line. A missing blob is
// the only non-fatal failure.
func (s *Service) resolveRow(ctx context.Context, ref domain.SourceRef, row columnar.Row) (rowOutcome, error) {
	blobID, ok := row.GetString("blob_id")
	if !ok {
		return rowOutcome{}, perr.Malformedf("row in %s has no blob_id", ref.Path)
	}
	encName, ok := row.GetString("src_encoding")
	if !ok {
		return rowOutcome{}, perr.Malformedf("row %s has no src_encoding", blobID)
	}

	raw, err := s.blobs.Read(ctx, ref.BlobDir, blobID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return rowOutcome{missing: true}, nil
		}
		return rowOutcome{}, err
	}

	text, err := textenc.Decode(raw, encName)
	if err != nil {
		return rowOutcome{}, perr.WithField(err, blobID)
	}

	merged := make(columnar.Row, 0, len(row)+1)
	merged = append(merged, row...)
	merged = append(merged, columnar.Field{Name: "contents", Value: text})

	line, err := merged.AppendJSON(nil)
	if err != nil {
		return rowOutcome{}, err
	}

	body, err := gzcat.CompressBody(line, s.opts.CompressionLevel)
	if err != nil {
		return rowOutcome{}, err
	}
	return rowOutcome{body: body}, nil
}

// writeArtifact assembles one chunk's bodies into a gzip file. Written
// artifacts are never rolled back.
func writeArtifact(path string, bodies []gzcat.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create artifact %s", path)
	}
	if err := gzcat.Assemble(f, bodies); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "close artifact %s", path)
	}
	return nil
}

// expandSource returns the parquet files to process. A file path is taken
// as-is; a directory yields its *.parquet entries sorted by name.
func expandSource(source string) ([]string, error) {
	fi, err := os.Stat(source)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "stat source %s", source)
	}
	if !fi.IsDir() {
		return []string{source}, nil
	}

	matches, err := filepath.Glob(filepath.Join(source, "*.parquet"))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "list sources in %s", source)
	}
	if len(matches) == 0 {
		return nil, perr.NotFoundf("no parquet files under %s", source)
	}
	sort.Strings(matches)
	return matches, nil
}

// Package domain holds the collect service's plain types and path
// conventions, free of transport or storage concerns
package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	perr "corpuspack/internal/platform/errors"
)

// DefaultMaxLines caps rows per output chunk when no override is given
const DefaultMaxLines = 16384

// MissingRatioLimit is the fraction of missing blobs one chunk may absorb
// before the run aborts
const MissingRatioLimit = 0.01

// SourceRef locates one parquet source file and the blob directory derived
// from it. The convention is fixed: language is the source file's parent
// directory name, shard is the token after the first '-' in the filename,
// and blobs live beside the source at <parent>/<shard>/<blob_id>.gz.
type SourceRef struct {
	Path     string
	Language string
	Shard    string
	BlobDir  string
}

// ParseSourceRef derives language, shard, and blob directory from a source
// file path like <root>/<language>/train-00042-of-00099.parquet
func ParseSourceRef(path string) (SourceRef, error) {
	dir := filepath.Dir(path)
	language := filepath.Base(dir)
	if language == "." || language == string(filepath.Separator) {
		return SourceRef{}, perr.InvalidArgf("source path %q has no language directory", path)
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	_, rest, found := strings.Cut(stem, "-")
	if !found {
		return SourceRef{}, perr.InvalidArgf("source filename %q has no shard token", base)
	}
	shard, _, _ := strings.Cut(rest, "-")
	if shard == "" {
		return SourceRef{}, perr.InvalidArgf("source filename %q has an empty shard token", base)
	}

	return SourceRef{
		Path:     path,
		Language: language,
		Shard:    shard,
		BlobDir:  filepath.Join(dir, shard),
	}, nil
}

// ArtifactName builds the deterministic chunk artifact filename
func (r SourceRef) ArtifactName(chunkIndex, chunkCount int) string {
	return fmt.Sprintf("%s-%s-%d-of-%d.jsonl.gz", r.Language, r.Shard, chunkIndex, chunkCount)
}

// TooManyMissing reports a chunk whose missing-blob ratio exceeded the
// abort threshold
type TooManyMissing struct {
	MissingCount int
	ChunkSize    int
}

func (e *TooManyMissing) Error() string {
	return fmt.Sprintf("too many missing blobs: %d of %d in one chunk", e.MissingCount, e.ChunkSize)
}

// CollectRequest describes one run of the compaction pipeline. Source may be
// a single parquet file or a directory of them.
type CollectRequest struct {
	Source        string
	OutDir        string
	MaxLines      int
	Threads       int
	StrictColumns bool
}

// CollectReport summarizes a completed run
type CollectReport struct {
	Artifacts []string
	Rows      int64
	Missing   int64
}

// CollectorPort is the service surface exposed through the module's ports
type CollectorPort interface {
	Run(ctx context.Context, req CollectRequest) (CollectReport, error)
}

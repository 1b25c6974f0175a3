// Package blobstore reads gzip-compressed source blobs from a local shard
// directory layout, one <blob_id>.gz file per blob
package blobstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	perr "corpuspack/internal/platform/errors"
)

// Store resolves blob ids against a base directory
type Store struct{}

// New constructs a Store
func New() *Store { return &Store{} }

// Path returns the on-disk location for a blob id under dir
func (s *Store) Path(dir, blobID string) string {
	return filepath.Join(dir, blobID+".gz")
}

// Read fetches and decompresses one blob. A missing file maps to NotFound so
// callers can treat absent blobs as a tallied condition; every other failure
// is an IO error.
func (s *Store) Read(ctx context.Context, dir, blobID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "blob read canceled")
	}

	path := s.Path(dir, blobID)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.NotFoundf("blob %s not found at %s", blobID, path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open blob %s", path)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "gzip header for blob %s", path)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "decompress blob %s", path)
	}
	return raw, nil
}

// Package gzcat assembles one gzip member from deflate bodies that were
// compressed independently, so the expensive compression step can run in
// parallel while the output stays a plain single-member gzip file
package gzcat

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"

	perr "corpuspack/internal/platform/errors"
)

// Body is one independently compressed slice of the container payload.
// Deflate holds a sync-flushed raw deflate stream: byte aligned, no final
// block, safe to splice between other bodies.
type Body struct {
	Deflate []byte
	CRC     uint32
	Size    int64
}

// gzipHeader is a fixed 10-byte member header: CM=deflate, no flags, zero
// mtime, OS unknown
var gzipHeader = [10]byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff}

// finalBlock is an empty stored deflate block with BFINAL set; it terminates
// the spliced stream since no body carries a final block of its own
var finalBlock = [5]byte{0x01, 0x00, 0x00, 0xff, 0xff}

// CompressBody deflates payload into a splice-safe Body at the given
// flate compression level
func CompressBody(payload []byte, level int) (Body, error) {
	var buf bytes.Buffer

	zw, err := flate.NewWriter(&buf, level)
	if err != nil {
		return Body{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "flate writer")
	}
	if _, err := zw.Write(payload); err != nil {
		return Body{}, perr.Wrap(err, perr.ErrorCodeIO, "deflate write")
	}
	// sync flush aligns the stream on a byte boundary without a final block;
	// Close would emit BFINAL and break splicing
	if err := zw.Flush(); err != nil {
		return Body{}, perr.Wrap(err, perr.ErrorCodeIO, "deflate flush")
	}

	return Body{
		Deflate: buf.Bytes(),
		CRC:     crc32.ChecksumIEEE(payload),
		Size:    int64(len(payload)),
	}, nil
}

// Assemble writes a single gzip member containing the concatenated bodies.
// The trailer CRC is merged from the per-body checksums with CombineCRC32
// and ISIZE is the total payload size mod 2^32, per RFC 1952.
func Assemble(w io.Writer, bodies []Body) error {
	if _, err := w.Write(gzipHeader[:]); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "gzip header")
	}

	var crc uint32
	var size int64
	for _, b := range bodies {
		if _, err := w.Write(b.Deflate); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "gzip body")
		}
		crc = CombineCRC32(crc, b.CRC, b.Size)
		size += b.Size
	}

	if _, err := w.Write(finalBlock[:]); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "gzip final block")
	}

	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc)
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(size))
	if _, err := w.Write(trailer[:]); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "gzip trailer")
	}

	return nil
}

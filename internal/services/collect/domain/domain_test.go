package domain

import (
	"path/filepath"
	"testing"

	perr "corpuspack/internal/platform/errors"
)

func TestParseSourceRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		language string
		shard    string
		blobDir  string
	}{
		{
			name:     "train file",
			path:     "/data/go/train-00000-of-00001.parquet",
			language: "go",
			shard:    "00000",
			blobDir:  "/data/go/00000",
		},
		{
			name:     "later shard",
			path:     "/corpus/python/train-00042-of-00099.parquet",
			language: "python",
			shard:    "00042",
			blobDir:  "/corpus/python/00042",
		},
		{
			name:     "single token after dash",
			path:     "rust/part-7.parquet",
			language: "rust",
			shard:    "7",
			blobDir:  filepath.Join("rust", "7"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ref, err := ParseSourceRef(tc.path)
			if err != nil {
				t.Fatalf("ParseSourceRef(%q): %v", tc.path, err)
			}
			if ref.Language != tc.language {
				t.Fatalf("Language = %q, want %q", ref.Language, tc.language)
			}
			if ref.Shard != tc.shard {
				t.Fatalf("Shard = %q, want %q", ref.Shard, tc.shard)
			}
			if ref.BlobDir != filepath.FromSlash(tc.blobDir) {
				t.Fatalf("BlobDir = %q, want %q", ref.BlobDir, tc.blobDir)
			}
		})
	}
}

func TestParseSourceRef_Invalid(t *testing.T) {
	t.Parallel()

	for _, path := range []string{
		"go/noshardtoken.parquet",
		"go/trailing-.parquet",
	} {
		_, err := ParseSourceRef(path)
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("ParseSourceRef(%q): expected invalid_argument, got %v", path, err)
		}
	}
}

func TestArtifactName(t *testing.T) {
	t.Parallel()

	ref := SourceRef{Language: "go", Shard: "00003"}
	got := ref.ArtifactName(2, 5)
	if got != "go-00003-2-of-5.jsonl.gz" {
		t.Fatalf("ArtifactName = %q", got)
	}
}

func TestTooManyMissing_Error(t *testing.T) {
	t.Parallel()

	err := &TooManyMissing{MissingCount: 1, ChunkSize: 4}
	if err.Error() != "too many missing blobs: 1 of 4 in one chunk" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

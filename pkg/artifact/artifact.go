// Package artifact stores captured output streams in a
// content-addressed blob store. Blobs are keyed by their
// BLAKE3 digest and kept xz-compressed on disk, so identical
// streams from repeated runs are stored once. Reports and the
// history store reference blobs by digest.
package artifact

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// ErrNotFound is returned when no blob with the given digest
// exists.
var ErrNotFound = errors.New("artifact not found")

// ErrInvalidDigest is returned when a digest is not a valid
// lowercase BLAKE3 hex string.
var ErrInvalidDigest = errors.New("invalid digest format")

var digestPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Store is a content-addressed artifact store rooted at one
// directory. Blobs live under <root>/blobs/<first2>/<digest>.xz.
type Store struct {
	root string
}

// NewStore creates a store at the given root, creating the
// blob directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "blobs"), 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Digest computes the BLAKE3 digest of data without storing
// it.
func Digest(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Put stores data and returns its digest. Storing the same
// content twice is a no-op.
func (s *Store) Put(data []byte) (string, error) {
	digest := Digest(data)
	blobPath := s.Path(digest)

	if _, err := os.Stat(blobPath); err == nil {
		return digest, nil
	}

	dir := filepath.Dir(blobPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	// Write compressed to a temp file, then rename into place
	// so readers never see a partial blob.
	tmp, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	tmpPath := tmp.Name()

	xw, err := xz.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("init compressor: %w", err)
	}
	if _, err := xw.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("compress blob: %w", err)
	}
	if err := xw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("finish compression: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp blob: %w", err)
	}
	if err := os.Rename(tmpPath, blobPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename blob: %w", err)
	}

	return digest, nil
}

// Get retrieves and decompresses the blob with the given
// digest. Returns ErrNotFound if it does not exist.
func (s *Store) Get(digest string) ([]byte, error) {
	if !digestPattern.MatchString(digest) {
		return nil, ErrInvalidDigest
	}

	f, err := os.Open(s.Path(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("init decompressor: %w", err)
	}
	data, err := io.ReadAll(xr)
	if err != nil {
		return nil, fmt.Errorf("decompress blob %s: %w", digest, err)
	}
	return data, nil
}

// Has reports whether a blob with the given digest exists.
func (s *Store) Has(digest string) bool {
	if !digestPattern.MatchString(digest) {
		return false
	}
	_, err := os.Stat(s.Path(digest))
	return err == nil
}

// Path returns the on-disk location for a digest. The digest
// must come from Put or Digest.
func (s *Store) Path(digest string) string {
	return filepath.Join(s.root, "blobs", digest[:2], digest+".xz")
}

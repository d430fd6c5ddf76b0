package fs

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes build-cache input hashes: H(commit_sha ‖
// H(workdir_tree) ‖ H(build_argv)).
type Hasher struct {
	walker *Walker
}

// NewHasher creates a Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// InputHash hashes the commit SHA, the content of every file under
// workdir (excluding .git), and the build argv, in that order.
func (h *Hasher) InputHash(commitSHA, workdir string, argv []string) (string, error) {
	digest := xxhash.New()

	_, _ = digest.WriteString(commitSHA)
	_, _ = digest.Write([]byte{0})

	for path := range h.walker.WalkFiles(workdir, nil) {
		fileHash, err := h.hashFile(workdir, path)
		if err != nil {
			return "", err
		}
		_, _ = digest.WriteString(path)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(strconv.FormatUint(fileHash, 16))
		_, _ = digest.Write([]byte{0})
	}
	_, _ = digest.Write([]byte{0})

	for _, arg := range argv {
		_, _ = digest.WriteString(arg)
		_, _ = digest.Write([]byte{0})
	}

	return strconv.FormatUint(digest.Sum64(), 16), nil
}

func (h *Hasher) hashFile(root, relpath string) (uint64, error) {
	f, err := os.Open(filepath.Join(root, relpath))
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "open file for hashing"), "path", relpath)
	}
	defer f.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "hash file content"), "path", relpath)
	}
	return digest.Sum64(), nil
}

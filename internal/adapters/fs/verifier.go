package fs

import (
	"os"

	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputVerifier = (*Verifier)(nil)

// Verifier implements ports.OutputVerifier: the output assembler asks it
// whether a stale <out_root>.next tree is present before removing it.
type Verifier struct{}

// NewVerifier creates a Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Exists reports whether dir is already present on disk.
func (Verifier) Exists(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "stat output directory"), "dir", dir)
	}
	return info.IsDir(), nil
}

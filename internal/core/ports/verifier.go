package ports

// OutputVerifier checks whether an output directory already exists. The
// assembler uses it to detect a stale <out_root>.next tree left by an
// earlier run and remove it; group directories are always rebuilt.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type OutputVerifier interface {
	Exists(dir string) (bool, error)
}

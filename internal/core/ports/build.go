package ports

import "context"

// Hasher computes the content-addressed input hash for a build job:
// H(commit_sha ‖ H(workdir_tree) ‖ H(build_argv)).
//
//go:generate go run go.uber.org/mock/mockgen -source=build.go -destination=mocks/mock_build.go -package=mocks
type Hasher interface {
	InputHash(commitSHA string, workdir string, argv []string) (string, error)
}

// BuildCache is the content-addressed artifact store:
// `<cache_root>/builds/<hash>/.ok`.
type BuildCache interface {
	// Has reports whether hash's artifact directory carries a `.ok`
	// marker (cache hit).
	Has(hash string) (bool, error)
	// Dir returns (creating if needed) the artifact directory for hash.
	Dir(hash string) (string, error)
	// MarkDone writes the `.ok` marker for hash.
	MarkDone(hash string) error
}

// BuildExecutor runs a plugin's build argv with cwd as the working
// directory (the scheduler passes the build workdir it copied from the
// checkout), streaming output onto a Vertex.
type BuildExecutor interface {
	Run(ctx context.Context, argv []string, cwd string, vertex Vertex) error
}

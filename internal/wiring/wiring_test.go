package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
)

// TestGraftDependencies checks that the composition root's dependency
// graph is internally consistent.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers a node's dependency ID from the
	// package name of the interface passed to graft.Dep[T]. Since every
	// adapter here implements an interface from the shared
	// internal/core/ports package, the static analysis can't tell one
	// node's ports.Hasher from another's ports.RepoCache.
	t.Skip("graft.AssertDepsValid can't disambiguate multiple nodes sharing the ports package")
	graft.AssertDepsValid(t, "../../internal")
}

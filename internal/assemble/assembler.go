package assemble

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.rsplug.dev/rsplug/internal/adapters/fs"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.rsplug.dev/rsplug/internal/engine/scheduler"
	"go.rsplug.dev/rsplug/internal/merge"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Assembler builds the output tree over a graph, merge plan, and the per-plugin
// checkout directories the repo cache produced.
type Assembler struct {
	verifier ports.OutputVerifier
}

// New creates an Assembler.
func New(verifier ports.OutputVerifier) *Assembler {
	return &Assembler{verifier: verifier}
}

// Assemble builds a fresh pack tree under <outRoot>.next and atomically
// swaps it into outRoot.
func (a *Assembler) Assemble(ctx context.Context, outRoot string, graph *domain.Graph, plan *domain.MergePlan, dirs merge.CheckoutDirs, vertex ports.Vertex) error {
	next := outRoot + ".next"

	if present, err := a.verifier.Exists(next); err == nil && present {
		if err := os.RemoveAll(next); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "remove stale .next tree"), "cause", err.Error())
		}
	}
	if err := os.MkdirAll(next, 0o755); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "create output tree"), "cause", err.Error())
	}

	// Groups write to disjoint directories under next, so they fan out
	// across a worker group instead of running one at a time.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scheduler.Parallelism())
	for _, group := range plan.Groups {
		class := "opt"
		if group.Eager {
			class = "start"
		}
		groupDir := filepath.Join(next, "pack", "_gen", class, group.Name)

		g.Go(func() error {
			if err := a.assembleGroup(gctx, groupDir, group, graph, dirs); err != nil {
				return err
			}
			if err := generateHelptags(groupDir); err != nil {
				return zerr.With(zerr.With(zerr.Wrap(domain.ErrHelptagsFailed, "generate helptags"), "group", group.Name), "cause", err.Error())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if vertex != nil {
		vertex.Stage(domain.StageAssemble, outRoot)
	}

	return a.swapIntoPlace(outRoot, next)
}

// swapIntoPlace makes next the new outRoot without ever leaving outRoot
// missing: the current tree is renamed aside, next is renamed into
// outRoot, and only then is the old tree removed. A kill at any point
// leaves outRoot resolving to either the old or the new tree, never to
// nothing.
func (a *Assembler) swapIntoPlace(outRoot, next string) error {
	old := outRoot + ".old"
	if err := os.RemoveAll(old); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "remove stale .old tree"), "cause", err.Error())
	}

	hadPrevious := true
	if err := os.Rename(outRoot, old); err != nil {
		if !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "rename previous output tree aside"), "cause", err.Error())
		}
		hadPrevious = false
	}

	if err := os.Rename(next, outRoot); err != nil {
		if hadPrevious {
			_ = os.Rename(old, outRoot)
		}
		return zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "swap output tree into place"), "cause", err.Error())
	}

	if hadPrevious {
		if err := os.RemoveAll(old); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "remove previous output tree"), "cause", err.Error())
		}
	}
	return nil
}

func (a *Assembler) assembleGroup(ctx context.Context, groupDir string, group domain.MergeGroup, graph *domain.Graph, dirs merge.CheckoutDirs) error {
	useSym := true
	for _, id := range group.Members {
		spec, _ := graph.Get(id)
		if !spec.Sym {
			useSym = false
			break
		}
	}

	walker := fs.NewWalker()
	for _, id := range group.Members {
		spec, ok := graph.Get(id)
		if !ok || spec.ConfigOnly {
			continue
		}
		srcDir, ok := dirs[id]
		if !ok {
			continue
		}

		var ts time.Time
		if !useSym {
			if t, err := commitTimestamp(ctx, srcDir); err == nil {
				ts = t
			}
		}

		ignore := fs.New(spec.Ignore)
		for relPath := range walker.WalkFiles(srcDir, ignore) {
			src := filepath.Join(srcDir, relPath)
			dst := filepath.Join(groupDir, relPath)

			var err error
			if useSym {
				err = symlinkFile(src, dst)
			} else {
				err = copyFile(src, dst, ts)
			}
			if err != nil {
				return zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "place pack file"), "plugin", id), "path", relPath), "cause", err.Error())
			}
		}
	}
	return nil
}

package git

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// resolvedRef is what ref resolution against the remote produces.
type resolvedRef struct {
	sha     string
	refType string // "tag" | "branch" | "commit" | "default"
	refName string
}

// resolve determines the concrete SHA to check out for spec, querying
// the remote as needed. It never touches the working tree.
func resolve(ctx context.Context, remoteURL string, spec domain.RefSpec, vertex ports.Vertex) (resolvedRef, error) {
	switch spec.Kind {
	case domain.RefCommit:
		return resolvedRef{sha: spec.Name, refType: "commit"}, nil
	case domain.RefTag:
		sha, err := resolveExactRef(ctx, remoteURL, "refs/tags/"+spec.Name, vertex)
		if err == nil {
			return resolvedRef{sha: sha, refType: "tag", refName: spec.Name}, nil
		}
		// Fall back: the name may in fact name a branch rather than a
		// tag.
		sha, err = resolveExactRef(ctx, remoteURL, "refs/heads/"+spec.Name, vertex)
		if err != nil {
			return resolvedRef{}, err
		}
		return resolvedRef{sha: sha, refType: "branch", refName: spec.Name}, nil
	case domain.RefBranch:
		sha, err := resolveExactRef(ctx, remoteURL, "refs/heads/"+spec.Name, vertex)
		if err != nil {
			return resolvedRef{}, err
		}
		return resolvedRef{sha: sha, refType: "branch", refName: spec.Name}, nil
	case domain.RefTagGlob:
		name, sha, err := resolveTagGlob(ctx, remoteURL, spec.Name, vertex)
		if err != nil {
			return resolvedRef{}, err
		}
		return resolvedRef{sha: sha, refType: "tag", refName: name}, nil
	default:
		sha, err := resolveDefault(ctx, remoteURL, vertex)
		if err != nil {
			return resolvedRef{}, err
		}
		return resolvedRef{sha: sha, refType: "default"}, nil
	}
}

func resolveExactRef(ctx context.Context, remoteURL, ref string, vertex ports.Vertex) (string, error) {
	out, err := run(ctx, "", vertex, "ls-remote", remoteURL, ref)
	if err != nil {
		return "", err
	}
	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrRefUnresolved, "ref not found on remote"), "ref", ref)
	}
	fields := strings.Fields(lines[0])
	if len(fields) < 1 {
		return "", zerr.With(zerr.Wrap(domain.ErrRefUnresolved, "malformed ls-remote output"), "ref", ref)
	}
	return fields[0], nil
}

func resolveDefault(ctx context.Context, remoteURL string, vertex ports.Vertex) (string, error) {
	out, err := run(ctx, "", vertex, "ls-remote", remoteURL, "HEAD")
	if err != nil {
		return "", err
	}
	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return "", zerr.Wrap(domain.ErrRefUnresolved, "remote HEAD not found")
	}
	fields := strings.Fields(lines[0])
	return fields[0], nil
}

// resolveTagGlob queries every remote tag, filters by glob, and chooses
// the newest by version-sort with lexicographic fallback.
func resolveTagGlob(ctx context.Context, remoteURL, pattern string, vertex ports.Vertex) (name, sha string, err error) {
	out, err := run(ctx, "", vertex, "ls-remote", "--tags", remoteURL)
	if err != nil {
		return "", "", err
	}

	type candidate struct {
		name string
		sha  string
	}
	var candidates []candidate
	for _, line := range nonEmptyLines(out) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ref := fields[1]
		if strings.HasSuffix(ref, "^{}") {
			continue // dereferenced annotated-tag marker, the bare tag line carries the name
		}
		tagName := strings.TrimPrefix(ref, "refs/tags/")
		if matched, _ := globMatch(pattern, tagName); matched {
			candidates = append(candidates, candidate{name: tagName, sha: fields[0]})
		}
	}
	if len(candidates) == 0 {
		return "", "", zerr.With(zerr.Wrap(domain.ErrRefUnresolved, "no tag matched glob"), "pattern", pattern)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return versionLess(candidates[i].name, candidates[j].name)
	})
	best := candidates[len(candidates)-1]
	return best.name, best.sha, nil
}

// globMatch matches a tag name against a "*"-suffixed glob pattern, the
// only shape allowed for TagGlob.
func globMatch(pattern, name string) (bool, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	return strings.HasPrefix(name, prefix), nil
}

// versionLess orders two tag names ascending, treating dot/dash-separated
// numeric components as numbers and falling back to lexicographic
// comparison when the shapes don't line up.
func versionLess(a, b string) bool {
	as := splitVersionParts(a)
	bs := splitVersionParts(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			return an < bn
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}

func splitVersionParts(s string) []string {
	s = strings.TrimPrefix(s, "v")
	var parts []string
	var cur strings.Builder
	for _, r := range s {
		if r == '.' || r == '-' || r == '_' {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	parts = append(parts, cur.String())
	return parts
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

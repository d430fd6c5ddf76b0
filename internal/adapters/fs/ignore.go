package fs

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Matcher evaluates a plugin's gitignore-style ignore patterns against
// relative paths. Later patterns override earlier ones; a leading "!"
// negates a prior match. A trailing "/" restricts a pattern to
// directories.
type Matcher struct {
	rules []rule
}

type rule struct {
	negate   bool
	dirOnly  bool
	anchored bool
	raw      string
	re       *regexp.Regexp // set when raw contains a "/" or "**"
}

// New compiles a gitignore-style pattern list.
func New(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		r := rule{}
		if strings.HasPrefix(p, "!") {
			r.negate = true
			p = p[1:]
		}
		if strings.HasSuffix(p, "/") {
			r.dirOnly = true
			p = strings.TrimSuffix(p, "/")
		}
		if strings.HasPrefix(p, "/") {
			r.anchored = true
			p = strings.TrimPrefix(p, "/")
		}
		r.raw = p
		if strings.Contains(p, "/") || strings.Contains(p, "**") {
			r.anchored = true
			r.re = globstarRegexp(p)
		}
		m.rules = append(m.rules, r)
	}
	return m
}

// Match reports whether relpath (file) is ignored.
func (m *Matcher) Match(relpath string) bool {
	return m.eval(relpath, false)
}

// MatchDir reports whether relpath (directory) is ignored and its
// subtree should be pruned from a walk.
func (m *Matcher) MatchDir(relpath string) bool {
	return m.eval(relpath, true)
}

func (m *Matcher) eval(relpath string, isDir bool) bool {
	relpath = filepath.ToSlash(relpath)
	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if !ruleMatches(r, relpath) {
			continue
		}
		ignored = !r.negate
	}
	return ignored
}

func ruleMatches(r rule, relpath string) bool {
	if r.re != nil {
		return r.re.MatchString(relpath)
	}
	if r.anchored {
		ok, _ := filepath.Match(r.raw, relpath)
		return ok
	}
	for _, seg := range strings.Split(relpath, "/") {
		if ok, _ := filepath.Match(r.raw, seg); ok {
			return true
		}
	}
	return false
}

// globstarRegexp translates a gitignore pattern containing "/" or "**"
// into an anchored regexp over a slash-separated relative path.
func globstarRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	segs := strings.Split(pattern, "/")
	prevStar := false
	for i, seg := range segs {
		if seg == "**" {
			switch {
			case i == 0:
				b.WriteString("(?:.*/)?")
			case i == len(segs)-1:
				b.WriteString("/.*")
			default:
				b.WriteString("/(?:.*/)?")
			}
			prevStar = true
			continue
		}
		if i > 0 && !prevStar {
			b.WriteByte('/')
		}
		b.WriteString(translateSegment(seg))
		prevStar = false
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}

func translateSegment(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		switch r {
		case '*':
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

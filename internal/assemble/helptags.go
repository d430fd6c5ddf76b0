package assemble

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"go.trai.ch/zerr"
)

var tagPattern = regexp.MustCompile(`\*([^ \t*]+)\*`)

type tagEntry struct {
	tag  string
	file string
}

// generateHelptags scans doc/*.txt under dir and writes doc/tags in
// canonical sort order.
func generateHelptags(dir string) error {
	docDir := filepath.Join(dir, "doc")
	entries, err := os.ReadDir(docDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "read doc directory"), "dir", docDir)
	}

	var tags []tagEntry
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(docDir, e.Name()))
		if err != nil {
			return zerr.With(zerr.Wrap(err, "read help file"), "path", e.Name())
		}
		for _, match := range tagPattern.FindAllStringSubmatch(string(data), -1) {
			tags = append(tags, tagEntry{tag: match[1], file: e.Name()})
		}
	}
	if len(tags) == 0 {
		return nil
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].tag != tags[j].tag {
			return tags[i].tag < tags[j].tag
		}
		return tags[i].file < tags[j].file
	})

	var out []byte
	for _, t := range tags {
		out = append(out, t.tag...)
		out = append(out, '\t')
		out = append(out, t.file...)
		out = append(out, '\t')
		out = append(out, '/', '*')
		out = append(out, t.tag...)
		out = append(out, '*', '\n')
	}

	if err := os.WriteFile(filepath.Join(docDir, "tags"), out, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "write helptags"), "dir", docDir)
	}
	return nil
}

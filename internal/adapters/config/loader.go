package config

import (
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader over YAML documents.
type Loader struct{}

// New returns a Loader.
func New() ports.ConfigLoader {
	return Loader{}
}

var hexCommitRE = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// Load parses every path in order, concatenates the resulting plugin
// lists preserving document order, and validates the merged set.
func (Loader) Load(paths []string) ([]domain.PluginSpec, error) {
	var specs []domain.PluginSpec
	seen := make(map[string]bool)

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "read config document"), "path", path)
		}

		dec := yaml.NewDecoder(strings.NewReader(string(raw)))
		dec.KnownFields(true)
		for {
			var doc Document
			err := dec.Decode(&doc)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigSchema, "decode config document"), "path", path), "cause", err.Error())
			}

			for _, dto := range doc.Plugins {
				spec, err := normalize(dto)
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, "normalize plugin entry"), "path", path)
				}
				if seen[spec.ID] {
					return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigDuplicateID, "duplicate plugin id"), "id", spec.ID), "path", path)
				}
				seen[spec.ID] = true
				specs = append(specs, spec)
			}
		}
	}

	return specs, nil
}

func normalize(dto PluginDTO) (domain.PluginSpec, error) {
	configOnly := dto.Repo == "" && hasScriptField(dto)
	if dto.Repo == "" && !configOnly {
		return domain.PluginSpec{}, zerr.Wrap(domain.ErrConfigSchema, "plugin entry missing repo")
	}

	var repo domain.Repo
	var refSpec domain.RefSpec
	if dto.Repo != "" {
		var err error
		repo, refSpec, err = parseRepo(dto.Repo)
		if err != nil {
			return domain.PluginSpec{}, err
		}
	}

	id := deriveID(dto.Name, repo)
	if id == "" {
		return domain.PluginSpec{}, zerr.Wrap(domain.ErrConfigSchema, "plugin entry has no derivable id")
	}

	onMap, err := normalizeOnMap(dto.OnMap)
	if err != nil {
		return domain.PluginSpec{}, err
	}

	return domain.PluginSpec{
		ID:         id,
		Name:       dto.Name,
		Repo:       repo,
		RefSpec:    refSpec,
		ConfigOnly: configOnly,
		Start:      dto.Start,
		Triggers: domain.TriggerSet{
			Start:   dto.Start,
			OnEvent: append([]string(nil), dto.OnEvent...),
			OnCmd:   append([]string(nil), dto.OnCmd...),
			OnFT:    append([]string(nil), dto.OnFT...),
			OnMap:   onMap,
		},
		With:      append([]string(nil), dto.With...),
		LuaBefore: dto.LuaBefore,
		LuaAfter:  dto.LuaAfter,
		LuaStart:  dto.LuaStart,
		Build:     append([]string(nil), dto.Build...),
		Sym:       dto.Sym,
		Ignore:    append([]string(nil), dto.Ignore...),
	}, nil
}

func hasScriptField(dto PluginDTO) bool {
	return dto.LuaBefore != "" || dto.LuaAfter != "" || dto.LuaStart != "" || len(dto.Build) > 0
}

// parseRepo parses "owner/slug[@refspec]".
func parseRepo(raw string) (domain.Repo, domain.RefSpec, error) {
	ownerSlug, refRaw, hasAt := strings.Cut(raw, "@")

	owner, slug, ok := strings.Cut(ownerSlug, "/")
	if !ok || owner == "" || slug == "" {
		return domain.Repo{}, domain.RefSpec{}, zerr.With(zerr.Wrap(domain.ErrConfigSchema, "repo must be owner/slug[@refspec]"), "repo", raw)
	}
	repo := domain.Repo{Owner: owner, Slug: slug}

	if !hasAt {
		return repo, domain.RefSpec{Kind: domain.RefDefault}, nil
	}

	switch {
	case strings.HasSuffix(refRaw, "*"):
		return repo, domain.RefSpec{Kind: domain.RefTagGlob, Name: refRaw}, nil
	case hexCommitRE.MatchString(refRaw):
		return repo, domain.RefSpec{Kind: domain.RefCommit, Name: refRaw}, nil
	default:
		return repo, domain.RefSpec{Kind: domain.RefTag, Name: refRaw}, nil
	}
}

func deriveID(name string, repo domain.Repo) string {
	if name != "" {
		return name
	}
	return repo.Slug
}

// normalizeOnMap collapses OnMapDTO's three surface shapes into the
// canonical mode-letter-to-patterns form.
func normalizeOnMap(dto OnMapDTO) (domain.ModeMap, error) {
	out := domain.ModeMap{}

	// A bare pattern (no mode keys given) binds normal mode only; there
	// is no mode-independent dispatcher to generate against.
	for _, pattern := range dto.bare {
		out['n'] = append(out['n'], pattern)
	}

	modeKeys := make([]string, 0, len(dto.byModeLetters))
	for k := range dto.byModeLetters {
		modeKeys = append(modeKeys, k)
	}
	sort.Strings(modeKeys)

	for _, letters := range modeKeys {
		patterns := dto.byModeLetters[letters]
		if letters == "" {
			return nil, zerr.Wrap(domain.ErrConfigSchema, "on_map mode key must not be empty")
		}
		for i := 0; i < len(letters); i++ {
			mode := letters[i]
			out[mode] = append(out[mode], patterns...)
		}
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

package scriptgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.trai.ch/zerr"
)

var funcs = template.FuncMap{
	"lua": luaQuote,
	"luaOrNil": func(s string) string {
		if s == "" {
			return "nil"
		}
		return luaQuote(s)
	},
	"modeLetter": func(b byte) string {
		return string(rune(b))
	},
}

var tmpl = template.Must(template.New("runtime").Funcs(funcs).Parse(runtimeTemplate))

func luaQuote(s string) string {
	return strconv.Quote(s)
}

// Render renders the single runtime Lua module for bundle.
func Render(bundle *domain.ScriptBundle) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, bundle); err != nil {
		return "", zerr.Wrap(err, "render runtime script template")
	}
	return buf.String(), nil
}

// Write renders bundle and writes it under
// <outRoot>/pack/_gen/start/_rsplug/lua/_rsplug/init.lua, so the host
// editor loads it as an eager pack.
func Write(outRoot string, bundle *domain.ScriptBundle) error {
	source, err := Render(bundle)
	if err != nil {
		return err
	}

	dir := filepath.Join(outRoot, "pack", "_gen", "start", "_rsplug", "lua", "_rsplug")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create runtime script directory"), "dir", dir)
	}

	path := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "write runtime script"), "path", path)
	}
	return nil
}

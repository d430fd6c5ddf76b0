package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.rsplug.dev/rsplug/internal/adapters/fs"
)

func TestMatcher_BasenamePattern(t *testing.T) {
	m := fs.New([]string{"*.o"})
	assert.True(t, m.Match("build/out.o"))
	assert.False(t, m.Match("build/out.lua"))
}

func TestMatcher_AnchoredDoubleStar(t *testing.T) {
	m := fs.New([]string{"doc/**/*.txt"})
	assert.True(t, m.Match("doc/generated/plugin.txt"))
	assert.True(t, m.Match("doc/plugin.txt"))
	assert.False(t, m.Match("lua/plugin.txt"))
}

func TestMatcher_DirOnlyPattern(t *testing.T) {
	m := fs.New([]string{"build/"})
	assert.True(t, m.MatchDir("build"))
	assert.False(t, m.Match("build"))
}

func TestMatcher_NegationOverridesEarlierRule(t *testing.T) {
	m := fs.New([]string{"*.lua", "!keep.lua"})
	assert.True(t, m.Match("scratch.lua"))
	assert.False(t, m.Match("keep.lua"))
}

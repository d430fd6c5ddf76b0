package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.rsplug.dev/rsplug/internal/core/domain"
)

func TestVersionLess_NumericComponents(t *testing.T) {
	assert.True(t, versionLess("v1.2.0", "v1.10.0"))
	assert.False(t, versionLess("v2.0.0", "v1.9.9"))
	assert.True(t, versionLess("v1.2.0", "v1.2.1"))
}

func TestVersionLess_FallsBackToLexicographic(t *testing.T) {
	assert.True(t, versionLess("release-alpha", "release-beta"))
}

func TestGlobMatch_SuffixStar(t *testing.T) {
	matched, err := globMatch("release-*", "release-2024.1")
	assert.NoError(t, err)
	assert.True(t, matched)

	matched, err = globMatch("release-*", "v1.0.0")
	assert.NoError(t, err)
	assert.False(t, matched)
}

func TestClassifyError_Terminal(t *testing.T) {
	err := classifyError(errors.New("exit status 128"), "remote: Repository not found.")
	assert.ErrorIs(t, err, domain.ErrRepoNotFound)

	err = classifyError(errors.New("exit status 128"), "fatal: Authentication failed for 'https://example.com/'")
	assert.ErrorIs(t, err, domain.ErrRepoAuth)
}

func TestClassifyError_Transient(t *testing.T) {
	err := classifyError(errors.New("exit status 128"), "fatal: unable to access: Could not resolve host")
	assert.ErrorIs(t, err, domain.ErrRepoTransient)
}

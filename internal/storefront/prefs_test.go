package storefront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	prefs, err := OpenPrefs(path)
	require.NoError(t, err)
	assert.Empty(t, prefs.Phone())
	assert.False(t, prefs.DarkMode())

	require.NoError(t, prefs.SetPhone("99887766"))
	require.NoError(t, prefs.SetDarkMode(true))

	// a fresh open sees the persisted values
	reopened, err := OpenPrefs(path)
	require.NoError(t, err)
	assert.Equal(t, "99887766", reopened.Phone())
	assert.True(t, reopened.DarkMode())
}

func TestFilePrefsCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	prefs, err := OpenPrefs(path)
	require.NoError(t, err)
	assert.Empty(t, prefs.Phone())
}

func TestFilePrefsCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.json")
	prefs, err := OpenPrefs(path)
	require.NoError(t, err)
	require.NoError(t, prefs.SetPhone("11112222"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

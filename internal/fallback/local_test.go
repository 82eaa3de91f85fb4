package fallback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveAndGet(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(filepath.Join(dir, "nested"), 1024)
	require.NoError(t, err)

	_, err = l.Get("multiple_bons")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, l.Save("multiple_bons", strings.NewReader(`[1,2]`)))
	data, err := l.Get("multiple_bons")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	require.NoError(t, l.Save("multiple_bons", strings.NewReader(`[3]`)))
	data, err = l.Get("multiple_bons")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, string(data))

	// no temporary files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalMaxSize(t *testing.T) {
	l, err := NewLocal(t.TempDir(), 4)
	require.NoError(t, err)

	require.NoError(t, l.Save("small", strings.NewReader("1234")))
	err = l.Save("big", strings.NewReader("12345"))
	assert.Error(t, err)

	_, err = l.Get("big")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalRejectsPathKeys(t *testing.T) {
	l, err := NewLocal(t.TempDir(), 1024)
	require.NoError(t, err)

	assert.Error(t, l.Save("../escape", strings.NewReader("x")))
	_, err = l.Get("a/b")
	assert.Error(t, err)
}

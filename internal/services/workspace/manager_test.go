package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), arbor.NewLogger())
	require.NoError(t, err)
	return m
}

func TestAcquireCreatesUniqueDirectories(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Acquire(models.OperationMerge)
	require.NoError(t, err)
	defer a.Release()

	b, err := m.Acquire(models.OperationMerge)
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.Dir(), b.Dir())
	assert.DirExists(t, a.Dir())
	assert.DirExists(t, b.Dir())

	// Same file name in two workspaces must not collide
	pa, err := a.WriteFile("merged.pdf", []byte("a"))
	require.NoError(t, err)
	pb, err := b.WriteFile("merged.pdf", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, pa, pb)
}

func TestReleaseRemovesDeclaredPaths(t *testing.T) {
	m := newTestManager(t)

	ws, err := m.Acquire(models.OperationJPG)
	require.NoError(t, err)

	_, err = ws.WriteFile("page_1.jpg", []byte("x"))
	require.NoError(t, err)
	_, err = ws.WriteFile("page_2.jpg", []byte("y"))
	require.NoError(t, err)
	// Declared but never written
	ws.Path("page_3.jpg")
	// Written by a library without being declared
	require.NoError(t, os.WriteFile(filepath.Join(ws.Dir(), "stray.tmp"), []byte("z"), 0600))

	warnings := ws.Release()
	assert.Empty(t, warnings)

	for _, p := range ws.Paths() {
		assert.NoFileExists(t, p)
	}
	assert.NoDirExists(t, ws.Dir())

	entries, err := os.ReadDir(m.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReleaseIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	ws, err := m.Acquire(models.OperationSplit)
	require.NoError(t, err)

	assert.Empty(t, ws.Release())
	assert.Nil(t, ws.Release())
}

func TestPathStripsDirectories(t *testing.T) {
	m := newTestManager(t)
	ws, err := m.Acquire(models.OperationWatermark)
	require.NoError(t, err)
	defer ws.Release()

	p := ws.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(ws.Dir(), "passwd"), p)
}

func TestSweepRemovesOnlyStaleWorkspaces(t *testing.T) {
	m := newTestManager(t)

	stale, err := m.Acquire(models.OperationCompress)
	require.NoError(t, err)
	fresh, err := m.Acquire(models.OperationCompress)
	require.NoError(t, err)
	defer fresh.Release()

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale.Dir(), old, old))

	// Unrelated directories under the root are left alone
	other := filepath.Join(m.Root(), "keep-me")
	require.NoError(t, os.Mkdir(other, 0755))
	require.NoError(t, os.Chtimes(other, old, old))

	removed, err := m.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, stale.Dir())
	assert.DirExists(t, fresh.Dir())
	assert.DirExists(t, other)
}

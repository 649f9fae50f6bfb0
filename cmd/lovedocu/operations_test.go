package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/models"
)

func TestWriteResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	result := &models.Result{
		Operation: models.OperationJPG,
		Files: []models.ArtifactFile{
			{Name: "page_1.jpg", Data: []byte{1}},
			{Name: "../page_2.jpg", Data: []byte{2}},
		},
	}

	paths, err := writeResult(dir, result)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "page_2.jpg"), paths[1], "names are confined to the output directory")

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
}

func TestReadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0644))

	docs, err := readDocuments([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].Name)

	_, err = readDocuments([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "merge", "split", "compress", "word", "excel", "jpg", "watermark", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestWriteResult_RemovesPartialOutput(t *testing.T) {
	logger = arbor.NewLogger()
	dir := t.TempDir()

	// A directory in the way makes the second write fail
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "page_2.jpg", "child"), 0755))

	result := &models.Result{
		Operation: models.OperationJPG,
		Files: []models.ArtifactFile{
			{Name: "page_1.jpg", Data: []byte{1}},
			{Name: "page_2.jpg", Data: []byte{2}},
		},
	}

	paths, err := writeResult(dir, result)
	require.Error(t, err)
	assert.Nil(t, paths)
	assert.NoFileExists(t, filepath.Join(dir, "page_1.jpg"))
}

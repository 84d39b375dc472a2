package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportArchiveSaveAndOpen(t *testing.T) {
	archive, err := NewExportArchive(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, archive.Save("report.csv", []byte("Company,Postings\nAcme,2\n")))

	file, err := archive.Open("report.csv")
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "Company,Postings\nAcme,2\n", string(data))
}

func TestExportArchiveRejectsPathTraversal(t *testing.T) {
	archive, err := NewExportArchive(t.TempDir())
	require.NoError(t, err)

	require.Error(t, archive.Save("../escape.csv", []byte("x")))
	require.Error(t, archive.Save("/tmp/abs.csv", []byte("x")))
	_, err = archive.Open("nested/report.csv")
	require.Error(t, err)
}

func TestExportArchiveCleanup(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewExportArchive(dir)
	require.NoError(t, err)

	require.NoError(t, archive.Save("old.csv", []byte("x")))
	require.NoError(t, archive.Save("fresh.csv", []byte("y")))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), stale, stale))

	deleted, err := archive.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = archive.Open("old.csv")
	require.Error(t, err)
	file, err := archive.Open("fresh.csv")
	require.NoError(t, err)
	file.Close()
}

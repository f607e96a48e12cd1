package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"go-recruiter/pkg/sde"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const typesYAML = `34:
    groupID: 18
    mass: 0.0
    name:
        de: Tritanium
        en: Tritanium
    portionSize: 1
    published: true
587:
    groupID: 25
    name:
        en: Rifter
    published: true
99999:
    groupID: 1
    name:
        de: Nur deutsch
`

const groupsYAML = `18:
    anchorable: false
    categoryID: 4
    name:
        en: Mineral
    published: true
25:
    categoryID: 6
    name:
        en: Frigate
    published: true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestConvertedFilesLoadIntoService(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()

	n, err := convertTypes(writeFile(t, src, "types.yaml", typesYAML), out)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "types without an english name are dropped")

	n, err = convertGroups(writeFile(t, src, "groups.yaml", groupsYAML), out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	svc := sde.NewService(out)
	rifter, err := svc.TypeByID(t.Context(), 587)
	require.NoError(t, err)
	assert.Equal(t, "Rifter", rifter.EnglishName())
	assert.Equal(t, int32(25), rifter.GroupID)

	frigate, err := svc.GroupByID(t.Context(), 25)
	require.NoError(t, err)
	assert.Equal(t, "Frigate", frigate.EnglishName())
	assert.Equal(t, int32(6), frigate.CategoryID)
}

func TestConvertRejectsBrokenYAML(t *testing.T) {
	src := t.TempDir()
	_, err := convertTypes(writeFile(t, src, "types.yaml", "587: [unterminated"), t.TempDir())
	assert.Error(t, err)
}

func TestExtractFiles(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "sde.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"fsd/types.yaml":    typesYAML,
		"fsd/groups.yaml":   groupsYAML,
		"fsd/skins.yaml":    "{}",
		"bsd/invNames.yaml": "[]",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "out")
	require.NoError(t, extractFiles(archive, dest, "fsd/types.yaml", "fsd/groups.yaml"))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Error(t, extractFiles(archive, dest, "fsd/missing.yaml"))
}

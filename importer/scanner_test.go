package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindArchives(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested", "deeper"), 0755))

	touch := func(parts ...string) {
		path := filepath.Join(append([]string{root}, parts...)...)
		require.NoError(t, os.WriteFile(path, []byte("zip"), 0644))
	}

	touch("QCL_E_All_Data_(Normalized).zip")
	touch("nested", "FBS_E_All_Data_(Normalized).zip")
	touch("nested", "deeper", "GT_E_All_Data_(Normalized).zip")
	touch("readme.txt")
	touch("QCL_E_All_Data.zip")
	touch("datasets_E.json")

	archives, err := FindArchives(root)
	require.NoError(t, err)
	assert.Len(t, archives, 3)
	for _, path := range archives {
		assert.Contains(t, path, ArchiveSuffix)
	}
}

func TestFindArchives_EmptyDir(t *testing.T) {
	archives, err := FindArchives(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, archives)
}

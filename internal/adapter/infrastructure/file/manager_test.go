//go:build unit

package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAdapter_WriteAndReadFile(t *testing.T) {
	adapter := NewManagerAdapter()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "Credentials.h")
	testContent := []byte("int serverPort = 80;\n")

	t.Run("WriteFile", func(t *testing.T) {
		require.NoError(t, adapter.WriteFile(testFile, testContent, 0640))

		info, err := os.Stat(testFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	})

	t.Run("ReadFile", func(t *testing.T) {
		content, err := adapter.ReadFile(testFile)
		require.NoError(t, err)
		assert.Equal(t, testContent, content)
	})

	t.Run("OverwriteLeavesNoTempFiles", func(t *testing.T) {
		require.NoError(t, adapter.WriteFile(testFile, []byte("int serverPort = 8080;\n"), 0644))

		entries, err := os.ReadDir(tempDir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		content, err := adapter.ReadFile(testFile)
		require.NoError(t, err)
		assert.Equal(t, "int serverPort = 8080;\n", string(content))
	})

	t.Run("FileExists", func(t *testing.T) {
		assert.True(t, adapter.FileExists(testFile))
		assert.False(t, adapter.FileExists(filepath.Join(tempDir, "nonexistent.h")))
	})
}

func TestManagerAdapter_ReadFile_NonExistent(t *testing.T) {
	_, err := NewManagerAdapter().ReadFile("/nonexistent/file.h")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestManagerAdapter_WriteFile_InvalidPath(t *testing.T) {
	err := NewManagerAdapter().WriteFile("/nonexistent/directory/file.h", []byte("test"), 0644)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "videos.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVideoIDs_ArrayFormat(t *testing.T) {
	t.Parallel()

	path := writeTempJSON(t, `["video1", "video2"]`)

	ids, err := LoadVideoIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"video1", "video2"}, ids)
}

func TestLoadVideoIDs_ObjectFormat(t *testing.T) {
	t.Parallel()

	path := writeTempJSON(t, `{"video_ids": ["video3", "video4"]}`)

	ids, err := LoadVideoIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"video3", "video4"}, ids)
}

func TestLoadVideoIDs_InvalidFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"wrong key", `{"invalid": ["video5"]}`},
		{"scalar", `"video6"`},
		{"number", `42`},
		{"video_ids not an array", `{"video_ids": "video7"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempJSON(t, tt.content)

			_, err := LoadVideoIDs(path)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestLoadVideoIDs_NonStringEntries(t *testing.T) {
	t.Parallel()

	path := writeTempJSON(t, `["video1", 7]`)

	_, err := LoadVideoIDs(path)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoadVideoIDs_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadVideoIDs(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadVideoIDs_EmptyArray(t *testing.T) {
	t.Parallel()

	path := writeTempJSON(t, `[]`)

	ids, err := LoadVideoIDs(path)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoadVideoIDs_OrderPreserved(t *testing.T) {
	t.Parallel()

	path := writeTempJSON(t, `["c", "a", "b"]`)

	ids, err := LoadVideoIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

package textfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantEnc Encoding
	}{
		{
			name:    "ascii",
			input:   []byte("ID: 1\nfoo"),
			want:    "ID: 1\nfoo",
			wantEnc: UTF8,
		},
		{
			name:    "utf-8 accents",
			input:   []byte("# 2\nseñas: oreja"),
			want:    "# 2\nseñas: oreja",
			wantEnc: UTF8,
		},
		{
			name:    "latin-1 fallback",
			input:   []byte{'#', ' ', '3', '\n', 's', 'e', 0xF1, 'a', 's'},
			want:    "# 3\nseñas",
			wantEnc: Latin1,
		},
		{
			name:    "utf-8 byte order mark is kept",
			input:   []byte("\xef\xbb\xbfID: 1"),
			want:    "\ufeffID: 1",
			wantEnc: UTF8,
		},
		{
			name:    "crlf and cr normalized",
			input:   []byte("ID: 1\r\nfoo\rbar\n"),
			want:    "ID: 1\nfoo\nbar\n",
			wantEnc: UTF8,
		},
		{
			name:    "empty",
			input:   []byte{},
			want:    "",
			wantEnc: UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantEnc, enc)
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carga.txt")
	require.NoError(t, os.WriteFile(path, []byte{'I', 'D', ':', ' ', '1', '\n', 0xE9}, 0644))

	content, enc, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "ID: 1\né", content)
	assert.Equal(t, Latin1, enc)
}

func TestRead_Missing(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWriteString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "carga.txt")

	require.NoError(t, WriteString(path, "# 1\nseñas\n\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# 1\nseñas\n\n", string(data))

	// overwrite in place
	require.NoError(t, WriteString(path, "# 2\n\n"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# 2\n\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestWrite_KeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "carga.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, WriteString(path, "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWrite_MissingDirectoryParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := WriteString(filepath.Join(blocker, "out.txt"), "data")
	assert.Error(t, err)
}

package git

import (
	"context"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedFsFileLimit(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{
		Filesystem:    memfs.New(),
		MaxFiles:      2,
		TotalFileSize: 1024,
	}

	_, err := fs.Create("one")
	require.NoError(t, err)
	_, err = fs.Create("two")
	require.NoError(t, err)

	_, err = fs.Create("three")
	require.ErrorIs(t, err, ErrFsLimitReached)
}

func TestLimitedFsSizeLimit(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{
		Filesystem:    memfs.New(),
		MaxFiles:      10,
		TotalFileSize: 8,
	}

	f, err := fs.Create("data")
	require.NoError(t, err)

	_, err = f.Write([]byte("12345678"))
	require.NoError(t, err)

	_, err = f.Write([]byte("x"))
	require.ErrorIs(t, err, ErrFsLimitReached)
}

func TestLimitedFsOpenFileCountsCreations(t *testing.T) {
	t.Parallel()

	fs := &LimitedFs{
		Filesystem:    memfs.New(),
		MaxFiles:      1,
		TotalFileSize: 1024,
	}

	_, err := fs.OpenFile("one", os.O_CREATE|os.O_WRONLY, 0600)
	require.NoError(t, err)

	// Re-opening an existing file is not a creation.
	_, err = fs.OpenFile("one", os.O_RDONLY, 0)
	require.NoError(t, err)

	_, err = fs.OpenFile("two", os.O_CREATE|os.O_WRONLY, 0600)
	require.ErrorIs(t, err, ErrFsLimitReached)
}

func TestClientOperationsOnNilRepository(t *testing.T) {
	t.Parallel()

	client := NewDefaultGitClient()

	_, err := client.ListFiles(nil, ".yaml")
	assert.Error(t, err)

	_, err = client.GetFileContent(&RepositoryInfo{}, "boards.yaml")
	assert.Error(t, err)

	err = client.Cleanup(context.Background(), nil)
	assert.Error(t, err)
}

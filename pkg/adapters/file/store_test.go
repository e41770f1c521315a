package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/posematch/pkg/adapters/file"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/ports"
	contract "github.com/aretw0/posematch/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_LoaderContract(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Matrices"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Matrices", "model.json"), []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "space.txt"), []byte("[ ]"), 0644))

	contract.ResourceLoaderContractTest(t, file.New(dir), map[string]string{
		"Matrices/model":      "[]",
		"Matrices/model.json": "[]",
		"space":               "[ ]",
	})
}

func TestFileStore_ResolvePrefersExactName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pose"), []byte("exact"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pose.json"), []byte("json"), 0644))

	text, err := file.New(dir).LoadText(context.Background(), "pose")
	require.NoError(t, err)
	assert.Equal(t, "exact", text)
}

func TestFileStore_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "poses"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poses.bytes"), []byte("[]"), 0644))

	text, err := file.New(dir).LoadText(context.Background(), "poses")
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}

func TestFileStore_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	store := file.New(filepath.Join(dir, "res"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.json"), []byte("[]"), 0644))

	_, err := store.LoadText(context.Background(), "../secret")
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}

func TestFileStore_WriteCreatesDirectoriesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, store.WriteText(context.Background(), "out/nested/matching.json", `{"datas":[]}`))

	data, err := os.ReadFile(filepath.Join(dir, "out", "nested", "matching.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"datas":[]}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "out", "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_WriteAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "abs.json")

	require.NoError(t, file.New("unused-base").WriteText(context.Background(), target, "x"))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestFileStore_WriteErrorIsWrapped(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

	// A regular file stands where the parent directory should be.
	err := file.New(dir).WriteText(context.Background(), "blocker/out.json", "x")
	assert.ErrorIs(t, err, domain.ErrWrite)
}

func TestFileStore_StripsByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte("\xEF\xBB\xBF[]"), 0644))

	text, err := file.New(dir).LoadText(context.Background(), "model")
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}

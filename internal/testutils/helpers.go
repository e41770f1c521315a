package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/posematch/pkg/codec"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/stretchr/testify/require"
)

// BareDocument encodes set as a bare JSON array, the shape of input resources.
func BareDocument(t *testing.T, set domain.MatrixSet) []byte {
	t.Helper()
	data, err := codec.Encode(set)
	require.NoError(t, err)
	return data[len(`{"`+codec.ContainerField+`":`) : len(data)-1]
}

// SetupResourceDir creates a temporary directory holding one <name>.json
// bare document per entry of sets and returns its absolute path.
func SetupResourceDir(t *testing.T, sets map[string]domain.MatrixSet) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, set := range sets {
		path := filepath.Join(absPath, name+".json")
		require.NoError(t, os.WriteFile(path, BareDocument(t, set), 0644), "Failed to write %s", path)
	}
	return absPath
}

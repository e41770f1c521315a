package ports

import (
	"context"
	"testing"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("Write and Load", func(t *testing.T) {
		text := `{"datas":[]}`
		err := store.WriteText(ctx, "contract/result", text)
		require.NoError(t, err, "WriteText should not return error")

		loaded, err := store.LoadText(ctx, "contract/result")
		require.NoError(t, err, "LoadText should not return error")
		assert.Equal(t, text, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.WriteText(ctx, "contract/overwrite", "first"))
		require.NoError(t, store.WriteText(ctx, "contract/overwrite", "second"))

		loaded, err := store.LoadText(ctx, "contract/overwrite")
		require.NoError(t, err)
		assert.Equal(t, "second", loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.LoadText(ctx, "contract/does-not-exist")
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})

	t.Run("Empty Path", func(t *testing.T) {
		_, err := store.LoadText(ctx, "")
		assert.Error(t, err)
		assert.Error(t, store.WriteText(ctx, "", "x"))
	})
}

package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/ports"
)

// ResourceLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ResourceLoader.
// setupData maps resource paths to the text the loader is expected to return for them.
func ResourceLoaderContractTest(t *testing.T, loader ports.ResourceLoader, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadText_Success", func(t *testing.T) {
		for path, expected := range setupData {
			content, err := loader.LoadText(ctx, path)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", path, err)
			}
			if content != expected {
				t.Errorf("content mismatch for %s. got %q, want %q", path, content, expected)
			}
		}
	})

	t.Run("LoadText_NotFound", func(t *testing.T) {
		_, err := loader.LoadText(ctx, "non-existent-resource")
		if err == nil {
			t.Fatal("expected error for non-existent resource, got nil")
		}
		if !errors.Is(err, domain.ErrResourceNotFound) {
			t.Errorf("expected ErrResourceNotFound, got %v", err)
		}
	})

	t.Run("LoadText_Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		for path := range setupData {
			if _, err := loader.LoadText(canceled, path); err == nil {
				t.Errorf("expected error for canceled context on %s", path)
			}
			break
		}
	})
}

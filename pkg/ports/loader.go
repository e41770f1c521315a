package ports

import "context"

// ResourceLoader defines how the engine retrieves matrix documents.
type ResourceLoader interface {
	// LoadText returns the raw text of the resource at path.
	// Returns domain.ErrResourceNotFound if the path cannot be resolved.
	LoadText(ctx context.Context, path string) (string, error)
}

// ResultWriter defines where the engine writes the matched set.
type ResultWriter interface {
	// WriteText stores text at path, replacing any previous content.
	// Implementations must not leave partial output behind on failure.
	WriteText(ctx context.Context, path string, text string) error
}

// Store is implemented by adapters that can both load and write documents.
type Store interface {
	ResourceLoader
	ResultWriter
}

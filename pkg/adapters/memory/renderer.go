package memory

import (
	"context"
	"sync"

	"github.com/aretw0/posematch/pkg/domain"
)

// DrawCall is one recorded DrawPose invocation.
type DrawCall struct {
	Category  domain.Category
	Transform domain.Transform
	Color     domain.Color
}

// Renderer implements ports.CategoryRenderer by recording every call.
// It is used by tests and by previews that post-process the draw list.
type Renderer struct {
	mu       sync.Mutex
	current  domain.Category
	calls    []DrawCall
	sections []domain.Category
}

// NewRenderer creates an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// BeginCategory marks the start of a view.
func (r *Renderer) BeginCategory(ctx context.Context, category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = category
	r.sections = append(r.sections, category)
	return nil
}

// DrawPose records the pose.
func (r *Renderer) DrawPose(ctx context.Context, t domain.Transform, c domain.Color) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, DrawCall{Category: r.current, Transform: t, Color: c})
	return nil
}

// Calls returns a copy of the recorded calls in draw order.
func (r *Renderer) Calls() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DrawCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// Sections returns the categories in the order they were started.
func (r *Renderer) Sections() []domain.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Category, len(r.sections))
	copy(out, r.sections)
	return out
}

// Count returns the number of poses drawn with the given category.
func (r *Renderer) Count(category domain.Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Category == category {
			n++
		}
	}
	return n
}

package ports

import (
	"context"

	"github.com/aretw0/posematch/pkg/domain"
)

// GizmoRenderer draws debug gizmos for transforms.
type GizmoRenderer interface {
	// DrawPose draws the gizmo of a single transform with the given color.
	DrawPose(ctx context.Context, t domain.Transform, c domain.Color) error
}

// CategoryRenderer is implemented by renderers that group poses by view.
// BeginCategory is called before the poses of each view are drawn.
type CategoryRenderer interface {
	GizmoRenderer
	BeginCategory(ctx context.Context, category domain.Category) error
}

package cli

import (
	"context"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/ports"
)

// fanout forwards every draw call to each renderer in turn.
type fanout []ports.GizmoRenderer

func (f fanout) BeginCategory(ctx context.Context, category domain.Category) error {
	for _, r := range f {
		if cr, ok := r.(ports.CategoryRenderer); ok {
			if err := cr.BeginCategory(ctx, category); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f fanout) DrawPose(ctx context.Context, t domain.Transform, c domain.Color) error {
	for _, r := range f {
		if err := r.DrawPose(ctx, t, c); err != nil {
			return err
		}
	}
	return nil
}

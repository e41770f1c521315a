package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/gizmo"
	"github.com/muesli/termenv"
)

// TextRenderer prints one colored line per gizmo.
// It implements ports.CategoryRenderer.
type TextRenderer struct {
	w       io.Writer
	profile termenv.Profile
	current domain.Category
	index   int
}

// NewTextRenderer creates a TextRenderer writing to w with the terminal's color profile.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, profile: termenv.ColorProfile()}
}

// WithProfile forces a color profile, e.g. termenv.Ascii for plain output.
func (r *TextRenderer) WithProfile(p termenv.Profile) *TextRenderer {
	r.profile = p
	return r
}

// BeginCategory prints a section header.
func (r *TextRenderer) BeginCategory(ctx context.Context, category domain.Category) error {
	r.current = category
	r.index = 0
	header := termenv.String(fmt.Sprintf("== %s ==", category)).
		Foreground(r.profile.Color(category.Color().Hex()))
	_, err := fmt.Fprintln(r.w, header)
	return err
}

// DrawPose prints the position and normalized forward axis of t.
func (r *TextRenderer) DrawPose(ctx context.Context, t domain.Transform, c domain.Color) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pose := gizmo.PoseOf(t)
	p, f := pose.Position, pose.Forward
	marker := termenv.String("■").Foreground(r.profile.Color(c.Hex()))
	_, err := fmt.Fprintf(r.w, "%s %3d pos(%g, %g, %g) fwd(%g, %g, %g)\n",
		marker, r.index, p[0], p[1], p[2], f[0], f[1], f[2])
	r.index++
	return err
}

package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/gizmo"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderer_Draw(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf).WithProfile(termenv.Ascii)

	report := &domain.Report{
		Model:     domain.MatrixSet{domain.Translation(1, 2, 3), domain.Identity()},
		Space:     domain.MatrixSet{domain.Translation(1, 2, 3)},
		Matched:   domain.MatrixSet{domain.Translation(1, 2, 3)},
		Unmatched: domain.MatrixSet{domain.Identity()},
	}
	require.NoError(t, gizmo.Draw(context.Background(), r, report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "== matched ==", lines[0])
	assert.Contains(t, lines[1], "pos(1, 2, 3)")
	assert.Equal(t, "== unmatched ==", lines[2])
	assert.Contains(t, lines[3], "pos(0, 0, 0) fwd(0, 0, 1)")
	assert.Equal(t, "== space ==", lines[4])
}

func TestTextRenderer_NormalizedForward(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf).WithProfile(termenv.Ascii)
	scaled := domain.FromRows([16]float32{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	})
	require.NoError(t, r.DrawPose(context.Background(), scaled, domain.Blue))
	assert.Contains(t, buf.String(), "fwd(0, 0, 1)")
}

func TestTextRenderer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewTextRenderer(&bytes.Buffer{})
	assert.ErrorIs(t, r.DrawPose(ctx, domain.Identity(), domain.Green), context.Canceled)
}

func TestReportMarkdown(t *testing.T) {
	report := &domain.Report{
		Model:     domain.MatrixSet{domain.Translation(1, 0, 0), domain.Translation(2, 0, 0)},
		Space:     domain.MatrixSet{domain.Translation(1, 0, 0)},
		Matched:   domain.MatrixSet{domain.Translation(1, 0, 0)},
		Unmatched: domain.MatrixSet{domain.Translation(2, 0, 0)},
		Epsilon:   0.5,
	}

	md := ReportMarkdown("run", report, 0)
	assert.Contains(t, md, "# run")
	assert.Contains(t, md, "| matched | 1 | `#00ff00` |")
	assert.Contains(t, md, "| unmatched | 1 | `#ff0000` |")
	assert.Contains(t, md, "| space | 1 | `#0000ff` |")
	assert.Contains(t, md, "Epsilon: `0.5`")
	assert.NotContains(t, md, "## matched")

	md = ReportMarkdown("run", report, 10)
	assert.Contains(t, md, "## unmatched")
	assert.Contains(t, md, "| 0 | 2 | 0 | 0 |")
}

func TestSetTable_Limit(t *testing.T) {
	set := domain.MatrixSet{domain.Identity(), domain.Identity(), domain.Identity()}
	table := SetTable(set, 2)
	assert.Contains(t, table, "| 1 | 0 | 0 | 0 |")
	assert.NotContains(t, table, "| 2 |")
	assert.Contains(t, table, "_1 more not shown_")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}

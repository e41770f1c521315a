package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/internal/config"
	"github.com/aretw0/posematch/internal/presentation/tui"
	"github.com/aretw0/posematch/pkg/adapters/scene"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/ports"
)

// ErrNoOutput is returned by RunMatch when the job names no output document.
var ErrNoOutput = errors.New("output path is required (--output or output: in the job file)")

// MatchOptions controls the presentation of a match run.
type MatchOptions struct {
	// Out receives the gizmo listing and the summary.
	Out io.Writer
	// Draw prints one colored line per gizmo.
	Draw bool
	// Summary prints a markdown report rendered with glamour.
	Summary bool
	// Limit is the number of rows listed per view in the summary.
	Limit int
	// Hooks are attached to the engine, e.g. metrics.
	Hooks domain.Hooks
}

// RunMatch executes the job described by cfg.
// The glTF scene is written only after the matched set was saved.
func RunMatch(ctx context.Context, cfg config.Config, opts MatchOptions, logger *slog.Logger) (*domain.Report, error) {
	if cfg.Output == "" {
		return nil, ErrNoOutput
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	var renderers fanout
	if opts.Draw {
		renderers = append(renderers, tui.NewTextRenderer(opts.Out))
	}
	var sceneRenderer *scene.Renderer
	if cfg.Scene != "" {
		sceneRenderer = scene.NewRenderer()
		renderers = append(renderers, sceneRenderer)
	}

	extra := []posematch.Option{posematch.WithHooks(opts.Hooks)}
	if len(renderers) > 0 {
		var r ports.GizmoRenderer = renderers
		extra = append(extra, posematch.WithRenderer(r))
	}

	engine, closeStore, err := CreateEngine(cfg, logger, extra...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	report, err := engine.Run(ctx, posematch.Job{
		ModelPath:  cfg.Model,
		SpacePath:  cfg.Space,
		OutputPath: cfg.Output,
	})
	if err != nil {
		return nil, err
	}

	if sceneRenderer != nil {
		if err := sceneRenderer.Save(cfg.Scene); err != nil {
			return report, fmt.Errorf("failed to export scene: %w", err)
		}
		logger.Info("scene exported", "path", cfg.Scene)
	}

	if opts.Summary {
		printMarkdown(opts.Out, tui.ReportMarkdown(cfg.Model+" vs "+cfg.Space, report, opts.Limit), logger)
	}
	return report, nil
}

// RunInspect loads each document and prints a preview of its transforms.
func RunInspect(ctx context.Context, cfg config.Config, paths []string, limit int, out io.Writer, logger *slog.Logger) error {
	engine, closeStore, err := CreateEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	for _, path := range paths {
		set, err := engine.Load(ctx, path)
		if err != nil {
			return err
		}
		md := fmt.Sprintf("# %s\n\n%d transforms\n\n%s", path, len(set), tui.SetTable(set, limit))
		printMarkdown(out, md, logger)
	}
	return nil
}

func printMarkdown(out io.Writer, md string, logger *slog.Logger) {
	rendered, err := tui.NewRenderer()(md)
	if err != nil {
		logger.Warn("markdown rendering failed", "error", err)
		rendered = md
	}
	fmt.Fprint(out, rendered)
}

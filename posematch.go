package posematch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/posematch/internal/logging"
	"github.com/aretw0/posematch/pkg/adapters/file"
	"github.com/aretw0/posematch/pkg/codec"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/gizmo"
	"github.com/aretw0/posematch/pkg/matcher"
	"github.com/aretw0/posematch/pkg/ports"
)

// Job names the documents of one run.
type Job struct {
	ModelPath  string `json:"model" yaml:"model" mapstructure:"model"`
	SpacePath  string `json:"space" yaml:"space" mapstructure:"space"`
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`
}

// Engine is the high-level entry point of the library.
// It holds no state between runs; every Run reloads its inputs.
type Engine struct {
	loader   ports.ResourceLoader
	writer   ports.ResultWriter
	renderer ports.GizmoRenderer
	matcher  *matcher.Matcher
	epsilon  *float32
	hooks    domain.Hooks
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom ResourceLoader, bypassing the default filesystem store.
func WithLoader(l ports.ResourceLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithWriter injects a custom ResultWriter, bypassing the default filesystem store.
func WithWriter(w ports.ResultWriter) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

// WithRenderer draws the gizmos of every run with r.
func WithRenderer(r ports.GizmoRenderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithEpsilon sets the per-component matching tolerance.
func WithEpsilon(eps float32) Option {
	return func(e *Engine) {
		e.epsilon = &eps
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// By default documents are read from and written to the directory at resourcePath.
// If both WithLoader and WithWriter are provided, resourcePath can be empty.
func New(resourcePath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil || eng.writer == nil {
		if resourcePath == "" {
			return nil, fmt.Errorf("resourcePath is required when no custom loader and writer are provided")
		}
		absPath, err := filepath.Abs(resourcePath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		store := file.New(absPath)
		if eng.loader == nil {
			eng.loader = store
		}
		if eng.writer == nil {
			eng.writer = store
		}
	} else if resourcePath != "" {
		eng.Name = filepath.Base(resourcePath)
	}

	var mopts []matcher.Option
	if eng.epsilon != nil {
		mopts = append(mopts, matcher.WithEpsilon(*eng.epsilon))
	}
	m, err := matcher.New(mopts...)
	if err != nil {
		return nil, err
	}
	eng.matcher = m

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("resources", eng.Name)
	}

	return eng, nil
}

// Epsilon returns the tolerance used by the engine's matcher.
func (e *Engine) Epsilon() float32 {
	return e.matcher.Epsilon()
}

// Load reads and decodes one matrix document.
// Bare arrays and wrapped {"datas": [...]} documents are both accepted.
func (e *Engine) Load(ctx context.Context, path string) (domain.MatrixSet, error) {
	start := time.Now()

	text, err := e.loader.LoadText(ctx, path)
	if err != nil {
		return nil, err
	}
	set, err := codec.Decode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	elapsed := time.Since(start)
	e.logger.Debug("resource loaded", "path", path, "count", len(set), "duration", elapsed)
	if e.hooks.OnLoad != nil {
		e.hooks.OnLoad(ctx, &domain.LoadEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLoad},
			Path:      path,
			Count:     len(set),
			Duration:  elapsed,
		})
	}
	return set, nil
}

// Match compares two in-memory sets and returns the categorized report.
func (e *Engine) Match(ctx context.Context, model, space domain.MatrixSet) *domain.Report {
	return e.match(ctx, e.matcher, model, space)
}

// MatchWithEpsilon is Match with a per-call tolerance.
// The engine's hooks and logger observe the call like any other match.
func (e *Engine) MatchWithEpsilon(ctx context.Context, model, space domain.MatrixSet, eps float32) (*domain.Report, error) {
	if eps == e.matcher.Epsilon() {
		return e.Match(ctx, model, space), nil
	}
	m, err := matcher.New(matcher.WithEpsilon(eps))
	if err != nil {
		return nil, err
	}
	return e.match(ctx, m, model, space), nil
}

func (e *Engine) match(ctx context.Context, m *matcher.Matcher, model, space domain.MatrixSet) *domain.Report {
	start := time.Now()
	matched, unmatched := m.Partition(model, space)
	elapsed := time.Since(start)

	report := &domain.Report{
		Model:     model,
		Space:     space,
		Matched:   matched,
		Unmatched: unmatched,
		Epsilon:   m.Epsilon(),
	}

	e.logger.Debug("matching done",
		"model", len(model),
		"space", len(space),
		"matched", len(matched),
		"epsilon", m.Epsilon(),
		"duration", elapsed,
	)
	if e.hooks.OnMatch != nil {
		e.hooks.OnMatch(ctx, &domain.MatchEvent{
			EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventMatch},
			ModelCount:   len(model),
			SpaceCount:   len(space),
			MatchedCount: len(matched),
			Duration:     elapsed,
		})
	}
	return report
}

// Run executes one job: load both sets, match, draw, then write the matched set.
// Any failure aborts the run before the output is written.
func (e *Engine) Run(ctx context.Context, job Job) (*domain.Report, error) {
	if job.ModelPath == "" || job.SpacePath == "" {
		return nil, fmt.Errorf("model and space paths are required")
	}

	model, err := e.Load(ctx, job.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model set: %w", err)
	}
	space, err := e.Load(ctx, job.SpacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load space set: %w", err)
	}

	report := e.Match(ctx, model, space)

	if e.renderer != nil {
		if err := gizmo.Draw(ctx, e.renderer, report); err != nil {
			return nil, fmt.Errorf("failed to draw gizmos: %w", err)
		}
	}

	if job.OutputPath != "" {
		if err := e.Save(ctx, job.OutputPath, report.Matched); err != nil {
			return nil, err
		}
	} else {
		e.logger.Warn("no output path, matched set not saved", "matched", len(report.Matched))
	}

	e.logger.Info("run complete",
		"model", job.ModelPath,
		"space", job.SpacePath,
		"output", job.OutputPath,
		"matched", len(report.Matched),
		"unmatched", len(report.Unmatched),
	)
	return report, nil
}

// Save encodes set and writes it to path.
func (e *Engine) Save(ctx context.Context, path string, set domain.MatrixSet) error {
	data, err := codec.Encode(set)
	if err != nil {
		return fmt.Errorf("failed to encode matched set: %w", err)
	}
	if err := e.writer.WriteText(ctx, path, string(data)); err != nil {
		if errors.Is(err, domain.ErrWrite) {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return fmt.Errorf("failed to write %s: %w: %w", path, domain.ErrWrite, err)
	}

	if e.hooks.OnSave != nil {
		e.hooks.OnSave(ctx, &domain.SaveEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSave},
			Path:      path,
			Bytes:     len(data),
		})
	}
	return nil
}

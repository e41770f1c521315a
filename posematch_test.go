package posematch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/internal/logging"
	"github.com/aretw0/posematch/pkg/adapters/memory"
	"github.com/aretw0/posematch/pkg/codec"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeBare(t *testing.T, set domain.MatrixSet) string {
	t.Helper()
	data, err := codec.Encode(set)
	require.NoError(t, err)
	// Strip the container to produce a bare array resource.
	s := string(data)
	return s[len(`{"datas":`) : len(s)-1]
}

func newEngine(t *testing.T, docs map[string]string, opts ...posematch.Option) (*posematch.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore(docs)
	opts = append([]posematch.Option{posematch.WithLoader(store), posematch.WithWriter(store)}, opts...)
	eng, err := posematch.New("", opts...)
	require.NoError(t, err)
	return eng, store
}

func TestRun_IdentityAgainstEmptySpace(t *testing.T) {
	eng, store := newEngine(t, map[string]string{
		"model": encodeBare(t, domain.MatrixSet{domain.Identity()}),
		"space": "[]",
	})

	report, err := eng.Run(context.Background(), posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
	require.NoError(t, err)
	assert.Empty(t, report.Matched)
	assert.Equal(t, domain.MatrixSet{domain.Identity()}, report.Unmatched)

	out, err := store.LoadText(context.Background(), "out")
	require.NoError(t, err)
	assert.Equal(t, `{"datas":[]}`, out)
}

func TestRun_WritesMatchedSubset(t *testing.T) {
	a, b, c := domain.Translation(1, 0, 0), domain.Translation(2, 0, 0), domain.Translation(3, 0, 0)
	renderer := memory.NewRenderer()
	eng, store := newEngine(t, map[string]string{
		"model": encodeBare(t, domain.MatrixSet{a, b, c}),
		"space": encodeBare(t, domain.MatrixSet{c, a}),
	}, posematch.WithRenderer(renderer))

	report, err := eng.Run(context.Background(), posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
	require.NoError(t, err)
	assert.Equal(t, domain.MatrixSet{a, c}, report.Matched)
	assert.Equal(t, domain.MatrixSet{b}, report.Unmatched)

	out, err := store.LoadText(context.Background(), "out")
	require.NoError(t, err)
	decoded, err := codec.Decode([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, domain.MatrixSet{a, c}, decoded)

	assert.Equal(t, 2, renderer.Count(domain.CategoryMatched))
	assert.Equal(t, 1, renderer.Count(domain.CategoryUnmatched))
	assert.Equal(t, 2, renderer.Count(domain.CategorySpace))
}

func TestRun_AcceptsWrappedDocuments(t *testing.T) {
	wrapped, err := codec.Encode(domain.MatrixSet{domain.Identity()})
	require.NoError(t, err)
	eng, _ := newEngine(t, map[string]string{"model": string(wrapped), "space": string(wrapped)})

	report, err := eng.Run(context.Background(), posematch.Job{ModelPath: "model", SpacePath: "space"})
	require.NoError(t, err)
	assert.Len(t, report.Matched, 1)
}

func TestRun_Epsilon(t *testing.T) {
	docs := map[string]string{
		"model": encodeBare(t, domain.MatrixSet{domain.Translation(1, 2, 3)}),
		"space": encodeBare(t, domain.MatrixSet{domain.Translation(1, 2, 3.0001)}),
	}
	job := posematch.Job{ModelPath: "model", SpacePath: "space"}

	strict, _ := newEngine(t, docs)
	report, err := strict.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Empty(t, report.Matched)

	tolerant, _ := newEngine(t, docs, posematch.WithEpsilon(1e-3))
	report, err = tolerant.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Len(t, report.Matched, 1)
	assert.Equal(t, float32(1e-3), report.Epsilon)
}

func TestMatchWithEpsilon(t *testing.T) {
	var events int
	eng, _ := newEngine(t, nil, posematch.WithHooks(domain.Hooks{
		OnMatch: func(context.Context, *domain.MatchEvent) { events++ },
	}))
	model := domain.MatrixSet{domain.Translation(0, 0, 1)}
	space := domain.MatrixSet{domain.Translation(0, 0, 1.0001)}

	report, err := eng.MatchWithEpsilon(context.Background(), model, space, 0.001)
	require.NoError(t, err)
	assert.Len(t, report.Matched, 1)
	assert.Equal(t, float32(0.001), report.Epsilon)
	assert.Equal(t, 1, events)

	// The engine's own tolerance is left untouched.
	assert.Empty(t, eng.Match(context.Background(), model, space).Matched)
	assert.Equal(t, 2, events)

	_, err = eng.MatchWithEpsilon(context.Background(), model, space, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidEpsilon)
	assert.Equal(t, 2, events)
}

func TestRun_WarnsWithoutOutput(t *testing.T) {
	var logs bytes.Buffer
	eng, store := newEngine(t, map[string]string{"model": "[]", "space": "[]"},
		posematch.WithLogger(logging.NewWithWriter(&logs, slog.LevelWarn, logging.FormatText)))

	_, err := eng.Run(context.Background(), posematch.Job{ModelPath: "model", SpacePath: "space"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "matched set not saved")
	assert.ElementsMatch(t, []string{"model", "space"}, store.Paths())
}

func TestNew_InvalidEpsilon(t *testing.T) {
	store := memory.NewStore(nil)
	_, err := posematch.New("", posematch.WithLoader(store), posematch.WithWriter(store), posematch.WithEpsilon(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidEpsilon)
}

func TestNew_RequiresPathWithoutAdapters(t *testing.T) {
	_, err := posematch.New("")
	assert.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing resource", func(t *testing.T) {
		eng, store := newEngine(t, map[string]string{"model": "[]"})
		_, err := eng.Run(ctx, posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
		assert.NotContains(t, store.Paths(), "out")
	})

	t.Run("malformed resource", func(t *testing.T) {
		eng, store := newEngine(t, map[string]string{"model": "[]", "space": "[{"})
		_, err := eng.Run(ctx, posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
		assert.ErrorIs(t, err, domain.ErrParse)
		assert.NotContains(t, store.Paths(), "out")
	})

	t.Run("missing paths", func(t *testing.T) {
		eng, _ := newEngine(t, nil)
		_, err := eng.Run(ctx, posematch.Job{ModelPath: "model"})
		assert.Error(t, err)
	})

	t.Run("unwritable output", func(t *testing.T) {
		store := memory.NewStore(map[string]string{"model": "[]", "space": "[]"})
		eng, err := posematch.New("", posematch.WithLoader(store), posematch.WithWriter(failingWriter{}))
		require.NoError(t, err)
		_, err = eng.Run(ctx, posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
		assert.ErrorIs(t, err, domain.ErrWrite)
	})
}

type failingWriter struct{}

func (failingWriter) WriteText(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestRun_Hooks(t *testing.T) {
	var loads []string
	var match *domain.MatchEvent
	var save *domain.SaveEvent
	hooks := domain.Hooks{
		OnLoad:  func(_ context.Context, e *domain.LoadEvent) { loads = append(loads, e.Path) },
		OnMatch: func(_ context.Context, e *domain.MatchEvent) { match = e },
		OnSave:  func(_ context.Context, e *domain.SaveEvent) { save = e },
	}
	eng, _ := newEngine(t, map[string]string{
		"model": encodeBare(t, domain.MatrixSet{domain.Identity()}),
		"space": encodeBare(t, domain.MatrixSet{domain.Identity()}),
	}, posematch.WithHooks(hooks))

	_, err := eng.Run(context.Background(), posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
	require.NoError(t, err)

	assert.Equal(t, []string{"model", "space"}, loads)
	require.NotNil(t, match)
	assert.Equal(t, 1, match.MatchedCount)
	require.NotNil(t, save)
	assert.Equal(t, "out", save.Path)
	assert.Equal(t, domain.EventSave, save.Type)
}

func TestRun_DefaultFileStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Matrices"), 0755))
	bare := encodeBare(t, domain.MatrixSet{domain.Identity()})
	// Editors on Windows often save text assets with a byte order mark.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Matrices", "model.json"), []byte("\uFEFF"+bare), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Matrices", "space.json"), []byte(bare), 0644))

	eng, err := posematch.New(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), eng.Name)

	_, err = eng.Run(context.Background(), posematch.Job{
		ModelPath:  "Matrices/model",
		SpacePath:  "Matrices/space",
		OutputPath: "Matrices/matching.json",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Matrices", "matching.json"))
	require.NoError(t, err)
	set, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, domain.MatrixSet{domain.Identity()}, set)
}

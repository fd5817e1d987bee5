// internal/engine/engine_test.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/boxflow/internal/browser/layout"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
	"github.com/xkilldash9x/boxflow/internal/config"
	"github.com/xkilldash9x/boxflow/internal/mocks"
)

// -- Test Helpers --

func newTestEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	mockCfg := new(mocks.MockConfig)
	mockCfg.On("Engine").Return(config.EngineConfig{WorkerConcurrency: workers, JobTimeout: 5 * time.Second})
	mockCfg.On("Layout").Return(config.LayoutConfig{ViewportWidth: 1024, ViewportHeight: 768, MaxDepth: 64})

	e, err := New(mockCfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return e
}

const boxCSS = `#a { display: block; width: 100px; height: 20px; background-color: red; }`

// -- Test Cases --

func TestNew(t *testing.T) {
	_, err := New(nil, zap.NewNop())
	assert.EqualError(t, err, "config cannot be nil")
	_, err = New(new(mocks.MockConfig), nil)
	assert.EqualError(t, err, "logger cannot be nil")
}

func TestRender_Fragment(t *testing.T) {
	e := newTestEngine(t, 1)

	res, err := e.Render(context.Background(), Job{
		Name:     "box",
		HTML:     []byte(`<div id="a"><p>hi</p></div>`),
		CSS:      boxCSS,
		Fragment: true,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(res.JobID)
	assert.NoError(t, err, "an ID is assigned when the job has none")
	assert.Equal(t, "box", res.Name)
	require.Len(t, res.StyleSheet.Rules, 1)
	assert.Equal(t, "div", res.Styles.Element(res.Styles.Root()).Tag)
	assert.Equal(t, 1024.0, res.Viewport.Content.Width)

	root := res.Layout.Box(res.Layout.Root())
	assert.Equal(t, layout.BlockBox, root.BoxType)
	assert.InDelta(t, 462.0, root.Dimensions.Content.X, 0.001)
	assert.InDelta(t, 20.0, root.Dimensions.Content.Height, 0.001)

	require.Len(t, res.DisplayList, 1)
	assert.Equal(t, parser.Color{R: 1, A: 1}, res.DisplayList[0].Color)
	assert.Equal(t, layout.Rect{X: 462, Y: 0, Width: 100, Height: 20}, res.DisplayList[0].Rect)
}

func TestRender_FullDocument(t *testing.T) {
	e := newTestEngine(t, 1)

	res, err := e.Render(context.Background(), Job{
		ID:   "doc-1",
		HTML: []byte(`<!DOCTYPE html><html><head></head><body><div id="a"></div></body></html>`),
		CSS:  `html, body { display: block; } head { display: none; } ` + boxCSS,
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", res.JobID)
	assert.Equal(t, "html", res.Styles.Element(res.Styles.Root()).Tag)

	geo, err := res.Layout.ElementGeometry("//div[@id='a']")
	require.NoError(t, err)
	assert.Equal(t, "DIV", geo.TagName)
	assert.Equal(t, int64(100), geo.Width)

	_, err = res.Layout.ElementGeometry("//head")
	assert.ErrorContains(t, err, "not rendered")
}

func TestRender_ViewportOverride(t *testing.T) {
	e := newTestEngine(t, 1)

	tests := []struct {
		name     string
		viewport *layout.Dimensions
		width    float64
	}{
		{"configured viewport", nil, 1024},
		{"explicit viewport", viewportOf(300, 200), 300},
		{"explicit zero width", viewportOf(0, 200), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Render(context.Background(), Job{
				HTML:     []byte(`<div id="a"></div>`),
				CSS:      `#a { display: block; }`,
				Fragment: true,
				Viewport: tt.viewport,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.width, res.Viewport.Content.Width)
			assert.InDelta(t, tt.width, res.Layout.Box(res.Layout.Root()).Dimensions.Content.Width, 0.001)
		})
	}
}

func viewportOf(width, height float64) *layout.Dimensions {
	vp := layout.Viewport(width, height)
	return &vp
}

func TestRender_Errors(t *testing.T) {
	e := newTestEngine(t, 1)

	t.Run("no root element", func(t *testing.T) {
		_, err := e.Render(context.Background(), Job{Name: "text", HTML: []byte("just text"), Fragment: true})
		require.ErrorIs(t, err, ErrNoRoot)
		assert.Contains(t, err.Error(), "job 'text'")
	})

	t.Run("unsupported unit", func(t *testing.T) {
		_, err := e.Render(context.Background(), Job{
			HTML:     []byte(`<div id="a"></div>`),
			CSS:      `#a { display: block; width: 10em; }`,
			Fragment: true,
		})
		require.ErrorIs(t, err, layout.ErrUnsupportedUnit)
		var unitErr *layout.UnsupportedUnitError
		require.True(t, errors.As(err, &unitErr))
		assert.Equal(t, parser.UnitEm, unitErr.Unit)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Render(ctx, Job{HTML: []byte(`<div></div>`), Fragment: true})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRenderAll(t *testing.T) {
	defer goleak.VerifyNone(t)
	e := newTestEngine(t, 3)

	var jobs []Job
	for i := 0; i < 6; i++ {
		css := boxCSS
		if i == 2 {
			css = `#a { display: block; width: 3in; }`
		}
		jobs = append(jobs, Job{
			Name:     fmt.Sprintf("job-%d", i),
			HTML:     []byte(`<div id="a"></div>`),
			CSS:      css,
			Fragment: true,
		})
	}

	results, err := e.RenderAll(context.Background(), jobs)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 1)
	assert.Contains(t, err.Error(), "job 'job-2'")
	assert.ErrorIs(t, err, layout.ErrUnsupportedUnit)

	require.Len(t, results, 5)
	names := make([]string, len(results))
	seen := map[string]bool{}
	for i, r := range results {
		names[i] = r.Name
		assert.False(t, seen[r.JobID], "job IDs are unique")
		seen[r.JobID] = true
	}
	assert.Equal(t, []string{"job-0", "job-1", "job-3", "job-4", "job-5"}, names)
}

func TestRenderAll_Empty(t *testing.T) {
	defer goleak.VerifyNone(t)
	e := newTestEngine(t, 2)

	results, err := e.RenderAll(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestResult_Report(t *testing.T) {
	e := newTestEngine(t, 1)
	res, err := e.Render(context.Background(), Job{
		ID:       "r-1",
		Name:     "report",
		HTML:     []byte(`<div id="a"></div>`),
		CSS:      boxCSS,
		Fragment: true,
	})
	require.NoError(t, err)

	rep := res.Report()
	assert.Equal(t, "r-1", rep.JobID)
	assert.Equal(t, "report", rep.Name)
	assert.Equal(t, 1024.0, rep.Viewport.Width)
	require.NotNil(t, rep.Layout)
	assert.Equal(t, "div#a", rep.Layout.Element)
	require.Len(t, rep.DisplayList, 1)
	assert.Equal(t, [4]float64{1, 0, 0, 1}, rep.DisplayList[0].Color)
}

func TestResolve_StopsBeforeLayout(t *testing.T) {
	e := newTestEngine(t, 1)

	// The em width would fail layout but is fine for style resolution.
	res, err := e.Resolve(context.Background(), Job{
		Name:     "styles",
		HTML:     []byte(`<div id="a"><p class="x"></p></div>`),
		CSS:      `#a { display: block; width: 10em; } .x { color: red; }`,
		Fragment: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.JobID)
	assert.Equal(t, 2, res.Styles.Len())
	assert.Nil(t, res.Layout)
	assert.Empty(t, res.DisplayList)

	w, ok := res.Styles.Node(res.Styles.Root()).Length("width")
	require.True(t, ok)
	assert.Equal(t, parser.UnitEm, w.Unit)

	rep := res.Report()
	assert.Nil(t, rep.Layout)

	_, err = e.Resolve(context.Background(), Job{HTML: []byte("text"), Fragment: true})
	assert.ErrorIs(t, err, ErrNoRoot)
}

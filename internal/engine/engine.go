// internal/engine/engine.go
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/internal/browser/dom"
	"github.com/xkilldash9x/boxflow/internal/browser/layout"
	"github.com/xkilldash9x/boxflow/internal/browser/paint"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
	"github.com/xkilldash9x/boxflow/internal/browser/style"
	"github.com/xkilldash9x/boxflow/internal/config"
)

// ErrNoRoot is returned when the markup contains no element to style.
var ErrNoRoot = errors.New("document has no root element")

// Job is one document to render.
type Job struct {
	// ID is assigned when empty.
	ID   string
	Name string
	HTML []byte
	CSS  string
	// Fragment parses HTML as a body fragment instead of a full document,
	// so the first top-level element becomes the root.
	Fragment bool
	// Viewport overrides the configured viewport when set, including a
	// zero-width one.
	Viewport *layout.Dimensions
}

// Result holds every stage of a rendered job.
type Result struct {
	JobID       string
	Name        string
	Document    *dom.Document
	StyleSheet  parser.StyleSheet
	Styles      *style.Tree
	Layout      *layout.Tree
	DisplayList paint.DisplayList
	Viewport    layout.Dimensions
	RenderedAt  time.Time
	Duration    time.Duration
}

// Report converts the result into its serialisable form.
func (r *Result) Report() *schemas.RenderReport {
	vp := r.Viewport.Content
	return &schemas.RenderReport{
		JobID:       r.JobID,
		Name:        r.Name,
		Viewport:    schemas.Rect{X: vp.X, Y: vp.Y, Width: vp.Width, Height: vp.Height},
		RenderedAt:  r.RenderedAt,
		DurationMS:  float64(r.Duration.Microseconds()) / 1000,
		Layout:      r.Layout.Report(),
		DisplayList: r.DisplayList.Schema(),
	}
}

// Engine runs the parse, style, layout and paint stages for a batch of jobs.
// Each job is rendered on a single goroutine; jobs run concurrently.
type Engine struct {
	cfg    config.Interface
	logger *zap.Logger
}

// New creates a new Engine.
func New(cfg config.Interface, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "render_engine")),
	}, nil
}

// Render runs one job. The context is checked between stages, and the job
// is bounded by the configured job timeout.
func (e *Engine) Render(ctx context.Context, job Job) (*Result, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	logger := e.logger.With(zap.String("job_id", job.ID), zap.String("name", job.Name))

	if timeout := e.cfg.Engine().JobTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := e.render(ctx, job, logger)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			logger.Warn("Render interrupted.", zap.Error(err))
		} else {
			logger.Error("Render failed.", zap.Error(err))
		}
		return nil, fmt.Errorf("job '%s' (%s): %w", job.Name, job.ID, err)
	}
	logger.Info("Rendered document.",
		zap.Int("styled_nodes", res.Styles.Len()),
		zap.Int("boxes", res.Layout.Len()),
		zap.Int("paint_commands", len(res.DisplayList)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// Resolve runs only the parse and style stages of a job. Layout and
// DisplayList are left empty.
func (e *Engine) Resolve(ctx context.Context, job Job) (*Result, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	logger := e.logger.With(zap.String("job_id", job.ID), zap.String("name", job.Name))
	res, err := e.resolve(ctx, job, logger)
	if err != nil {
		return nil, fmt.Errorf("job '%s' (%s): %w", job.Name, job.ID, err)
	}
	res.Duration = time.Since(res.RenderedAt)
	return res, nil
}

func (e *Engine) resolve(ctx context.Context, job Job, logger *zap.Logger) (*Result, error) {
	res := &Result{JobID: job.ID, Name: job.Name, RenderedAt: time.Now().UTC()}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var err error
	if job.Fragment {
		res.Document, err = dom.FromHTMLFragment(bytes.NewReader(job.HTML))
	} else {
		res.Document, err = dom.FromHTML(bytes.NewReader(job.HTML))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	root, ok := res.Document.FirstElementRoot()
	if !ok {
		return nil, ErrNoRoot
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.StyleSheet = parser.NewParser(job.CSS, logger).Parse()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Styles, err = style.NewResolver(logger, e.cfg.Layout().MaxDepth).Resolve(res.Document, root, res.StyleSheet)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) render(ctx context.Context, job Job, logger *zap.Logger) (*Result, error) {
	res, err := e.resolve(ctx, job, logger)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lc := e.cfg.Layout()
	if job.Viewport != nil {
		res.Viewport = *job.Viewport
	} else {
		res.Viewport = layout.Viewport(lc.ViewportWidth, lc.ViewportHeight)
	}
	res.Layout, err = layout.NewEngine(logger, lc.MaxDepth).LayoutTree(res.Styles, res.Viewport)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.DisplayList = paint.BuildDisplayList(res.Layout)
	res.Duration = time.Since(res.RenderedAt)
	return res, nil
}

// RenderAll renders jobs concurrently, bounded by the configured worker
// concurrency. Successful results are returned in input order; every failure
// is reported in the combined error.
func (e *Engine) RenderAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	concurrency := e.cfg.Engine().WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	e.logger.Info("Starting batch render", zap.Int("jobs", len(jobs)), zap.Int("concurrency", concurrency))

	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range jobs {
		i := i
		job := jobs[i]
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			results[i], errs[i] = e.Render(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*Result, 0, len(jobs))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	err := multierr.Combine(errs...)
	e.logger.Info("Batch render finished",
		zap.Int("succeeded", len(out)),
		zap.Int("failed", len(multierr.Errors(err))),
	)
	return out, err
}

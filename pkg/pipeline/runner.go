package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/observability"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/table"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the batch runner and the server use it to share caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, t *table.Table, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Source == "" {
		opts.Source = t.Name
	}
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Layout
	hooks.OnLayoutStart(ctx, opts.Source, t.Len())
	layoutStart := time.Now()
	l, err := Layout(t, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, opts.Source, l.Cells(), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Diagnostics = l.Diagnostics()
	result.Stats.Rows = l.Rows
	result.Stats.Cells = l.Cells()

	for _, d := range result.Diagnostics {
		hooks.OnDiagnostic(ctx, opts.Source, d.Message)
		r.Logger.Warn(d.Message, "source", opts.Source, "rect", d.Rect)
	}
	r.Logger.Info("computed layout",
		"source", opts.Source,
		"rows", result.Stats.Rows,
		"cells", result.Stats.Cells,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, t); err != nil {
		return nil, fmt.Errorf("hash table: %w", err)
	}
	result.TableHash = cache.Hash(buf.Bytes())

	hooks.OnRenderStart(ctx, opts.Source, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCache(ctx, l, result.TableHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Source, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"source", opts.Source,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderWithCache serves cached formats and renders only the missing ones.
func (r *Runner) renderWithCache(ctx context.Context, l layout.Layout, tableHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format, l.Spec.Box))
		keys[format] = key
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	rendered, err := renderFormats(ctx, l, opts, missing)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

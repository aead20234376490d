package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/laidout/impose/pkg/cache"
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/net"
	"github.com/laidout/impose/pkg/observability"
	"github.com/laidout/impose/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so cache keys and logging stay consistent.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
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

// Execute runs the layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	doc, configHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.ConfigHash = configHash
	result.CacheInfo.LayoutHit = layoutHit
	result.Stats.Pages = doc.Pages
	result.Stats.Papers = doc.Papers
	result.Stats.Spreads = len(doc.Spreads)
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"kind", opts.Kind,
		"layout", opts.Layout,
		"pages", doc.Pages,
		"spreads", len(doc.Spreads),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the document spreads, reading and writing the
// layout cache. It returns the configuration hash and whether the cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (render.Document, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return render.Document{}, "", false, err
	}
	configHash, err := opts.ConfigHash()
	if err != nil {
		return render.Document{}, "", false, err
	}
	key := r.Keyer.LayoutKey(configHash, opts.LayoutKeyOpts())
	hooks := observability.Pipeline()

	if !opts.Refresh {
		var doc render.Document
		if err := cache.GetJSON(ctx, r.Cache, key, &doc); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return doc, configHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	hooks.OnLayoutStart(ctx, opts.Kind, opts.Pages)
	doc, err := GenerateLayout(opts)
	hooks.OnLayoutComplete(ctx, opts.Kind, len(doc.Spreads), time.Since(start), err)
	if err != nil {
		return render.Document{}, "", false, err
	}

	if data, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return doc, configHash, false, nil
}

// Layout is a convenience wrapper that discards the cache information.
func (r *Runner) Layout(ctx context.Context, opts Options) (render.Document, error) {
	doc, _, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return doc, err
}

// RenderWithCacheInfo renders doc in every requested format, reusing cached
// artifacts when all formats are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc render.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(docData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache information.
func (r *Runner) Render(ctx context.Context, doc render.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// RenderNet draws the face graph of a built-in net as DOT source or, for
// format "svg", as a Graphviz drawing.
func (r *Runner) RenderNet(ctx context.Context, name, format string) ([]byte, error) {
	n, err := net.Builtin(name)
	if err != nil {
		return nil, err
	}
	if format != FormatDOT && format != FormatSVG {
		return nil, errors.New(errors.ErrCodeUnsupported, "net graphs render as dot or svg, not %q", format)
	}
	netHash, err := cache.HashJSON(n)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash net")
	}
	key := r.Keyer.NetKey(netHash, format)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "net")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "net")

	if err := n.Validate(); err != nil {
		return nil, err
	}
	tree, err := n.FoldTree(0)
	if err != nil {
		return nil, err
	}
	dot := render.NetDOT(n, tree)
	data := []byte(dot)
	if format == FormatSVG {
		if data, err = render.RenderDOT(ctx, dot); err != nil {
			return nil, err
		}
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLNet); err == nil {
		observability.Cache().OnCacheSet(ctx, "net", len(data))
	}
	r.Logger.Debug("rendered net graph", "net", name, "format", format, "bytes", len(data))
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

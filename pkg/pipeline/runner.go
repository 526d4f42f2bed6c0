package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/flexkit/flexer/pkg/cache"
	"github.com/flexkit/flexer/pkg/errors"
	"github.com/flexkit/flexer/pkg/flex"
	"github.com/flexkit/flexer/pkg/manifest"
	"github.com/flexkit/flexer/pkg/observability"
	"github.com/flexkit/flexer/pkg/render"
)

// Runner encapsulates pipeline execution with caching. Both the CLI and the
// HTTP server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
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

// Loaded is the output of the load stage: a validated manifest, the element
// tree built from it, and the name index.
type Loaded struct {
	Manifest *manifest.Manifest
	Engine   *flex.Engine
	IDs      map[string]flex.ElementID

	// Hash is the content hash of the manifest source; layout cache keys
	// derive from it.
	Hash string
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.New(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run_id", result.RunID)

	// Stage 1: Load
	loadStart := time.Now()
	loaded, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Manifest = loaded.Manifest
	result.Engine = loaded.Engine
	result.IDs = loaded.IDs
	result.ManifestHash = loaded.Hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ElementCount = loaded.Engine.Len()

	logger.Info("loaded manifest",
		"name", loaded.Manifest.Name,
		"elements", loaded.Engine.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, loaded, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"rects", len(loaded.Engine.Rects()),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, loaded, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load parses the manifest and builds the element tree. Loading is never
// cached: parsing TOML and building the tree is cheaper than a cache lookup.
func (r *Runner) Load(ctx context.Context, opts Options) (*Loaded, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	source := opts.ManifestPath
	if source == "" {
		source = "<inline>"
	}
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)

	loaded, err := r.load(opts)

	count := 0
	if loaded != nil {
		count = loaded.Engine.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, source, count, time.Since(start), err)
	return loaded, err
}

func (r *Runner) load(opts Options) (*Loaded, error) {
	data := []byte(opts.Manifest)
	if opts.ManifestPath != "" {
		var err error
		data, err = os.ReadFile(opts.ManifestPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", opts.ManifestPath)
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read manifest %s", opts.ManifestPath)
		}
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}
	e, ids, err := m.Build()
	if err != nil {
		return nil, err
	}
	return &Loaded{
		Manifest: m,
		Engine:   e,
		IDs:      ids,
		Hash:     cache.Hash(data),
	}, nil
}

// ComputeLayoutWithCacheInfo computes rectangles for the loaded tree, with
// caching, and reports whether the result was restored from cache. The result
// lives in loaded.Engine either way.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, loaded *Loaded, opts Options) (bool, error) {
	r.applyLogger(&opts)
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, loaded.Engine.Len())

	hit, err := r.computeLayout(ctx, loaded, opts)

	observability.Pipeline().OnLayoutComplete(ctx, loaded.Engine.Len(), time.Since(start), err)
	return hit, err
}

func (r *Runner) computeLayout(ctx context.Context, loaded *Loaded, opts Options) (bool, error) {
	if opts.Width > 0 || opts.Height > 0 {
		root, ok := loaded.Engine.Element(loaded.Engine.Root())
		if ok {
			bounds := root.Bounds
			if opts.Width > 0 {
				bounds.Width = opts.Width
			}
			if opts.Height > 0 {
				bounds.Height = opts.Height
			}
			loaded.Engine.SetRootBounds(bounds)
		}
	}

	cacheKey := r.Keyer.LayoutKey(loaded.Hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if rects, err := render.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				loaded.Engine.RestoreRects(rects)
				return true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	loaded.Engine.PerformLayout()

	if data, err := render.MarshalLayout(loaded.Engine.Rects()); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, loaded *Loaded, opts Options) error {
	_, err := r.ComputeLayoutWithCacheInfo(ctx, loaded, opts)
	return err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// all of them came from cache. The layout stage must have run first.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, loaded *Loaded, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, hit, err := r.renderArtifacts(ctx, loaded, opts)

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) renderArtifacts(ctx context.Context, loaded *Loaded, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := render.MarshalLayout(loaded.Engine.Rects())
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := RenderFromLayout(ctx, loaded, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, loaded *Loaded, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, loaded, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maskgen/pkg/cache"
	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/device"
	"github.com/matzehuels/maskgen/pkg/layout"
	"github.com/matzehuels/maskgen/pkg/observability"
	"github.com/matzehuels/maskgen/pkg/registry"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner keeps no per-run state, so several goroutines may share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Registry receives a run record when Options.Record is set.
	Registry registry.Store
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

// Execute runs build → export → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	d := opts.Design
	logger := opts.Logger

	canonical, err := d.Canonical()
	if err != nil {
		return nil, err
	}
	result := &Result{
		Hash:      cache.Hash(canonical),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1 and 2: the GDS stream, from cache or freshly built
	gdsData, hit := r.cached(ctx, r.Keyer.DesignKey(result.Hash), "design", opts.Refresh)
	if hit && !opts.Record {
		c, err := ImportGDS(gdsData)
		if err != nil {
			logger.Warn("discarding unreadable cached gds", "hash", short(result.Hash), "err", err)
			hit = false
		} else {
			result.Component = c
			result.CacheInfo.DesignHit = true
		}
	}
	if result.Component == nil {
		start := time.Now()
		c, devices, err := r.build(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		result.Component = c
		result.Devices = devices
		result.Stats.BuildTime = time.Since(start)
	}
	if !hit {
		start := time.Now()
		gdsData, err = r.export(ctx, result.Component, d.Name)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		result.Stats.ExportTime = time.Since(start)
		r.store(ctx, r.Keyer.DesignKey(result.Hash), "design", gdsData)
	}
	if opts.wants(FormatGDS) {
		result.Artifacts[FormatGDS] = gdsData
	}
	result.Stats.GDSBytes = len(gdsData)
	result.Stats.Devices = len(result.Devices)
	if result.Devices == nil {
		if specs, err := d.Expand(); err == nil {
			result.Stats.Devices = len(specs)
		}
	}
	result.Stats.Cells = len(result.Component.Cells())
	result.Stats.Polygons = result.Component.PolygonCount()

	logger.Info("generated mask",
		"design", d.Name,
		"devices", result.Stats.Devices,
		"polygons", result.Stats.Polygons,
		"cached", result.CacheInfo.DesignHit)

	// Stage 3: previews
	if previews := opts.previews(); len(previews) > 0 {
		start := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Component, result.Hash, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		for f, data := range artifacts {
			result.Artifacts[f] = data
		}
		result.Stats.RenderTime = time.Since(start)
		result.CacheInfo.RenderHit = renderHit

		logger.Info("rendered previews",
			"formats", previews,
			"duration", result.Stats.RenderTime)
	}

	if opts.Record {
		if err := r.record(ctx, result, opts); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}
	return result, nil
}

// Build validates and builds d without touching the cache, firing the build
// hooks. It is what Execute runs on a cache miss.
func (r *Runner) Build(ctx context.Context, d *config.Design) (*layout.Component, error) {
	opts := Options{Design: d, Logger: r.Logger}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	c, _, err := r.build(ctx, opts)
	return c, err
}

func (r *Runner) build(ctx context.Context, opts Options) (*layout.Component, []*device.Device, error) {
	d := opts.Design
	specs, err := d.Expand()
	if err != nil {
		return nil, nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, d.Name, len(specs))
	start := time.Now()

	c, devices, err := Build(d)
	polygons := 0
	if err == nil {
		polygons = c.PolygonCount()
	}
	hooks.OnBuildComplete(ctx, d.Name, polygons, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	for _, dev := range devices {
		opts.Logger.Debug("placed device", "cell", dev.Cell, "kind", dev.Spec.Kind)
	}
	return c, devices, nil
}

func (r *Runner) export(ctx context.Context, c *layout.Component, name string) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, name)
	start := time.Now()
	data, err := ExportGDS(c, name)
	hooks.OnExportComplete(ctx, name, len(data), time.Since(start), err)
	return data, err
}

// RenderWithCacheInfo draws the requested previews of c, using cached
// artifacts when every format is available. designHash scopes the cache keys.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *layout.Component, designHash string, opts Options) (map[string][]byte, bool, error) {
	previews := opts.previews()
	artifacts := make(map[string][]byte)
	for _, format := range previews {
		data, hit := r.cached(ctx, r.Keyer.ArtifactKey(designHash, opts.ArtifactKeyOpts(format)), "artifact", opts.Refresh)
		if !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(previews) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, previews)
	start := time.Now()
	rendered, err := Render(c, opts)
	hooks.OnRenderComplete(ctx, previews, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, r.Keyer.ArtifactKey(designHash, opts.ArtifactKeyOpts(format)), "artifact", data)
	}
	return rendered, false, nil
}

func (r *Runner) record(ctx context.Context, result *Result, opts Options) error {
	if r.Registry == nil {
		opts.Logger.Warn("run not recorded: no registry configured")
		return nil
	}
	run := registry.NewRun(opts.Design.Name, result.Hash, result.Component.Name, result.Devices)
	run.Output = opts.Output
	if err := r.Registry.Save(ctx, run); err != nil {
		return err
	}
	result.Run = run
	opts.Logger.Info("recorded run", "id", run.ID)
	return nil
}

// cached looks key up unless refresh is set. Backend errors count as misses.
func (r *Runner) cached(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Registry != nil {
		err = r.Registry.Close()
	}
	if r.Cache != nil {
		if cerr := r.Cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

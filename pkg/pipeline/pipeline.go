// Package pipeline provides the core load → layout → render pipeline.
//
// This package implements the complete pipeline used by the CLI, the HTTP
// server, and embedding hosts. Centralizing it keeps behavior consistent
// across entry points and puts the caching logic in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a TOML manifest and build the element tree
//  2. Layout: Compute a rectangle for every element in the tree
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
// Layout results and rendered artifacts are cached; loading is cheap enough
// that it never is.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ManifestPath: "dashboard.toml",
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/flexkit/flexer/pkg/cache"
	"github.com/flexkit/flexer/pkg/errors"
	"github.com/flexkit/flexer/pkg/flex"
	"github.com/flexkit/flexer/pkg/manifest"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// Options contains all configuration for the pipeline.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of ManifestPath and Manifest must be set.
	ManifestPath string `json:"manifest_path,omitempty"`
	Manifest     string `json:"manifest,omitempty"` // inline TOML content

	// Layout options. Width/Height override the manifest's frame extent,
	// e.g. to fit a resized window. Zero keeps the manifest value.
	Width   int  `json:"width,omitempty"`
	Height  int  `json:"height,omitempty"`
	Refresh bool `json:"refresh,omitempty"` // bypass the layout cache

	// Render options.
	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`   // element names in SVG output
	Scale    int      `json:"scale,omitempty"`    // SVG coordinate multiplier
	Detailed bool     `json:"detailed,omitempty"` // rects and attributes in DOT labels

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution, for log correlation.
	RunID uuid.UUID

	// Manifest is the decoded layout definition.
	Manifest *manifest.Manifest

	// Engine holds the built tree and, after the layout stage, the result
	// mapping.
	Engine *flex.Engine

	// IDs maps manifest element names to engine identifiers.
	IDs map[string]flex.ElementID

	// ManifestHash is the content hash of the manifest source.
	ManifestHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout restored from cache
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.ManifestPath == "" && o.Manifest == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest_path or manifest is required")
	}
	if o.ManifestPath != "" && o.Manifest != "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest_path and manifest are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:  o.Width,
		Height: o.Height,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Labels:   o.Labels,
		Scale:    o.Scale,
		Detailed: o.Detailed,
	}
}

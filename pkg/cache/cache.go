// Package cache provides pluggable caching for layout and render results.
//
// The pipeline caches two kinds of values: computed layouts (keyed by a hash
// of the manifest plus the layout options) and rendered artifacts (keyed by a
// hash of the layout plus the render options). Backends include a file cache
// for CLI usage, Redis and MongoDB for shared deployments, and a null cache
// for disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached value kinds. Layouts are cheap to recompute
// but manifests change rarely; artifacts are pure functions of the layout.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. Set stores data under key for
// ttl; a ttl of 0 means no expiration. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the options that affect a computed layout and therefore
// participate in its cache key.
type LayoutKeyOpts struct {
	Width  int // root frame width override (0 = manifest value)
	Height int // root frame height override (0 = manifest value)
}

// ArtifactKeyOpts are the options that affect a rendered artifact and
// therefore participate in its cache key.
type ArtifactKeyOpts struct {
	Format   string // "svg", "json", "dot", "png"
	Labels   bool   // element names drawn into the output
	Scale    int    // SVG coordinate multiplier
	Detailed bool   // rect and container attributes in DOT labels
}

// Keyer generates cache keys for the cached value kinds.
type Keyer interface {
	// LayoutKey generates a key for a computed layout from the manifest
	// content hash and the layout options.
	LayoutKey(manifestHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact from the layout
	// content hash and the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(manifestHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", manifestHash, opts.Width, opts.Height)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts.Format, opts.Labels, opts.Scale, opts.Detailed)
}

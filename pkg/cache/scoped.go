package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. This is
// useful when several projects share one Redis or MongoDB instance and their
// cache entries must not collide.
//
// Example usage:
//
//	// Per-project keys on a shared backend
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "dashboard:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(manifestHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(manifestHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each deployment or run
// its own namespace in a shared backend such as Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "museum:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tableHash, opts)
}

package cache

// ScopedKeyer prefixes every key of an inner Keyer so several projects can
// share one Redis instance without seeing each other's artifacts:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lab:cleanroom2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DesignKey returns the prefixed design key.
func (k *ScopedKeyer) DesignKey(designHash string) string {
	return k.prefix + k.inner.DesignKey(designHash)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(designHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(designHash, opts)
}

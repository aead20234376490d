package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or tools can
// share one backend without colliding.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "impose:")
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

func (k *ScopedKeyer) LayoutKey(configHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(configHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

func (k *ScopedKeyer) NetKey(netHash, format string) string {
	return k.prefix + k.inner.NetKey(netHash, format)
}

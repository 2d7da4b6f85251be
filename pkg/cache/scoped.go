package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The preview server
// uses it to keep its entries apart from CLI renders sharing one Redis.
//
//	serveKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for fetched inputs.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// RenderKey generates a prefixed key for rendered PNGs.
func (k *ScopedKeyer) RenderKey(subjectHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(subjectHash, opts)
}

// PaletteKey generates a prefixed key for extracted palettes.
func (k *ScopedKeyer) PaletteKey(imageHash string, opts PaletteKeyOpts) string {
	return k.prefix + k.inner.PaletteKey(imageHash, opts)
}

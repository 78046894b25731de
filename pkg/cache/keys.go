package cache

// FrameKeyOpts identifies one rendered artifact of a configuration.
type FrameKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	AtMs   float64 `json:"at_ms"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// FrameKey returns the key of an artifact rendered from the
	// configuration whose hash is configHash.
	FrameKey(configHash string, opts FrameKeyOpts) string
}

// DefaultKeyer hashes the configuration hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) FrameKey(configHash string, opts FrameKeyOpts) string {
	return hashKey("frame", configHash, opts)
}

// ScopedKeyer prefixes another keyer's keys, e.g. with the build version so
// upgrades never serve stale renders.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FrameKey(configHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(configHash, opts)
}

// Package cache stores rendered layouts and artifacts between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so every entry point names the same work the same
// way. [ScopedKeyer] adds a prefix for separate namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored data and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes by kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLNet      = 30 * 24 * time.Hour
)

// Keyer names cache entries.
type Keyer interface {
	// LayoutKey names the spreads computed from a disposition config.
	LayoutKey(configHash string, opts LayoutKeyOpts) string
	// ArtifactKey names one rendered format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	// NetKey names a rendered face graph of a net.
	NetKey(netHash, format string) string
}

// LayoutKeyOpts are the inputs besides the config that change a layout.
type LayoutKeyOpts struct {
	Kind   string `json:"kind"`
	Layout string `json:"layout"`
	Pages  int    `json:"pages"`
	Title  string `json:"title,omitempty"`
}

// ArtifactKeyOpts are the rendering inputs that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Labels bool    `json:"labels,omitempty"`
	Marks  bool    `json:"marks,omitempty"`
	Title  bool    `json:"title,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) LayoutKey(configHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", configHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

func (DefaultKeyer) NetKey(netHash, format string) string {
	return "net:" + format + ":" + netHash
}

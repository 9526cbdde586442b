// Package cache stores encoded cards so repeated renders of the same
// configuration skip drawing and encoding.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared storage for several server instances
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer]. The default keyer hashes everything that changes
// the output bytes: the normalized card configuration, the output format, the
// font and logo digests and the animation parameters.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies an encoded card.
	ArtifactKey(configHash string, opts ArtifactKeyOpts) string

	// AssetKey identifies a downloaded font or logo.
	AssetKey(location string) string
}

// ArtifactKeyOpts lists the render inputs that are not part of the card
// configuration.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	FontDigest string `json:"font"`
	FontSize   int    `json:"font_size"`
	LogoDigest string `json:"logo"`
	Tint       bool   `json:"tint"`
	// OffsetsHash identifies a custom timeline; empty means the computed one.
	OffsetsHash string `json:"offsets,omitempty"`
	DelayMs     int    `json:"delay_ms,omitempty"`
	Compact     bool   `json:"compact,omitempty"`
	Opaque      bool   `json:"opaque,omitempty"`
	LoopCount   int    `json:"loop_count,omitempty"`
	Timeline    bool   `json:"timeline,omitempty"`
	Version     string `json:"version,omitempty"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, configHash, opts)
}

// AssetKey returns "asset:<hash>".
func (DefaultKeyer) AssetKey(location string) string {
	return hashKey("asset", location)
}

var _ Keyer = DefaultKeyer{}

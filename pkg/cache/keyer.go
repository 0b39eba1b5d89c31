package cache

import "strings"

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// DesignKey addresses the GDSII stream built from a design.
	DesignKey(designHash string) string

	// ArtifactKey addresses a derived output (preview, hierarchy graph).
	ArtifactKey(designHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Labels bool    `json:"labels,omitempty"`
}

// DefaultKeyer produces "design:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DesignKey returns the key of the GDS artifact for designHash.
func (DefaultKeyer) DesignKey(designHash string) string {
	return "design:" + designHash
}

// ArtifactKey hashes designHash together with the render options.
func (DefaultKeyer) ArtifactKey(designHash string, opts ArtifactKeyOpts) string {
	opts.Format = strings.ToLower(opts.Format)
	return hashKey("artifact", designHash, opts)
}

package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key of a cached API response.
	HTTPKey(namespace, key string) string

	// ArtifactKey is the key of a rendered document.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every input of a treemap render besides the table.
type ArtifactKeyOpts struct {
	Hierarchy   []string `json:"hierarchy"`
	Area        string   `json:"area"`
	Quality     string   `json:"quality,omitempty"`
	Rules       string   `json:"rules,omitempty"`
	Canvas      string   `json:"canvas"`
	Orientation string   `json:"orientation"`
	Box         string   `json:"box,omitempty"`
	Gap         float64  `json:"gap"`
	BandHeight  float64  `json:"band_height,omitempty"`
	Title       string   `json:"title,omitempty"`
	Palette     string   `json:"palette,omitempty"`
	Format      string   `json:"format"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:" + namespace + ":" + key.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArtifactKey hashes the render options together with the table hash.
// The format stays readable so entries can be told apart.
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), tableHash, opts)
}

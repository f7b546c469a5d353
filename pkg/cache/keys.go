package cache

import "github.com/matzehuels/brickwall/pkg/masonry"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the items hashed to itemsHash.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered format of the layout hashed to layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	Config    masonry.Config `json:"config"`
	Container masonry.Size   `json:"container"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string   `json:"format"`
	Scale    float64  `json:"scale,omitempty"`
	Gap      float64  `json:"gap,omitempty"`
	ShowGrid bool     `json:"show_grid,omitempty"`
	Palette  []string `json:"palette,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

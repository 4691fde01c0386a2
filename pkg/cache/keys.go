package cache

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Layout    string   `json:"layout"`
	Detailed  bool     `json:"detailed,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	PathNodes []string `json:"path_nodes,omitempty"`
	PathEdges []string `json:"path_edges,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a rendering of the graph whose
	// serialized form hashes to graphHash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes graphHash together with opts.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

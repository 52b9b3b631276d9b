package cache

// Keyer derives cache keys for the cacheable pipeline stages.
type Keyer interface {
	// GraphKey returns the key for a built graph, derived from the hash
	// of the raw inventory and the options that shape graph building.
	GraphKey(inputHash string, opts GraphKeyOpts) string

	// LayoutKey returns the key for a laid-out graph, derived from the
	// graph hash and the options that shape the layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// GraphKeyOpts are the options that change which graph an input builds.
type GraphKeyOpts struct {
	DefaultRegion string `json:"default_region"`
}

// LayoutKeyOpts are the options that change where a graph's nodes land.
type LayoutKeyOpts struct {
	Strategy   string  `json:"strategy"`
	Columns    int     `json:"columns"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	Iterations int     `json:"iterations"`
	Seed       int64   `json:"seed"`
}

// keyVersion scopes every generated key. Bump it when the cached
// formats change so old entries read as misses instead of decoding
// as garbage.
const keyVersion = "v1"

// DefaultKeyer hashes key components with SHA-256 and scopes every key
// with the cache format version.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for built-graph caching.
func (k *DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph:"+keyVersion, inputHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout:"+keyVersion, graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

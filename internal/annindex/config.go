package annindex

// Config holds the HNSW construction/search parameters.
type Config struct {
	Dim            int
	M              int // max connections per node
	EfConstruction int // candidate list size while inserting
	EfSearch       int // candidate list size while searching
}

// DefaultConfig returns the reference implementation's defaults for dim.
func DefaultConfig(dim int) Config {
	return Config{
		Dim:            dim,
		M:              16,
		EfConstruction: 200,
		EfSearch:       100,
	}
}

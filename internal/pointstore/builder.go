package pointstore

// Builder assembles a Store from a set of optional persisted paths and
// capacity/prefix hints, mirroring the reference PointExplorerBuilder's
// staged construction (set paths, then build against a concrete element
// type and dimension).
type Builder struct {
	capacity        int
	loadPath        string
	metadataPath    string
	extPath         string
	uriPrefixes     map[string]uriPrefixEntry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{uriPrefixes: make(map[string]uriPrefixEntry)}
}

// Capacity sets the initial point capacity to reserve.
func (b *Builder) Capacity(n int) *Builder {
	b.capacity = n
	return b
}

// LoadPath sets the path Build loads the vector map from, if non-empty.
func (b *Builder) LoadPath(path string) *Builder {
	b.loadPath = path
	return b
}

// MetadataPath sets the path Build loads/tracks the metadata side table at.
func (b *Builder) MetadataPath(path string) *Builder {
	b.metadataPath = path
	return b
}

// MetadataExtPath sets the path Build loads/tracks the ext side table at.
func (b *Builder) MetadataExtPath(path string) *Builder {
	b.extPath = path
	return b
}

// URIPrefix registers a named URI prefix, used by GetPointURI to resolve a
// PointExt's file_path into a fetchable URL or local path.
func (b *Builder) URIPrefix(name string, isURL bool, value string) *Builder {
	b.uriPrefixes[name] = uriPrefixEntry{IsURL: isURL, Value: value}
	return b
}

// Build constructs the Store at dimension dim, loading whatever paths were
// configured. A missing loadPath/metadataPath/extPath is not an error: the
// corresponding side table simply starts empty.
func Build[T VectorElem](b *Builder, dim int) (*Store[T], error) {
	s := WithCapacity[T](dim, b.capacity)
	s.uriPrefixes = b.uriPrefixes

	if b.loadPath != "" {
		if err := s.Load(b.loadPath); err != nil {
			if _, isNotFound := err.(*ErrPathNotFound); !isNotFound {
				return nil, err
			}
		}
	}
	if b.metadataPath != "" {
		if err := s.LoadMetadata(b.metadataPath); err != nil {
			if _, isNotFound := err.(*ErrPathNotFound); !isNotFound {
				return nil, err
			}
			s.metadataPath = b.metadataPath
		}
	}
	if b.extPath != "" {
		if err := s.LoadExt(b.extPath); err != nil {
			if _, isNotFound := err.(*ErrPathNotFound); !isNotFound {
				return nil, err
			}
			s.extPath = b.extPath
		}
	}
	return s, nil
}

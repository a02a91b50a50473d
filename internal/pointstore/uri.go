package pointstore

import (
	"strings"

	"github.com/google/uuid"
)

// GetPointURI resolves id's ext entry into a fetchable URI: if file_path
// starts with a registered prefix name (e.g. "s3://bucket/"), the prefix's
// configured value is substituted in front of the remainder; a prefix
// registered with isURL=false yields a local filesystem path instead of a
// URL. A file_path with no matching registered prefix is returned as-is.
func (s *Store[T]) GetPointURI(id uuid.UUID) (uri string, isURL bool, err error) {
	ext, ok := s.GetExt(id)
	if !ok {
		return "", false, &ErrPointNotFound{ID: id}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, entry := range s.uriPrefixes {
		prefix := name + "://"
		if strings.HasPrefix(ext.FilePath, prefix) {
			rest := strings.TrimPrefix(ext.FilePath, prefix)
			return entry.Value + rest, entry.IsURL, nil
		}
	}
	return ext.FilePath, false, nil
}

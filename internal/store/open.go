package store

import (
	"fmt"
	"io"
)

// Open returns the store for kind. path is the JSON file for KindFile and the
// database file for KindSQLite; it is ignored for KindMemory. The returned closer
// is never nil.
func Open(kind, path string) (Store, io.Closer, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(path), nopCloser{}, nil
	case KindSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case KindMemory:
		return NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

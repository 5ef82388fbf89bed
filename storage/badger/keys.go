package badger

import (
	"github.com/Sbeom12/graph-db-test/storage"
)

// Key prefixes for different data types
const (
	parseResultPrefix = "parseres"
)

// makeResultKey generates a key for a parse record by ID.
// Format: prefix:id (ID in BigEndian so lexicographic sort works)
func makeResultKey(id storage.ID) []byte {
	prefix := parseResultPrefix + ":"
	buf := make([]byte, 0, len(prefix)+8)
	buf = append(buf, prefix...)
	return append(buf, storage.MarshalID(id)...)
}

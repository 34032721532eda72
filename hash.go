package rundown

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxHash of data as 16 hex digits.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

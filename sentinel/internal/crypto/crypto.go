package crypto

import (
	"crypto/sha256"
	"fmt"
)

// ShortSHA returns a truncated hex-encoded SHA-256 sum of the given input,
// optionally salted. Token comparisons on the API server's auth filter go
// through this so raw tokens never linger in memory.
func ShortSHA(salt, input string) string {
	if salt != "" {
		input = fmt.Sprintf("%s:%s", salt, input)
	}
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", sum)[0:54]
}

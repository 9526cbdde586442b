package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds keys such as "artifact:gif:<hex>": the prefix names the
// kind of entry and the digest covers the JSON encoding of parts, so two
// renders share a key only when every input that shapes the bytes matches.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data. The file cache shards entries by
// its first two characters and the server derives ETags from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Package runid computes deterministic run batch identifiers.
package runid

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// idBytes is how much of the digest survives into the identifier.
// 12 bytes keeps IDs short enough for report tables while leaving
// collisions out of practical reach.
const idBytes = 12

// ForBatch computes a deterministic run ID using SHA256.
// Formula: SHA256(roster|mode|base_seed|total_runs), truncated and
// base58-encoded. Identical batch parameters always produce the same
// ID, so reruns of a FIXED or SESSION batch land on the same key.
func ForBatch(rosterName, mode string, baseSeed uint32, totalRuns int) string {
	data := fmt.Sprintf("%s|%s|%d|%d", rosterName, mode, baseSeed, totalRuns)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:idBytes])
}

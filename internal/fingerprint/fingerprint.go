// Package fingerprint computes a stable hash over a file's column schema
// (field names and dtypes), letting callers batching many files detect a
// schema change cheaply, without a full struct comparison.
package fingerprint

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of data.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

package store

import (
	"crypto/sha256"
	"strings"

	"github.com/vitaminmoo/hexpeek/internal/util"
)

const hashPrefix = "sha256:"

// ContentHash computes a content-addressable hash for inspected data.
// Only the loaded prefix is hashed, so two large files sharing their first
// max_preview_bytes collapse into one entry.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hashPrefix + util.ToHexCase(sum[:], false)
}

// ShortHash returns a shortened version of the hash for display purposes.
func ShortHash(fullHash string) string {
	// Remove "sha256:" prefix and take first 12 chars
	if len(fullHash) > len(hashPrefix)+12 {
		return fullHash[len(hashPrefix) : len(hashPrefix)+12]
	}
	return fullHash
}

// bareHash strips the algorithm prefix.
func bareHash(hash string) string {
	return strings.TrimPrefix(hash, hashPrefix)
}

// Package hashing derives the opaque identifier hashes stored in the
// submission audit trail. Raw client identifiers (network addresses) are never
// persisted; only their digest is, which is all the forensics read side needs.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Identifier returns the hex SHA-256 digest of a client identifier.
// Input is lowercased and trimmed first so "1.2.3.4 " and "1.2.3.4" collapse
// to the same counter key.
func Identifier(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	sum := sha256.Sum256([]byte(normalized))

	return hex.EncodeToString(sum[:])
}

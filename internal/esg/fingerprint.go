package esg

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintBytes truncates the sha256 digest; 16 bytes (32 hex chars) is
// plenty for per-run dedup while keeping hashes readable in logs.
const fingerprintBytes = 16

// NormalizeText lowercases text and collapses all whitespace runs to single
// spaces, so the same content fetched through different channels produces
// the same fingerprint.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Fingerprint returns the truncated sha256 hex digest of the normalized
// text. Used as EvidenceItem.ContentHash and for quote dedup.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(NormalizeText(s)))

	return hex.EncodeToString(sum[:fingerprintBytes])
}

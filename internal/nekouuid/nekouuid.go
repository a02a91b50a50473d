// Package nekouuid derives deterministic, content-addressed UUIDs for
// images ingested into the dedup pipeline.
package nekouuid

import (
	"crypto/sha1" //nolint:gosec // content-addressing, not a security boundary
	"encoding/hex"

	"github.com/google/uuid"
)

// appNamespace is the v5 UUID computed once from the pipeline's fixed DNS
// namespace string. It is process-wide: every Generate call derives from it.
var appNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("github.com/hv0905/NekoImageGallery"))

// Generate derives a stable v5 UUID from raw file bytes: v5(appNamespace,
// hex(sha1(data))). Identical input bytes always yield the same UUID,
// independent of platform or process.
func Generate(data []byte) uuid.UUID {
	digest := sha1.Sum(data) //nolint:gosec
	return GenerateFromSHA1(digest)
}

// GenerateFromSHA1 derives the UUID from a precomputed 20-byte SHA-1 digest,
// for callers that already hashed the content (e.g. an object-store ETag).
func GenerateFromSHA1(digest [sha1.Size]byte) uuid.UUID {
	hexStr := hex.EncodeToString(digest[:])
	return uuid.NewSHA1(appNamespace, []byte(hexStr))
}

// New returns a random v4 UUID, used for synthetic points that have no
// stable content-address (e.g. GIF frame batches re-embedded mid-pipeline).
func New() uuid.UUID {
	return uuid.New()
}

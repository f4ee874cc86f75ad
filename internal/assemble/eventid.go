package assemble

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ContentID derives a stable event id for origins without a native one. The
// non-empty inputs are concatenated in the order given, with no separator,
// and hashed with SHA-1. Same inputs always give the same id; rows sharing
// all inputs collide, which is an accepted limitation of the source data.
func ContentID(parts ...*string) string {
	h := sha1.New()
	for _, p := range parts {
		if p != nil && *p != "" {
			h.Write([]byte(*p))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RevisionID derives an event id from a list-service revision tag: the
// segment before the first comma, with surrounding quote characters removed.
func RevisionID(tag string) string {
	segment, _, _ := strings.Cut(tag, ",")
	return strings.Trim(segment, `"'`)
}

package imagestage

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidReference = errors.New("invalid image reference")

// Stager moves an uploaded image to durable storage and returns the reference
// a banner row keeps for it.
type Stager interface {
	Stage(ctx context.Context, data []byte, ext string) (string, error)
	// Discard removes a staged image that never ended up referenced by a row.
	Discard(ctx context.Context, ref string) error
}

// NewReference returns a random file name carrying ext, e.g. "6f1c...e2.png".
func NewReference(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}

// ValidReference reports whether ref is a bare file name that cannot escape
// the staging root.
func ValidReference(ref string) bool {
	if ref == "" || ref == "." || ref == ".." {
		return false
	}
	return !strings.ContainsAny(ref, `/\`)
}

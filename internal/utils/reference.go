package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference builds a unique payment reference with a readable prefix,
// e.g. "ord_8f14e45fceea167a". Paystack requires references to be unique per
// integration.
func NewReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + id[:16]
}

package receipt

import (
	"strings"

	"github.com/google/uuid"
)

// ReferenceLength is the number of characters in a transaction reference.
const ReferenceLength = 12

// NewReference returns a 12 character uppercase alphanumeric reference taken
// from a random UUID.
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:ReferenceLength])
}

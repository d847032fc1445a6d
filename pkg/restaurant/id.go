package restaurant

import (
	"strings"

	"github.com/google/uuid"
)

var entityNamespace = uuid.MustParse("6f1d8e0a-3c2b-5e7f-9a41-0c8d2b7e5f13")

// EntityID derives a stable identifier from a canonical name and address so
// the same establishment gets the same ID across resolutions.
func EntityID(name, address string) string {
	key := name + "|" + strings.Join(strings.Fields(address), " ")
	return uuid.NewSHA1(entityNamespace, []byte(key)).String()
}

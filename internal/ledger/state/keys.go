package state

import (
	"fmt"
	"strings"
)

// compositeKeySep separates the namespace and attribute parts of a
// composite key. U+0000 cannot appear in entity ids or emails, so
// composite keys sort in their own region and never collide with the
// plain "user:"/"job:" primary keys.
const compositeKeySep = "\x00"

// CompositeKey encodes a (namespace, attributes...) tuple into a single
// store key that groups by namespace and sorts by attribute values.
// The handlers resolve index values by direct Get, so no decoder is
// provided.
func CompositeKey(objectType string, attrs ...string) (string, error) {
	if strings.Contains(objectType, compositeKeySep) {
		return "", fmt.Errorf("composite key: object type %q contains the separator", objectType)
	}
	var b strings.Builder
	b.WriteString(compositeKeySep)
	b.WriteString(objectType)
	b.WriteString(compositeKeySep)
	for _, attr := range attrs {
		if strings.Contains(attr, compositeKeySep) {
			return "", fmt.Errorf("composite key: attribute %q contains the separator", attr)
		}
		b.WriteString(attr)
		b.WriteString(compositeKeySep)
	}
	return b.String(), nil
}

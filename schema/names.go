package schema

import (
	"strconv"
	"strings"
	"unicode"
)

// FriendlyName maps a type name such as "geometry_msgs/Pose" to an
// identifier by replacing every rune that is not a letter, digit or
// underscore with an underscore.
func FriendlyName(typeName string) string {
	var b strings.Builder
	b.Grow(len(typeName) + 1)
	for i, r := range typeName {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// Identifiers assigns a distinct identifier to every type name in m.
// Names are visited in sorted order; when two names share a friendly
// name the later one gets a numeric suffix.
func Identifiers(m Map) map[string]string {
	ids := make(map[string]string, len(m))
	taken := make(map[string]bool, len(m))
	for _, name := range m.Names() {
		base := FriendlyName(name)
		id := base
		for n := 2; taken[id]; n++ {
			id = base + "_" + strconv.Itoa(n)
		}
		taken[id] = true
		ids[name] = id
	}
	return ids
}

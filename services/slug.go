package services

import (
	"strings"

	"github.com/google/uuid"
)

// Slugify derives a URL slug from a project name: lowercase, runs of
// non-alphanumeric characters collapse to a single hyphen, leading and
// trailing hyphens are trimmed. The same name always yields the same slug;
// a name with no usable characters yields "".
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lower))
	lastHyphen := false
	for _, r := range lower {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// SlugWithIDSuffix disambiguates a colliding slug on rename by appending the
// first six characters of the project's ID.
func SlugWithIDSuffix(slug string, id uuid.UUID) string {
	return slug + "-" + id.String()[:6]
}

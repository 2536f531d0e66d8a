package services

import "strings"

// slugPlaceholder is used when slugification consumes the whole input.
const slugPlaceholder = "section"

// Slugify converts arbitrary text to a lowercase, hyphen-delimited,
// URL-safe token. Runs of non-alphanumeric characters collapse to a
// single hyphen; leading and trailing hyphens are stripped. Text that
// slugifies to nothing becomes the "section" placeholder so that
// identifier candidates are never empty.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return slugPlaceholder
	}
	return b.String()
}

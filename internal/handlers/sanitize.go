package handlers

import "strings"

// maxNameLength bounds sanitized display names.
const maxNameLength = 20

// sanitizeName strips angle brackets and truncates to maxNameLength runes.
// Applied at the transport boundary; the game core only ever sees
// sanitized names.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '<' || r == '>' {
			continue
		}
		b.WriteRune(r)
	}
	runes := []rune(b.String())
	if len(runes) > maxNameLength {
		runes = runes[:maxNameLength]
	}
	return string(runes)
}

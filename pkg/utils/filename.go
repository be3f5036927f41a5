package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename strips any path components and replaces every character
// outside [A-Za-z0-9._-] with an underscore. Returns "" for names that
// sanitize away entirely (the caller picks a generated name instead).
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if strings.Trim(out, "._-") == "" {
		return ""
	}
	return out
}

package textutil

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxSafeNameLen caps encoded names; longer results fall back to the base name.
const maxSafeNameLen = 200

// fallbackName is used when even the base name is empty.
const fallbackName = "unknown_file"

// SafePathName converts a full source path into a single filesystem-safe
// file name. Letters, digits, dots, dashes, and underscores survive; every
// other rune becomes an underscore. Runs of underscores collapse to one and
// leading/trailing underscores are trimmed. When the result is empty or
// exceeds maxSafeNameLen, the source base name is used instead, with a fixed
// literal as the final fallback.
func SafePathName(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	lastUnderscore := false
	for _, r := range path {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	safe := strings.Trim(b.String(), "_")
	if safe == "" || len(safe) > maxSafeNameLen {
		safe = filepath.Base(path)
		if safe == "" || safe == "." || safe == string(filepath.Separator) {
			safe = fallbackName
		}
	}
	return safe
}

// SplitExt returns the name without its extension and the extension itself
// (including the leading dot). Used when appending collision suffixes so the
// counter lands before the extension.
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// MaxFileNameRunes bounds stored resume names, extension included.
const MaxFileNameRunes = 120

var ErrInvalidFileName = errors.New("invalid file name")

// CleanFileName turns a client supplied resume name into a single path segment.
// Separators become "_", control characters are dropped, and long names lose the
// tail of their stem so the extension survives. Traversal patterns are rejected.
func CleanFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", ErrInvalidFileName
	}

	runes := []rune(cleaned)
	if len(runes) <= MaxFileNameRunes {
		return cleaned, nil
	}
	ext := []rune(path.Ext(cleaned))
	if len(ext) >= MaxFileNameRunes/2 {
		ext = nil
	}
	stem := strings.TrimSpace(string(runes[:MaxFileNameRunes-len(ext)]))
	return stem + string(ext), nil
}

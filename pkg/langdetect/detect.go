// Package langdetect gates file discovery on language. It wraps go-enry's
// vendored/generated classification and language detection so the driver
// only rewrites files that really are the configured language, not files
// that merely share its extension.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// DefaultLanguage is the language rewritten unless configured otherwise.
const DefaultLanguage = "Rust"

// IsVendored reports whether path looks like third-party or build output:
// the linguist vendor list (vendor/, node_modules/, dist/ and friends)
// plus Cargo's target directory, which linguist does not track.
func IsVendored(path string) bool {
	slashed := filepath.ToSlash(path)
	if enry.IsVendor(slashed) {
		return true
	}
	return hasSegment(slashed, "target")
}

// IsGenerated reports whether the file looks machine-generated, by path
// or by content markers.
func IsGenerated(path string, content []byte) bool {
	return enry.IsGenerated(filepath.ToSlash(path), content)
}

// Detect returns the language enry assigns to the file, or "" when it
// cannot decide.
func Detect(path string, content []byte) string {
	return enry.GetLanguage(filepath.Base(path), content)
}

// Matches reports whether the file is the wanted language. Extensions
// linguist does not know pass through: the configured extension list
// already vouched for them. When the extension maps to several languages
// (.rs is both Rust and RenderScript), the content classifier breaks the
// tie; an undecided classifier passes the file through as well, since a
// file the engine cannot rewrite is left unchanged anyway.
func Matches(path string, content []byte, want string) bool {
	byExt := enry.GetLanguagesByExtension(filepath.Base(path), content, nil)
	switch len(byExt) {
	case 0:
		return true
	case 1:
		return strings.EqualFold(byExt[0], want)
	}

	candidate := false
	for _, lang := range byExt {
		if strings.EqualFold(lang, want) {
			candidate = true
			break
		}
	}
	if !candidate {
		return false
	}

	detected := Detect(path, content)
	return detected == "" || strings.EqualFold(detected, want)
}

func hasSegment(slashed, segment string) bool {
	for _, part := range strings.Split(slashed, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

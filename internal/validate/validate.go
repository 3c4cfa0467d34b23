// Package validate implements the content validator (C2): the rules that
// decide whether a raw string extracted from a game data file is worth
// translating at all.
package validate

import (
	"strings"
	"unicode"
)

var knownExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".wav", ".mp3", ".ogg", ".txt", ".json", ".dat",
}

// rpgMakerControlLetters is the set of control letters a backslash may
// introduce without the string being treated as a file path.
var rpgMakerControlLetters = map[byte]bool{'n': true, 'C': true, 'N': true}

// rpgMakerPunctuation is the full-width punctuation set that, standing
// alone with no letters or digits, marks a string as non-translatable.
const rpgMakerPunctuation = "？！。、：；…・〇○ｘ×"

// Universal reports whether content passes the engine-agnostic rules: it
// has visible content after trimming, and it does not look like a file
// path or asset reference.
func Universal(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	if !hasNonPunctuationContent(trimmed) {
		return false
	}
	if looksLikeFilePath(trimmed) {
		return false
	}
	return true
}

// hasNonPunctuationContent reports whether content has at least one rune
// that is not whitespace, ASCII/Unicode punctuation, or a placeholder
// token character.
func hasNonPunctuationContent(content string) bool {
	for _, r := range content {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		return true
	}
	return false
}

func looksLikeFilePath(content string) bool {
	if strings.Contains(content, "/") {
		return true
	}
	if strings.Contains(content, `\`) {
		if !containsOnlyKnownControlEscapes(content) {
			return true
		}
	}
	lower := strings.ToLower(content)
	for _, ext := range knownExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func containsOnlyKnownControlEscapes(content string) bool {
	for i := 0; i < len(content); i++ {
		if content[i] != '\\' {
			continue
		}
		if i+1 >= len(content) || !rpgMakerControlLetters[content[i+1]] {
			return false
		}
	}
	return true
}

// RpgMaker applies the universal rules plus RPG Maker's file-path and
// punctuation-only rejections.
func RpgMaker(content string) bool {
	if !Universal(content) {
		return false
	}
	if isPunctuationOnly(content) {
		return false
	}
	if strings.Contains(content, "/") {
		return false
	}
	if strings.Contains(content, `\`) && !containsOnlyKnownControlEscapes(content) {
		return false
	}
	return true
}

func isPunctuationOnly(content string) bool {
	hasLetterOrDigit := false
	hasPunct := false
	for _, r := range content {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			hasLetterOrDigit = true
		case unicode.IsPunct(r) || strings.ContainsRune(rpgMakerPunctuation, r):
			hasPunct = true
		}
	}
	return !hasLetterOrDigit && hasPunct
}

// WolfRPG applies the universal rules plus Wolf RPG's case-insensitive
// extension rejection.
func WolfRPG(content string) bool {
	if !Universal(content) {
		return false
	}
	lower := strings.ToLower(content)
	for _, ext := range knownExtensions {
		if strings.Contains(lower, ext) {
			return false
		}
	}
	return true
}

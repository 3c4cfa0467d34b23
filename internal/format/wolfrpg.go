package format

import (
	"regexp"
	"strings"
)

// wolfDigitsPattern extracts the numeric argument out of a matched escape
// or placeholder once wolfPrepare/wolfRestore have identified which code it
// is.
var wolfDigitsPattern = regexp.MustCompile(`\d+`)

// wolfCodePattern matches every Wolf RPG Editor control code spec §4.1
// lists. \cself[n] is checked ahead of \c[n] so the two-character prefix
// never gets a chance to be mistaken for the shorter code — though since
// \c[n] needs '[' right after the 'c', it can never match at the start of
// \cself[n], so this order is documentation, not a correctness
// requirement. \r and \n here (single backslash within the pattern) match
// the literal CR/LF control bytes, not the two-character \r escape, which
// is why it is listed separately as the literal two-character sequence
// `\r`. Both must be consumed here, before the universal layer's own
// CR/newline handling runs, or \n (the byte) would be indistinguishable
// from the two-byte `\r` escape once both passes are done.
var wolfCodePattern = regexp.MustCompile(
	`\\cself\[\d+\]|\\E|\\i\[\d+\]|\\f\[\d+\]|\\s\[\d+\]|\\c\[\d+\]|\\C\[\d+\]|\\r|@\d+|\r|\n`)

var wolfPlaceholderPattern = regexp.MustCompile(
	`\[CSELF_\d+\]|\[ICON_\d+\]|\[FONT_\d+\]|\[SLOT_\d+\]|\[COLOR_LOWER_\d+\]|\[COLOR_UPPER_\d+\]|` +
		`\[AT_\d+\]|\[WOLF_END\]|\[RUBY_START\]|\[CARRIAGE_RETURN\]|\[NEWLINE\]`)

// WolfRPG is the Formatter for Wolf RPG Editor dump text.
type WolfRPG struct{}

// NewWolfRPG constructs the Wolf RPG formatter.
func NewWolfRPG() WolfRPG { return WolfRPG{} }

func (WolfRPG) Prepare(raw string) string {
	return universalPrepare(wolfPrepare(raw))
}

func (WolfRPG) Restore(prepared string) string {
	return wolfRestore(universalRestore(prepared))
}

func (WolfRPG) HasFormattingCodes(raw string) bool {
	return wolfCodePattern.MatchString(raw) || hasUniversalCandidate(raw)
}

func (WolfRPG) HasPlaceholderCodes(prepared string) bool {
	return wolfPlaceholderPattern.MatchString(prepared) || hasUniversalPlaceholder(prepared)
}

func wolfPrepare(s string) string {
	if !wolfCodePattern.MatchString(s) {
		return s
	}
	return wolfCodePattern.ReplaceAllStringFunc(s, func(m string) string {
		switch {
		case m == "\\E":
			return "[WOLF_END]"
		case m == "\\r":
			return "[RUBY_START]"
		case m == "\r":
			return "[CARRIAGE_RETURN]"
		case m == "\n":
			return "[NEWLINE]"
		case strings.HasPrefix(m, `\cself[`):
			return "[CSELF_" + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, `\i[`):
			return "[ICON_" + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, `\f[`):
			return "[FONT_" + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, `\s[`):
			return "[SLOT_" + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, `\c[`):
			return "[COLOR_LOWER_" + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, `\C[`):
			return "[COLOR_UPPER_" + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "@"):
			return "[AT_" + wolfDigitsPattern.FindString(m) + "]"
		}
		return m
	})
}

func wolfRestore(s string) string {
	if !wolfPlaceholderPattern.MatchString(s) {
		return s
	}
	return wolfPlaceholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		switch {
		case m == "[WOLF_END]":
			return `\E`
		case m == "[RUBY_START]":
			return `\r`
		case m == "[CARRIAGE_RETURN]":
			return "\r"
		case m == "[NEWLINE]":
			return "\n"
		case strings.HasPrefix(m, "[CSELF_"):
			return `\cself[` + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "[ICON_"):
			return `\i[` + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "[FONT_"):
			return `\f[` + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "[SLOT_"):
			return `\s[` + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "[COLOR_LOWER_"):
			return `\c[` + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "[COLOR_UPPER_"):
			return `\C[` + wolfDigitsPattern.FindString(m) + "]"
		case strings.HasPrefix(m, "[AT_"):
			return "@" + wolfDigitsPattern.FindString(m)
		}
		return m
	})
}

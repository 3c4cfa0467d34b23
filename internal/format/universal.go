package format

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// fullwidthSpace is U+3000 IDEOGRAPHIC SPACE. It lives in the CJK Symbols
// and Punctuation block, not the Halfwidth/Fullwidth Forms block that
// golang.org/x/text/width classifies, so it gets an explicit rune check
// rather than a width.Kind lookup.
const fullwidthSpace = '　'

var (
	fwspcRunPattern  = regexp.MustCompile(`\x{3000}+`)
	paramPattern     = regexp.MustCompile(`[%％][0-9]+`)
	placeholderFwspc = regexp.MustCompile(`\[FWSPC_(\d+)\]`)
	placeholderParam = regexp.MustCompile(`\[PARAM_(\d+)\]`)
)

// universalPrepare applies the engine-agnostic transforms documented in
// spec §4.1, in order: quote normalization, full-width space run encoding,
// tab/CR/newline encoding, numeric-parameter placeholder encoding.
func universalPrepare(s string) string {
	if !hasUniversalCandidate(s) {
		return s
	}

	s = strings.ReplaceAll(s, "「", "\"")
	s = strings.ReplaceAll(s, "」", "\"")

	s = fwspcRunPattern.ReplaceAllStringFunc(s, func(run string) string {
		n := len([]rune(run))
		return "[FWSPC_" + strconv.Itoa(n) + "]"
	})

	s = strings.ReplaceAll(s, "\t", "[TAB]")
	s = strings.ReplaceAll(s, "\r", "[CR]")
	s = strings.ReplaceAll(s, "\n", "[CTRL_NEWLINE]")

	// ％ (fullwidth percent) is folded to ASCII for matching, but both
	// forms land on the same [PARAM_n] token: the fullwidth→ASCII fold here
	// is a deliberate normalization, same spirit as the quote normalization
	// above, and restore always emits the ASCII form.
	s = paramPattern.ReplaceAllStringFunc(s, func(m string) string {
		digits := strings.TrimLeftFunc(m, func(r rune) bool {
			return r == '%' || r == '％'
		})
		return "[PARAM_" + digits + "]"
	})

	return s
}

// universalRestore is the strict inverse of universalPrepare, except the
// quote normalization: a translator may replace 「」 with ASCII quotes, so
// there is no placeholder to invert and the corner-bracket form is lost.
func universalRestore(s string) string {
	if !hasUniversalPlaceholder(s) {
		return s
	}

	s = placeholderFwspc.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholderFwspc.FindStringSubmatch(m)
		n, _ := strconv.Atoi(sub[1])
		return strings.Repeat(string(fullwidthSpace), n)
	})

	s = strings.ReplaceAll(s, "[TAB]", "\t")
	s = strings.ReplaceAll(s, "[CR]", "\r")
	s = strings.ReplaceAll(s, "[CTRL_NEWLINE]", "\n")

	s = placeholderParam.ReplaceAllString(s, "%$1")

	return s
}

// hasUniversalCandidate is the cheap byte-scan fast path for prepare. The
// width.Kind check backs up the explicit rune list for any other
// EastAsianFullwidth digit-adjacent form a future engine might introduce.
func hasUniversalCandidate(s string) bool {
	for _, r := range s {
		switch r {
		case '「', '」', fullwidthSpace, '\t', '\r', '\n', '%', '％':
			return true
		}
		if width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			return true
		}
	}
	return false
}

// hasUniversalPlaceholder is the cheap byte-scan fast path for restore.
func hasUniversalPlaceholder(s string) bool {
	return strings.Contains(s, "[FWSPC_") ||
		strings.Contains(s, "[TAB]") ||
		strings.Contains(s, "[CR]") ||
		strings.Contains(s, "[CTRL_NEWLINE]") ||
		strings.Contains(s, "[PARAM_")
}

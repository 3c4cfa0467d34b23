package format

import (
	"regexp"
	"strings"
)

// rpgMakerControlNames maps the control letter of a bracketed \X[n] escape
// to the CTRL_ token name spec §4.1 assigns it.
var rpgMakerControlNames = map[string]string{
	"C": "COLOR",
	"N": "NAME",
	"V": "VAR",
	"I": "ICON",
	"P": "PARTY",
}

var rpgMakerControlLettersByName = invertStringMap(rpgMakerControlNames)

// rpgMakerSimpleCodes maps each no-argument escape's literal character to
// its CTRL_ token name.
var rpgMakerSimpleCodes = map[string]string{
	"G":  "GOLD",
	"{":  "BIG",
	"}":  "SMALL",
	".":  "WAIT",
	"|":  "WAITINPUT",
	"!":  "NOWAIT",
	">":  "FAST",
	"<":  "SLOW",
	"^":  "CARET",
	"\\": "BS",
}

var rpgMakerSimpleCodesByName = invertStringMap(rpgMakerSimpleCodes)

// rpgMakerCodePattern matches every RPG Maker control code spec §4.1 lists:
// the bracketed \C[n], \N[n], \V[n], \I[n], \P[n], and the no-argument
// escapes \G \{ \} \. \| \! \> \< \^ \\. Only the exact uppercase letter is
// recognized for the bracketed codes — a case-insensitive match would make
// restore ambiguous between \c[1] and \C[1], breaking the byte-exact
// round-trip.
var rpgMakerCodePattern = regexp.MustCompile(`\\([CNVIP])\[(\d+)\]|\\(G|\{|\}|\.|\||!|>|<|\^|\\)`)

// rpgMakerPlaceholderPattern matches every placeholder rpgMakerPrepare can
// produce, for the restore direction and the cheap placeholder fast-path.
var rpgMakerPlaceholderPattern = regexp.MustCompile(
	`\[CTRL_(COLOR|NAME|VAR|ICON|PARTY)_(\d+)\]` +
		`|\[CTRL_(GOLD|BIG|SMALL|WAITINPUT|WAIT|NOWAIT|FAST|SLOW|CARET|BS)\]`)

// RpgMaker is the Formatter for RPG Maker MV/MZ text, composing the
// engine-specific control-code layer with the universal layer.
type RpgMaker struct{}

// NewRpgMaker constructs the RPG Maker formatter.
func NewRpgMaker() RpgMaker { return RpgMaker{} }

func (RpgMaker) Prepare(raw string) string {
	return universalPrepare(rpgMakerPrepare(raw))
}

func (RpgMaker) Restore(prepared string) string {
	return rpgMakerRestore(universalRestore(prepared))
}

func (f RpgMaker) HasFormattingCodes(raw string) bool {
	return rpgMakerCodePattern.MatchString(raw) || hasUniversalCandidate(raw)
}

func (f RpgMaker) HasPlaceholderCodes(prepared string) bool {
	return rpgMakerPlaceholderPattern.MatchString(prepared) || hasUniversalPlaceholder(prepared)
}

func rpgMakerPrepare(s string) string {
	if !rpgMakerCodePattern.MatchString(s) {
		return s
	}
	return rpgMakerCodePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := rpgMakerCodePattern.FindStringSubmatch(m)
		if sub[1] != "" {
			return "[CTRL_" + rpgMakerControlNames[sub[1]] + "_" + sub[2] + "]"
		}
		return "[CTRL_" + rpgMakerSimpleCodes[sub[3]] + "]"
	})
}

func rpgMakerRestore(s string) string {
	if !rpgMakerPlaceholderPattern.MatchString(s) {
		return s
	}
	return rpgMakerPlaceholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := rpgMakerPlaceholderPattern.FindStringSubmatch(m)
		if sub[1] != "" {
			return "\\" + rpgMakerControlLettersByName[sub[1]] + "[" + sub[2] + "]"
		}
		return "\\" + rpgMakerSimpleCodesByName[sub[3]]
	})
}

// stripRpgMakerCodes removes control codes entirely and trims surrounding
// whitespace from what is left.
func stripRpgMakerCodes(s string) string {
	return strings.TrimSpace(rpgMakerCodePattern.ReplaceAllString(s, ""))
}

// invertStringMap swaps keys and values, used to derive a restore-direction
// lookup table from a prepare-direction one.
func invertStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

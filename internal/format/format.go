// Package format implements the bidirectional escape↔placeholder text
// transform (C1): raw in-game text with embedded engine control codes and
// full-width whitespace on one side, a placeholder form safe to hand to a
// translation model on the other.
//
// Every engine formatter composes the universal layer with an
// engine-specific layer. Prepare runs the engine-specific pass first, then
// the universal pass on top of it; Restore undoes the universal pass first,
// then the engine-specific pass — the mirror image of prepare. Running the
// passes in the other order would let the universal pass's whitespace and
// quote normalization clobber characters the engine-specific pass still
// needs to see raw (and vice versa on restore).
package format

// Formatter is the shared contract for RPG Maker and Wolf RPG text
// transforms.
type Formatter interface {
	// Prepare turns raw in-game text into its placeholder-encoded form.
	Prepare(raw string) string
	// Restore turns a (possibly translated) placeholder-encoded string back
	// into raw in-game text.
	Restore(prepared string) string
	// HasFormattingCodes reports whether raw contains any byte this
	// formatter would transform. Used as a cheap prepare fast-path.
	HasFormattingCodes(raw string) bool
	// HasPlaceholderCodes reports whether prepared contains any bracketed
	// placeholder this formatter would invert. Used as a cheap restore
	// fast-path.
	HasPlaceholderCodes(prepared string) bool
}

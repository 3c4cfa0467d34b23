// Package model holds the data shapes shared by every parser, the engine
// handlers, the orchestrators, and the session manager.
package model

import "strings"

// Status is the translation lifecycle state of a TextUnit.
type Status string

const (
	StatusNotTranslated Status = "NotTranslated"
	StatusTranslated    Status = "Translated"
	StatusIgnored       Status = "Ignored"
	StatusInProgress    Status = "InProgress"
)

// TextType drives glossary category filtering (see glossary.CategoryFor).
type TextType string

const (
	TextCharacter TextType = "Character"
	TextDialogue  TextType = "Dialogue"
	TextItem      TextType = "Item"
	TextSkill     TextType = "Skill"
	TextSystem    TextType = "System"
	TextOther     TextType = "Other"
)

// TextUnit is the invariant record shape extracted from a game data file.
//
// id is derived entirely from location: id == LocationToID(location). The
// inverse, IDToLocation, recovers the colon-delimited form for RPG Maker
// locations; wolf_json locations are already unique and pass through
// LocationToID unchanged (see IsWolfLocation).
type TextUnit struct {
	ID             string   `json:"id"`
	Location       string   `json:"location"`
	SourceText     string   `json:"source_text"`
	TranslatedText string   `json:"translated_text"`
	FieldType      string   `json:"field_type"`
	Status         Status   `json:"status"`
	TextType       TextType `json:"text_type"`
	EntryType      string   `json:"entry_type"`
	FilePath       string   `json:"file_path"`
}

// Translation is the minimal shape injection consumes: an id and the text to
// write back, if any.
type Translation struct {
	ID             string `json:"id"`
	TranslatedText string `json:"translated_text"`
}

// LocationToID applies the documented bijection: id = location.replace(':', '_').
// Wolf RPG locations (see IsWolfLocation) are returned unchanged.
func LocationToID(location string) string {
	if IsWolfLocation(location) {
		return location
	}
	return strings.ReplaceAll(location, ":", "_")
}

// IsWolfLocation reports whether location is a Wolf RPG wolf_json location,
// which is already globally unique and passes through LocationToID
// unchanged rather than needing the colon bijection inverted.
func IsWolfLocation(location string) bool {
	return strings.HasPrefix(location, "wolf_json:")
}

// IDToLocation recovers the colon-delimited location from an id produced by
// LocationToID. It is only meaningful for RPG Maker locations: Wolf RPG
// locations use '#' as their internal separator and never contain the
// underscores LocationToID introduces, so they pass through unchanged.
func IDToLocation(id string) string {
	if IsWolfLocation(id) {
		return id
	}
	return rpgMakerCompoundSegments.Replace(strings.ReplaceAll(id, "_", ":"))
}

// rpgMakerCompoundSegments restores the RPG Maker location segments that
// themselves contain an underscore, which the blanket '_' → ':' replacement
// in IDToLocation splits apart.
var rpgMakerCompoundSegments = strings.NewReplacer(
	"map:info:", "map_info:",
	"system:game:title", "system:game_title",
	"system:currency:unit", "system:currency_unit",
)

// NewTextUnit builds a TextUnit with ID derived from location per the
// documented bijection.
func NewTextUnit(location, sourceText string, textType TextType, fieldType, entryType, filePath string) TextUnit {
	return TextUnit{
		ID:         LocationToID(location),
		Location:   location,
		SourceText: sourceText,
		Status:     StatusNotTranslated,
		TextType:   textType,
		FieldType:  fieldType,
		EntryType:  entryType,
		FilePath:   filePath,
	}
}

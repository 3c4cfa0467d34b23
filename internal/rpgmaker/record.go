// Package rpgmaker implements the RPG Maker MV/MZ data-file parsers (C3,
// C4): flat actor/item/etc. records, System.json, and the map/event walker.
package rpgmaker

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
	"game-localizer/internal/validate"
)

// record is a single entry of a flat-record file (Actors.json, Items.json,
// etc). Known string fields are decoded into Fields for inspection; every
// member of the JSON object, known or not, is also kept in raw so injection
// can re-serialize the object byte-faithfully except for the fields it
// actually rewrites.
type record struct {
	id  int
	raw map[string]json.RawMessage
}

// decodeRecords parses a flat-record JSON array. Index 0 is always null and
// is preserved as a nil entry so re-serialization keeps array length and
// position intact.
func decodeRecords(data []byte) ([]*record, error) {
	var rawArray []json.RawMessage
	if err := json.Unmarshal(data, &rawArray); err != nil {
		return nil, fmt.Errorf("rpgmaker: decode record array: %w", err)
	}
	records := make([]*record, len(rawArray))
	for i, item := range rawArray {
		if string(item) == "null" {
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, fmt.Errorf("rpgmaker: decode record %d: %w", i, err)
		}
		id := 0
		if idRaw, ok := obj["id"]; ok {
			_ = json.Unmarshal(idRaw, &id)
		}
		records[i] = &record{id: id, raw: obj}
	}
	return records, nil
}

func encodeRecords(records []*record) ([]byte, error) {
	rawArray := make([]json.RawMessage, len(records))
	for i, r := range records {
		if r == nil {
			rawArray[i] = json.RawMessage("null")
			continue
		}
		encoded, err := json.Marshal(r.raw)
		if err != nil {
			return nil, fmt.Errorf("rpgmaker: encode record %d: %w", i, err)
		}
		rawArray[i] = encoded
	}
	return json.MarshalIndent(rawArray, "", "  ")
}

// stringField reads a string-typed member, returning "" if absent or not a
// string.
func (r *record) stringField(name string) string {
	raw, ok := r.raw[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// setStringField overwrites a string-typed member in place.
func (r *record) setStringField(name, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.raw[name] = encoded
	return nil
}

// fieldSpec names one translatable field on a flat-record kind.
type fieldSpec struct {
	name     string
	textType model.TextType
}

// extractFlatFile extracts TextUnits from every record in a flat-record
// file, using the engine's RPG Maker formatter and validator.
func extractFlatFile(kind, filePath string, data []byte, fields []fieldSpec, f format.Formatter) ([]model.TextUnit, error) {
	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	var units []model.TextUnit
	for _, r := range records {
		if r == nil || r.id == 0 {
			continue
		}
		for _, spec := range fields {
			raw := r.stringField(spec.name)
			if !validate.RpgMaker(raw) {
				continue
			}
			location := fmt.Sprintf("%s:%d:%s", kind, r.id, spec.name)
			unit := model.NewTextUnit(location, f.Prepare(raw), spec.textType, spec.name, kind, filePath)
			units = append(units, unit)
		}
	}
	return units, nil
}

// injectFlatFile writes translations back into a flat-record file. byID
// maps a TextUnit id to its translated text; entries absent from the map,
// or with empty translated text, are left untouched.
func injectFlatFile(filePath string, data []byte, fields []fieldSpec, f format.Formatter, byID map[string]string) ([]byte, error) {
	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	kind := fileKindFromPath(filePath)
	for _, r := range records {
		if r == nil || r.id == 0 {
			continue
		}
		for _, spec := range fields {
			location := fmt.Sprintf("%s:%d:%s", kind, r.id, spec.name)
			id := model.LocationToID(location)
			translated, ok := byID[id]
			if !ok || translated == "" {
				continue
			}
			if err := r.setStringField(spec.name, f.Restore(translated)); err != nil {
				return nil, fmt.Errorf("rpgmaker: set field %s on record %d: %w", spec.name, r.id, err)
			}
		}
	}
	return encodeRecords(records)
}

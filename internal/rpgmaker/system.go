package rpgmaker

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
	"game-localizer/internal/validate"
)

// systemArrayFields are the 0-indexed, null-slot-at-0 array fields System.json
// carries: system:<field>:<i> for i>=1.
var systemArrayFields = []string{"armorTypes", "elements", "equipTypes", "skillTypes", "weaponTypes"}

type systemDoc struct {
	raw map[string]json.RawMessage
}

func decodeSystem(data []byte) (*systemDoc, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rpgmaker: decode System.json: %w", err)
	}
	return &systemDoc{raw: raw}, nil
}

func encodeSystem(doc *systemDoc) ([]byte, error) {
	return json.MarshalIndent(doc.raw, "", "  ")
}

// ExtractSystem extracts TextUnits from System.json per §4.5: flat fields,
// 0-indexed array fields, and nested terms.
func ExtractSystem(filePath string, data []byte) ([]model.TextUnit, error) {
	doc, err := decodeSystem(data)
	if err != nil {
		return nil, err
	}
	f := format.NewRpgMaker()
	var units []model.TextUnit

	emit := func(location, raw string) {
		if !validate.RpgMaker(raw) {
			return
		}
		units = append(units, model.NewTextUnit(location, f.Prepare(raw), model.TextSystem, location, "system", filePath))
	}

	if v, ok := readString(doc.raw, "gameTitle"); ok {
		emit("system:game_title", v)
	}
	if v, ok := readString(doc.raw, "currencyUnit"); ok {
		emit("system:currency_unit", v)
	}

	for _, field := range systemArrayFields {
		arr, ok := readStringArray(doc.raw, field)
		if !ok {
			continue
		}
		for i, v := range arr {
			if i == 0 {
				continue
			}
			emit(fmt.Sprintf("system:%s:%d", field, i), v)
		}
	}

	var terms struct {
		Basic    []string          `json:"basic"`
		Commands []*string         `json:"commands"`
		Params   []string          `json:"params"`
		Messages map[string]string `json:"messages"`
	}
	if raw, ok := doc.raw["terms"]; ok {
		if err := json.Unmarshal(raw, &terms); err == nil {
			for i, v := range terms.Basic {
				emit(fmt.Sprintf("system:terms:basic:%d", i), v)
			}
			for i, v := range terms.Commands {
				if v == nil {
					continue
				}
				emit(fmt.Sprintf("system:terms:command:%d", i), *v)
			}
			for i, v := range terms.Params {
				emit(fmt.Sprintf("system:terms:param:%d", i), v)
			}
			for key, v := range terms.Messages {
				emit(fmt.Sprintf("system:terms:message:%s", key), v)
			}
		}
	}

	return units, nil
}

// InjectSystem writes translations back into System.json.
func InjectSystem(filePath string, data []byte, byID map[string]string) ([]byte, error) {
	doc, err := decodeSystem(data)
	if err != nil {
		return nil, err
	}
	f := format.NewRpgMaker()

	lookup := func(location string) (string, bool) {
		t, ok := byID[model.LocationToID(location)]
		if !ok || t == "" {
			return "", false
		}
		return f.Restore(t), true
	}

	if v, ok := lookup("system:game_title"); ok {
		writeString(doc.raw, "gameTitle", v)
	}
	if v, ok := lookup("system:currency_unit"); ok {
		writeString(doc.raw, "currencyUnit", v)
	}

	for _, field := range systemArrayFields {
		arr, ok := readStringArray(doc.raw, field)
		if !ok {
			continue
		}
		changed := false
		for i := range arr {
			if i == 0 {
				continue
			}
			if v, ok := lookup(fmt.Sprintf("system:%s:%d", field, i)); ok {
				arr[i] = v
				changed = true
			}
		}
		if changed {
			writeStringArray(doc.raw, field, arr)
		}
	}

	if raw, ok := doc.raw["terms"]; ok {
		var termsRaw map[string]json.RawMessage
		if err := json.Unmarshal(raw, &termsRaw); err == nil {
			injectTermsBasicOrParams(termsRaw, "basic", "basic", lookup)
			injectTermsBasicOrParams(termsRaw, "params", "param", lookup)
			injectTermsCommands(termsRaw, lookup)
			injectTermsMessages(termsRaw, lookup)
			encoded, err := json.Marshal(termsRaw)
			if err == nil {
				doc.raw["terms"] = encoded
			}
		}
	}

	return encodeSystem(doc)
}

func injectTermsBasicOrParams(termsRaw map[string]json.RawMessage, key, locKind string, lookup func(string) (string, bool)) {
	arr, ok := readStringArray(termsRaw, key)
	if !ok {
		return
	}
	changed := false
	for i := range arr {
		if v, ok := lookup(fmt.Sprintf("system:terms:%s:%d", locKind, i)); ok {
			arr[i] = v
			changed = true
		}
	}
	if changed {
		writeStringArray(termsRaw, key, arr)
	}
}

func injectTermsCommands(termsRaw map[string]json.RawMessage, lookup func(string) (string, bool)) {
	raw, ok := termsRaw["commands"]
	if !ok {
		return
	}
	var commands []*string
	if err := json.Unmarshal(raw, &commands); err != nil {
		return
	}
	changed := false
	for i, v := range commands {
		if v == nil {
			continue
		}
		if t, ok := lookup(fmt.Sprintf("system:terms:command:%d", i)); ok {
			commands[i] = &t
			changed = true
		}
	}
	if changed {
		encoded, err := json.Marshal(commands)
		if err == nil {
			termsRaw["commands"] = encoded
		}
	}
}

func injectTermsMessages(termsRaw map[string]json.RawMessage, lookup func(string) (string, bool)) {
	raw, ok := termsRaw["messages"]
	if !ok {
		return
	}
	var messages map[string]string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return
	}
	changed := false
	for key := range messages {
		if t, ok := lookup(fmt.Sprintf("system:terms:message:%s", key)); ok {
			messages[key] = t
			changed = true
		}
	}
	if changed {
		encoded, err := json.Marshal(messages)
		if err == nil {
			termsRaw["messages"] = encoded
		}
	}
}

func readString(m map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func writeString(m map[string]json.RawMessage, key, value string) {
	encoded, err := json.Marshal(value)
	if err == nil {
		m[key] = encoded
	}
}

func readStringArray(m map[string]json.RawMessage, key string) ([]string, bool) {
	raw, ok := m[key]
	if !ok {
		return nil, false
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func writeStringArray(m map[string]json.RawMessage, key string, arr []string) {
	encoded, err := json.Marshal(arr)
	if err == nil {
		m[key] = encoded
	}
}

package wolfrpg

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
	"game-localizer/internal/validate"
)

// databaseType is one entry of DataBase.json's "types" array: a type name
// plus a list of data entries, each a list of named fields. Fields whose
// value isn't a string, or whose subtree doesn't match this shape, are
// skipped defensively rather than failing the whole file — Wolf project
// dumps vary in how consistently they populate field names across types.
type databaseType struct {
	TypeName string            `json:"typeName"`
	Data     []json.RawMessage `json:"data"`
}

type databaseRecord struct {
	DataName string          `json:"dataName"`
	Fields   []databaseField `json:"fields"`
}

type databaseField struct {
	FieldName string          `json:"fieldName"`
	Value     json.RawMessage `json:"value"`
}

// ExtractDataBase extracts TextUnits from dump/db/DataBase.json. It walks
// only the documented types[].data[].fields[] shape; any type or record
// that does not match is skipped rather than aborting extraction.
func ExtractDataBase(relPath string, data []byte) ([]model.TextUnit, error) {
	var doc struct {
		Types []json.RawMessage `json:"types"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode DataBase.json %s: %w", relPath, err)
	}
	f := format.NewWolfRPG()
	var units []model.TextUnit
	for t, typeRaw := range doc.Types {
		var typ databaseType
		if err := json.Unmarshal(typeRaw, &typ); err != nil {
			continue // type does not match the shape, skip defensively
		}
		for d, recRaw := range typ.Data {
			var rec databaseRecord
			if err := json.Unmarshal(recRaw, &rec); err != nil {
				continue // record does not match the shape, skip defensively
			}
			for fi, field := range rec.Fields {
				var s string
				if err := json.Unmarshal(field.Value, &s); err != nil {
					continue // not a string field, skip defensively
				}
				if !validate.WolfRPG(s) {
					continue
				}
				pointer := fmt.Sprintf("types[%d].data[%d].fields[%d]", t, d, fi)
				location := fmt.Sprintf("wolf_json:%s#%s", relPath, pointer)
				units = append(units, model.NewTextUnit(location, f.Prepare(s), model.TextOther, field.FieldName, "wolf_database", relPath))
			}
		}
	}
	return units, nil
}

// InjectDataBase writes translations back into dump/db/DataBase.json,
// locating each slot by its pointer.
func InjectDataBase(relPath string, data []byte, byID map[string]string) ([]byte, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode DataBase.json %s: %w", relPath, err)
	}
	typesRaw, ok := root["types"]
	if !ok {
		return data, nil
	}
	var rawTypes []json.RawMessage
	if err := json.Unmarshal(typesRaw, &rawTypes); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode types array: %w", err)
	}
	f := format.NewWolfRPG()
	anyChanged := false

	for t, typeItem := range rawTypes {
		var typeMap map[string]json.RawMessage
		if err := json.Unmarshal(typeItem, &typeMap); err != nil {
			continue
		}
		dataRaw, ok := typeMap["data"]
		if !ok {
			continue
		}
		var rawData []json.RawMessage
		if err := json.Unmarshal(dataRaw, &rawData); err != nil {
			continue
		}
		dataChanged := false
		for d, recItem := range rawData {
			var recMap map[string]json.RawMessage
			if err := json.Unmarshal(recItem, &recMap); err != nil {
				continue
			}
			fieldsRaw, ok := recMap["fields"]
			if !ok {
				continue
			}
			var rawFields []json.RawMessage
			if err := json.Unmarshal(fieldsRaw, &rawFields); err != nil {
				continue
			}
			fieldsChanged := false
			for fi, fieldItem := range rawFields {
				var fieldMap map[string]json.RawMessage
				if err := json.Unmarshal(fieldItem, &fieldMap); err != nil {
					continue
				}
				pointer := fmt.Sprintf("types[%d].data[%d].fields[%d]", t, d, fi)
				location := fmt.Sprintf("wolf_json:%s#%s", relPath, pointer)
				trans, ok := byID[model.LocationToID(location)]
				if !ok || trans == "" {
					continue
				}
				encoded, err := json.Marshal(f.Restore(trans))
				if err != nil {
					continue
				}
				fieldMap["value"] = encoded
				reencoded, err := json.Marshal(fieldMap)
				if err != nil {
					continue
				}
				rawFields[fi] = reencoded
				fieldsChanged = true
			}
			if fieldsChanged {
				encoded, err := json.Marshal(rawFields)
				if err != nil {
					continue
				}
				recMap["fields"] = encoded
				reencoded, err := json.Marshal(recMap)
				if err != nil {
					continue
				}
				rawData[d] = reencoded
				dataChanged = true
			}
		}
		if dataChanged {
			encoded, err := json.Marshal(rawData)
			if err != nil {
				continue
			}
			typeMap["data"] = encoded
			reencoded, err := json.Marshal(typeMap)
			if err != nil {
				continue
			}
			rawTypes[t] = reencoded
			anyChanged = true
		}
	}

	if !anyChanged {
		return data, nil
	}
	encoded, err := json.Marshal(rawTypes)
	if err != nil {
		return nil, err
	}
	root["types"] = encoded
	return json.MarshalIndent(root, "", "  ")
}

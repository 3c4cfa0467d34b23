package rpgmaker

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
	"game-localizer/internal/validate"
)

type mapEvent struct {
	ID    int            `json:"id"`
	Name  string         `json:"name"`
	Pages []mapEventPage `json:"pages"`
}

type mapEventPage struct {
	List []eventCommand `json:"list"`
}

// eventCommand is one entry in a page's command list. Parameters is kept as
// raw JSON since its shape depends on code; only the opcodes the walker
// recognizes are interpreted.
type eventCommand struct {
	Code       int               `json:"code"`
	Parameters []json.RawMessage `json:"parameters"`
}

type mapFile struct {
	raw    map[string]json.RawMessage
	events []*mapEventEntry
}

// mapEventEntry keeps both the decoded view used for extraction and the raw
// JSON used to splice translations back in without disturbing anything the
// walker doesn't understand.
type mapEventEntry struct {
	raw   json.RawMessage
	event *mapEvent
}

func decodeMapFile(data []byte) (*mapFile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rpgmaker: decode map file: %w", err)
	}
	mf := &mapFile{raw: raw}
	eventsRaw, ok := raw["events"]
	if !ok {
		return mf, nil
	}
	var rawEvents []json.RawMessage
	if err := json.Unmarshal(eventsRaw, &rawEvents); err != nil {
		return nil, fmt.Errorf("rpgmaker: decode events array: %w", err)
	}
	for _, item := range rawEvents {
		if string(item) == "null" {
			mf.events = append(mf.events, nil)
			continue
		}
		var ev mapEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			return nil, fmt.Errorf("rpgmaker: decode event: %w", err)
		}
		mf.events = append(mf.events, &mapEventEntry{raw: item, event: &ev})
	}
	return mf, nil
}

// ExtractMap extracts TextUnits from a MapXXX.json file: the event name
// plus every translatable event command, per §4.4.
func ExtractMap(mapID int, filePath string, data []byte) ([]model.TextUnit, error) {
	mf, err := decodeMapFile(data)
	if err != nil {
		return nil, err
	}
	f := format.NewRpgMaker()
	var units []model.TextUnit

	for _, entry := range mf.events {
		if entry == nil || entry.event == nil || entry.event.ID == 0 {
			continue
		}
		ev := entry.event
		if validate.RpgMaker(ev.Name) {
			location := fmt.Sprintf("map:%d:event:%d:name", mapID, ev.ID)
			units = append(units, model.NewTextUnit(location, f.Prepare(ev.Name), model.TextSystem, "name", "map_event", filePath))
		}
		for _, page := range ev.Pages {
			units = append(units, walkRpgMakerCommands(mapID, ev.ID, page.List, filePath, f)...)
		}
	}
	return units, nil
}

// walkRpgMakerCommands implements the C4 event-command walker for RPG
// Maker opcodes. index is the running command index within the page.
func walkRpgMakerCommands(mapID, eventID int, list []eventCommand, filePath string, f format.Formatter) []model.TextUnit {
	var units []model.TextUnit
	for index, cmd := range list {
		switch cmd.Code {
		case 401: // Show Text continuation line
			if s, ok := stringParam(cmd.Parameters, 0); ok && validate.RpgMaker(s) {
				location := fmt.Sprintf("map:%d:event:%d:message:%d", mapID, eventID, index)
				units = append(units, model.NewTextUnit(location, f.Prepare(s), model.TextDialogue, "message", "event_command", filePath))
			}
		case 102: // Show Choices
			if choices, ok := stringArrayParam(cmd.Parameters, 0); ok {
				for ci, choice := range choices {
					if !validate.RpgMaker(choice) {
						continue
					}
					location := fmt.Sprintf("map:%d:event:%d:choice:%d:%d", mapID, eventID, index, ci)
					units = append(units, model.NewTextUnit(location, f.Prepare(choice), model.TextDialogue, "choice", "event_command", filePath))
				}
			}
		case 405: // Scrolling text continuation
			if s, ok := stringParam(cmd.Parameters, 0); ok && validate.RpgMaker(s) {
				location := fmt.Sprintf("map:%d:event:%d:scroll:%d", mapID, eventID, index)
				units = append(units, model.NewTextUnit(location, f.Prepare(s), model.TextDialogue, "scroll", "event_command", filePath))
			}
		case 320, 324: // Change name / nickname
			if s, ok := stringParam(cmd.Parameters, 1); ok && validate.RpgMaker(s) {
				location := fmt.Sprintf("map:%d:event:%d:rename:%d", mapID, eventID, index)
				units = append(units, model.NewTextUnit(location, f.Prepare(s), model.TextCharacter, "rename", "event_command", filePath))
			}
		case 356, 357: // Plugin command / extended command
			for pi := range cmd.Parameters {
				s, ok := stringParam(cmd.Parameters, pi)
				if !ok || !validate.RpgMaker(s) {
					continue
				}
				location := fmt.Sprintf("map:%d:event:%d:plugin:%d:%d", mapID, eventID, index, pi)
				units = append(units, model.NewTextUnit(location, f.Prepare(s), model.TextOther, "plugin", "event_command", filePath))
			}
		}
	}
	return units
}

// InjectMap writes translations back into a MapXXX.json file. Events are
// re-decoded into a fully generic raw form so any field the walker doesn't
// understand, and any command code it doesn't recognize, is re-emitted
// unchanged.
func InjectMap(mapID int, filePath string, data []byte, byID map[string]string) ([]byte, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("rpgmaker: decode map file: %w", err)
	}
	f := format.NewRpgMaker()

	lookup := func(location string) (string, bool) {
		t, ok := byID[model.LocationToID(location)]
		if !ok || t == "" {
			return "", false
		}
		return f.Restore(t), true
	}

	eventsRaw, ok := root["events"]
	if !ok {
		return data, nil
	}
	var rawEvents []json.RawMessage
	if err := json.Unmarshal(eventsRaw, &rawEvents); err != nil {
		return nil, fmt.Errorf("rpgmaker: decode events array: %w", err)
	}

	for ei, item := range rawEvents {
		if string(item) == "null" {
			continue
		}
		var eventMap map[string]json.RawMessage
		if err := json.Unmarshal(item, &eventMap); err != nil {
			return nil, fmt.Errorf("rpgmaker: decode event %d: %w", ei, err)
		}
		idRaw, hasID := eventMap["id"]
		if !hasID {
			continue
		}
		var eventID int
		_ = json.Unmarshal(idRaw, &eventID)
		if eventID == 0 {
			continue
		}

		if nameRaw, ok := eventMap["name"]; ok {
			var name string
			if json.Unmarshal(nameRaw, &name) == nil {
				if v, ok := lookup(fmt.Sprintf("map:%d:event:%d:name", mapID, eventID)); ok {
					writeString(eventMap, "name", v)
				}
			}
		}

		if pagesRaw, ok := eventMap["pages"]; ok {
			var rawPages []json.RawMessage
			if err := json.Unmarshal(pagesRaw, &rawPages); err == nil {
				for pi, pageItem := range rawPages {
					updated, err := injectMapPage(mapID, eventID, pageItem, lookup)
					if err == nil {
						rawPages[pi] = updated
					}
				}
				encoded, err := json.Marshal(rawPages)
				if err == nil {
					eventMap["pages"] = encoded
				}
			}
		}

		encoded, err := json.Marshal(eventMap)
		if err == nil {
			rawEvents[ei] = encoded
		}
	}

	encoded, err := json.Marshal(rawEvents)
	if err != nil {
		return nil, fmt.Errorf("rpgmaker: encode events array: %w", err)
	}
	root["events"] = encoded
	return json.MarshalIndent(root, "", "  ")
}

func injectMapPage(mapID, eventID int, pageItem json.RawMessage, lookup func(string) (string, bool)) (json.RawMessage, error) {
	var page map[string]json.RawMessage
	if err := json.Unmarshal(pageItem, &page); err != nil {
		return pageItem, err
	}
	listRaw, ok := page["list"]
	if !ok {
		return pageItem, nil
	}
	var rawList []json.RawMessage
	if err := json.Unmarshal(listRaw, &rawList); err != nil {
		return pageItem, err
	}
	for index, cmdItem := range rawList {
		var cmd map[string]json.RawMessage
		if err := json.Unmarshal(cmdItem, &cmd); err != nil {
			continue
		}
		codeRaw, ok := cmd["code"]
		if !ok {
			continue
		}
		var code int
		_ = json.Unmarshal(codeRaw, &code)
		paramsRaw, ok := cmd["parameters"]
		if !ok {
			continue
		}
		var params []json.RawMessage
		if err := json.Unmarshal(paramsRaw, &params); err != nil {
			continue
		}
		changed := injectCommandParams(mapID, eventID, index, code, params, lookup)
		if changed {
			encoded, err := json.Marshal(params)
			if err == nil {
				cmd["parameters"] = encoded
				if reencoded, err := json.Marshal(cmd); err == nil {
					rawList[index] = reencoded
				}
			}
		}
	}
	encoded, err := json.Marshal(rawList)
	if err != nil {
		return pageItem, err
	}
	page["list"] = encoded
	return json.Marshal(page)
}

func injectCommandParams(mapID, eventID, index, code int, params []json.RawMessage, lookup func(string) (string, bool)) bool {
	changed := false
	setParam := func(i int, v string) {
		encoded, err := json.Marshal(v)
		if err == nil {
			params[i] = encoded
			changed = true
		}
	}
	switch code {
	case 401:
		if v, ok := lookup(fmt.Sprintf("map:%d:event:%d:message:%d", mapID, eventID, index)); ok && len(params) > 0 {
			setParam(0, v)
		}
	case 405:
		if v, ok := lookup(fmt.Sprintf("map:%d:event:%d:scroll:%d", mapID, eventID, index)); ok && len(params) > 0 {
			setParam(0, v)
		}
	case 320, 324:
		if v, ok := lookup(fmt.Sprintf("map:%d:event:%d:rename:%d", mapID, eventID, index)); ok && len(params) > 1 {
			setParam(1, v)
		}
	case 102:
		choices, ok := stringArrayParam(params, 0)
		if !ok {
			return changed
		}
		choicesChanged := false
		for ci := range choices {
			if v, ok := lookup(fmt.Sprintf("map:%d:event:%d:choice:%d:%d", mapID, eventID, index, ci)); ok {
				choices[ci] = v
				choicesChanged = true
			}
		}
		if choicesChanged {
			encoded, err := json.Marshal(choices)
			if err == nil {
				params[0] = encoded
				changed = true
			}
		}
	case 356, 357:
		for pi := range params {
			if v, ok := lookup(fmt.Sprintf("map:%d:event:%d:plugin:%d:%d", mapID, eventID, index, pi)); ok {
				setParam(pi, v)
			}
		}
	}
	return changed
}

func stringParam(params []json.RawMessage, i int) (string, bool) {
	if i < 0 || i >= len(params) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(params[i], &s); err != nil {
		return "", false
	}
	return s, true
}

func stringArrayParam(params []json.RawMessage, i int) ([]string, bool) {
	if i < 0 || i >= len(params) {
		return nil, false
	}
	var arr []string
	if err := json.Unmarshal(params[i], &arr); err != nil {
		return nil, false
	}
	return arr, true
}

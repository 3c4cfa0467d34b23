package wolfrpg

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
)

type mapPage struct {
	List []command `json:"list"`
}

type mapEvent struct {
	Pages []mapPage `json:"pages"`
}

// ExtractMap extracts TextUnits from a mps/MapNNN.json file: each event's
// pages are walked with the Wolf command walker, pointer-addressed as
// events[ei].pages[pi].list[ci].stringArgs[ai].
func ExtractMap(relPath string, data []byte) ([]model.TextUnit, error) {
	var doc struct {
		Events []mapEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode map file %s: %w", relPath, err)
	}
	f := format.NewWolfRPG()
	var units []model.TextUnit
	for ei, ev := range doc.Events {
		for pi, page := range ev.Pages {
			prefix := fmt.Sprintf("events[%d].pages[%d].list", ei, pi)
			units = append(units, walkWolfCommands(relPath, prefix, page.List, f)...)
		}
	}
	return units, nil
}

// InjectMap writes translations back into a mps/MapNNN.json file.
func InjectMap(relPath string, data []byte, byID map[string]string) ([]byte, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode map file %s: %w", relPath, err)
	}
	eventsRaw, ok := root["events"]
	if !ok {
		return data, nil
	}
	var rawEvents []json.RawMessage
	if err := json.Unmarshal(eventsRaw, &rawEvents); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode events array: %w", err)
	}
	f := format.NewWolfRPG()
	anyChanged := false
	for ei, eventItem := range rawEvents {
		var eventMap map[string]json.RawMessage
		if err := json.Unmarshal(eventItem, &eventMap); err != nil {
			continue
		}
		pagesRaw, ok := eventMap["pages"]
		if !ok {
			continue
		}
		var rawPages []json.RawMessage
		if err := json.Unmarshal(pagesRaw, &rawPages); err != nil {
			continue
		}
		pagesChanged := false
		for pi, pageItem := range rawPages {
			var page map[string]json.RawMessage
			if err := json.Unmarshal(pageItem, &page); err != nil {
				continue
			}
			listRaw, ok := page["list"]
			if !ok {
				continue
			}
			var rawCommands []json.RawMessage
			if err := json.Unmarshal(listRaw, &rawCommands); err != nil {
				continue
			}
			prefix := fmt.Sprintf("events[%d].pages[%d].list", ei, pi)
			changed, err := injectWolfCommands(relPath, prefix, rawCommands, f, byID)
			if err != nil {
				return nil, err
			}
			if changed {
				encoded, err := json.Marshal(rawCommands)
				if err != nil {
					return nil, err
				}
				page["list"] = encoded
				reencoded, err := json.Marshal(page)
				if err != nil {
					return nil, err
				}
				rawPages[pi] = reencoded
				pagesChanged = true
			}
		}
		if pagesChanged {
			encoded, err := json.Marshal(rawPages)
			if err != nil {
				return nil, err
			}
			eventMap["pages"] = encoded
			reencoded, err := json.Marshal(eventMap)
			if err != nil {
				return nil, err
			}
			rawEvents[ei] = reencoded
			anyChanged = true
		}
	}
	if !anyChanged {
		return data, nil
	}
	encoded, err := json.Marshal(rawEvents)
	if err != nil {
		return nil, err
	}
	root["events"] = encoded
	return json.MarshalIndent(root, "", "  ")
}

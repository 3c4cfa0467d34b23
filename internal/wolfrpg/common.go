package wolfrpg

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
)

// ExtractCommonEvents extracts TextUnits from a common/*.json file. Common
// events use the walker directly on the top-level "commands" array, with no
// event/page nesting.
func ExtractCommonEvents(relPath string, data []byte) ([]model.TextUnit, error) {
	var doc struct {
		Commands []command `json:"commands"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode common event file %s: %w", relPath, err)
	}
	return walkWolfCommands(relPath, "commands", doc.Commands, format.NewWolfRPG()), nil
}

// InjectCommonEvents writes translations back into a common/*.json file.
func InjectCommonEvents(relPath string, data []byte, byID map[string]string) ([]byte, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode common event file %s: %w", relPath, err)
	}
	commandsRaw, ok := root["commands"]
	if !ok {
		return data, nil
	}
	var rawCommands []json.RawMessage
	if err := json.Unmarshal(commandsRaw, &rawCommands); err != nil {
		return nil, fmt.Errorf("wolfrpg: decode commands array: %w", err)
	}
	changed, err := injectWolfCommands(relPath, "commands", rawCommands, format.NewWolfRPG(), byID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return data, nil
	}
	encoded, err := json.Marshal(rawCommands)
	if err != nil {
		return nil, err
	}
	root["commands"] = encoded
	return json.MarshalIndent(root, "", "  ")
}

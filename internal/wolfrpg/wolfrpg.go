// Package wolfrpg implements the Wolf RPG Editor dump-tree parsers (C3,
// C4): the defensive DataBase.json walker, map/common-event commands, and
// the Wolf-specific event-command walker.
package wolfrpg

import (
	"encoding/json"
	"fmt"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
	"game-localizer/internal/validate"
)

// command is a Wolf RPG event command: a code plus a list of string
// arguments, some of which may be translatable depending on code.
type command struct {
	Code       int      `json:"code"`
	StringArgs []string `json:"stringArgs"`
}

// walkWolfCommands implements the C4 Wolf RPG event-command walker.
// pointerPrefix is the JSON-pointer-like prefix for the command list the
// caller is walking, e.g. "commands" for a common event or
// "events[2].pages[0].list" for a map event page.
func walkWolfCommands(relPath, pointerPrefix string, commands []command, f format.Formatter) []model.TextUnit {
	var units []model.TextUnit
	for ci, cmd := range commands {
		var textType model.TextType
		var filterFilenames bool
		switch cmd.Code {
		case 101: // Message
			textType = model.TextDialogue
		case 210: // CommonEvent
			textType = model.TextDialogue
			filterFilenames = true
		case 122: // SetString
			textType = model.TextOther
		default:
			continue
		}
		for ai, arg := range cmd.StringArgs {
			if arg == "" {
				continue
			}
			if filterFilenames && !validate.WolfRPG(arg) {
				continue
			}
			if !filterFilenames && !validate.Universal(arg) {
				continue
			}
			pointer := fmt.Sprintf("%s[%d].stringArgs[%d]", pointerPrefix, ci, ai)
			location := fmt.Sprintf("wolf_json:%s#%s", relPath, pointer)
			units = append(units, model.NewTextUnit(location, f.Prepare(arg), textType, "stringArgs", "wolf_command", relPath))
		}
	}
	return units
}

// injectWolfCommands is the mirror of walkWolfCommands: it mutates raw
// command JSON objects in place using the same pointer convention.
func injectWolfCommands(relPath, pointerPrefix string, rawCommands []json.RawMessage, f format.Formatter, byID map[string]string) (bool, error) {
	changed := false
	for ci, item := range rawCommands {
		var cmd map[string]json.RawMessage
		if err := json.Unmarshal(item, &cmd); err != nil {
			continue
		}
		argsRaw, ok := cmd["stringArgs"]
		if !ok {
			continue
		}
		var args []string
		if err := json.Unmarshal(argsRaw, &args); err != nil {
			continue
		}
		argsChanged := false
		for ai := range args {
			pointer := fmt.Sprintf("%s[%d].stringArgs[%d]", pointerPrefix, ci, ai)
			location := fmt.Sprintf("wolf_json:%s#%s", relPath, pointer)
			t, ok := byID[model.LocationToID(location)]
			if !ok || t == "" {
				continue
			}
			args[ai] = f.Restore(t)
			argsChanged = true
		}
		if argsChanged {
			encoded, err := json.Marshal(args)
			if err != nil {
				return changed, err
			}
			cmd["stringArgs"] = encoded
			reencoded, err := json.Marshal(cmd)
			if err != nil {
				return changed, err
			}
			rawCommands[ci] = reencoded
			changed = true
		}
	}
	return changed, nil
}

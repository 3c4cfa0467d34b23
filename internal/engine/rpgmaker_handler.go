package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"game-localizer/internal/model"
	"game-localizer/internal/orchestrator"
	"game-localizer/internal/rpgmaker"
)

// requiredRpgMakerFiles are the flat-record files whose absence is a hard
// validation error. The list also holds System.json, which is required too
// but parsed by its own extractor since its shape differs from the
// flat-record files.
var requiredRpgMakerFiles = []string{
	"Actors.json", "Classes.json", "Weapons.json", "Items.json", "Armors.json",
	"Enemies.json", "Skills.json", "States.json", "Troops.json", "MapInfos.json",
	"System.json",
}

// optionalRpgMakerFiles are reported as warnings, not errors, when absent.
var optionalRpgMakerFiles = []string{"CommonEvents.json", "Tilesets.json"}

type rpgMakerHandler struct {
	name Name
	root string
}

// NewRpgMakerHandler constructs the RPG Maker MV/MZ handler for the given
// classified name and project root.
func NewRpgMakerHandler(name Name, root string) Handler {
	return &rpgMakerHandler{name: name, root: root}
}

func (h *rpgMakerHandler) EngineName() Name { return h.name }

func (h *rpgMakerHandler) GetDataRoot(root string) string {
	if h.name == RpgMakerMV {
		return filepath.Join(root, "www", "data")
	}
	return filepath.Join(root, "data")
}

func (h *rpgMakerHandler) ValidateProjectStructure(root string) (ValidationResult, error) {
	dataRoot := h.GetDataRoot(root)
	result := ValidationResult{Valid: true}

	if !isDir(dataRoot) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("data directory not found: %s", dataRoot))
		return result, nil
	}

	for _, name := range requiredRpgMakerFiles {
		path := filepath.Join(dataRoot, name)
		if !isFile(path) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("required file missing: %s", name))
		}
	}
	for _, name := range optionalRpgMakerFiles {
		path := filepath.Join(dataRoot, name)
		if !isFile(path) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("optional file not present: %s", name))
		}
	}
	return result, nil
}

func (h *rpgMakerHandler) CountFilesToProcess(root string) (int, error) {
	dataRoot := h.GetDataRoot(root)
	mapFiles, err := orchestrator.DiscoverRpgMakerMapFiles(dataRoot)
	if err != nil {
		return 0, err
	}
	count := len(mapFiles) + 1 // +1 for System.json
	for _, name := range requiredRpgMakerFiles {
		if name == "System.json" {
			continue
		}
		if isFile(filepath.Join(dataRoot, name)) {
			count++
		}
	}
	return count, nil
}

func (h *rpgMakerHandler) ExtractAllTexts(root string) ([]model.TextUnit, error) {
	dataRoot := h.GetDataRoot(root)
	var units []model.TextUnit

	for name := range rpgMakerFlatSpecSet() {
		path := filepath.Join(dataRoot, name)
		if !isFile(path) {
			continue
		}
		extracted, ok := orchestrator.ParseFile(path, func(data []byte) ([]model.TextUnit, error) {
			return rpgmaker.ExtractFlat(name, path, data)
		})
		if ok {
			units = append(units, extracted...)
		}
	}

	systemPath := filepath.Join(dataRoot, "System.json")
	if isFile(systemPath) {
		extracted, ok := orchestrator.ParseFile(systemPath, func(data []byte) ([]model.TextUnit, error) {
			return rpgmaker.ExtractSystem(systemPath, data)
		})
		if ok {
			units = append(units, extracted...)
		}
	}

	mapFiles, err := orchestrator.DiscoverRpgMakerMapFiles(dataRoot)
	if err != nil {
		return nil, err
	}
	for _, name := range mapFiles {
		mapID, ok := mapIDFromName(name)
		if !ok {
			continue
		}
		path := filepath.Join(dataRoot, name)
		extracted, ok := orchestrator.ParseFile(path, func(data []byte) ([]model.TextUnit, error) {
			return rpgmaker.ExtractMap(mapID, path, data)
		})
		if ok {
			units = append(units, extracted...)
		}
	}

	return units, nil
}

func (h *rpgMakerHandler) InjectAllTexts(root string, translations []model.Translation) error {
	dataRoot := h.GetDataRoot(root)
	byID := make(map[string]string, len(translations))
	for _, t := range translations {
		byID[t.ID] = t.TranslatedText
	}

	for name := range rpgMakerFlatSpecSet() {
		path := filepath.Join(dataRoot, name)
		if !isFile(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("engine: read %s: %w", name, err)
		}
		out, err := rpgmaker.InjectFlat(name, path, data, byID)
		if err != nil {
			return fmt.Errorf("engine: inject %s: %w", name, err)
		}
		if err := orchestrator.WriteFile(path, out); err != nil {
			return fmt.Errorf("engine: write %s: %w", name, err)
		}
	}

	systemPath := filepath.Join(dataRoot, "System.json")
	if isFile(systemPath) {
		data, err := os.ReadFile(systemPath)
		if err != nil {
			return fmt.Errorf("engine: read System.json: %w", err)
		}
		out, err := rpgmaker.InjectSystem(systemPath, data, byID)
		if err != nil {
			return fmt.Errorf("engine: inject System.json: %w", err)
		}
		if err := orchestrator.WriteFile(systemPath, out); err != nil {
			return fmt.Errorf("engine: write System.json: %w", err)
		}
	}

	mapFiles, err := orchestrator.DiscoverRpgMakerMapFiles(dataRoot)
	if err != nil {
		return err
	}
	for _, name := range mapFiles {
		mapID, ok := mapIDFromName(name)
		if !ok {
			continue
		}
		path := filepath.Join(dataRoot, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("engine: read %s: %w", name, err)
		}
		out, err := rpgmaker.InjectMap(mapID, path, data, byID)
		if err != nil {
			return fmt.Errorf("engine: inject %s: %w", name, err)
		}
		if err := orchestrator.WriteFile(path, out); err != nil {
			return fmt.Errorf("engine: write %s: %w", name, err)
		}
	}

	return nil
}

var mapNamePattern = regexp.MustCompile(`^Map(\d+)\.json$`)

func mapIDFromName(name string) (int, bool) {
	m := mapNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func rpgMakerFlatSpecSet() map[string]struct{} {
	names := []string{
		"Actors.json", "Classes.json", "Weapons.json", "Items.json", "Armors.json",
		"Enemies.json", "Skills.json", "States.json", "Troops.json", "MapInfos.json",
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

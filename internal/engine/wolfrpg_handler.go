package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"game-localizer/internal/model"
	"game-localizer/internal/orchestrator"
	"game-localizer/internal/wolfrpg"
)

type wolfRPGHandler struct {
	root string
}

// NewWolfRPGHandler constructs the Wolf RPG Editor handler for the given
// project root.
func NewWolfRPGHandler(root string) Handler {
	return &wolfRPGHandler{root: root}
}

func (h *wolfRPGHandler) EngineName() Name { return WolfRPG }

func (h *wolfRPGHandler) GetDataRoot(root string) string {
	return filepath.Join(root, "dump")
}

func (h *wolfRPGHandler) ValidateProjectStructure(root string) (ValidationResult, error) {
	dumpRoot := h.GetDataRoot(root)
	result := ValidationResult{Valid: true}

	requiredDirs := []string{"db", "mps", "common"}
	for _, dir := range requiredDirs {
		if !isDir(filepath.Join(dumpRoot, dir)) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("required directory missing: dump/%s", dir))
		}
	}

	dbFile := filepath.Join(dumpRoot, "db", "DataBase.json")
	if isDir(filepath.Join(dumpRoot, "db")) && !isFile(dbFile) {
		result.Warnings = append(result.Warnings, "optional file not present: dump/db/DataBase.json")
	}
	if isFile(filepath.Join(root, "Data.wolf")) && !isDir(dumpRoot) {
		result.Valid = false
		result.Errors = append(result.Errors, "Data.wolf is encrypted; run the external dump step before extraction")
	}

	return result, nil
}

func (h *wolfRPGHandler) CountFilesToProcess(root string) (int, error) {
	dumpRoot := h.GetDataRoot(root)
	count := 0
	if isFile(filepath.Join(dumpRoot, "db", "DataBase.json")) {
		count++
	}
	mapFiles, err := orchestrator.DiscoverWolfFiles(filepath.Join(dumpRoot, "mps"))
	if err == nil {
		count += len(mapFiles)
	}
	commonFiles, err := orchestrator.DiscoverWolfFiles(filepath.Join(dumpRoot, "common"))
	if err == nil {
		count += len(commonFiles)
	}
	return count, nil
}

func (h *wolfRPGHandler) ExtractAllTexts(root string) ([]model.TextUnit, error) {
	dumpRoot := h.GetDataRoot(root)
	var units []model.TextUnit

	dbPath := filepath.Join(dumpRoot, "db", "DataBase.json")
	if isFile(dbPath) {
		rel := orchestrator.RelPath(dumpRoot, dbPath)
		extracted, ok := orchestrator.ParseFile(dbPath, func(data []byte) ([]model.TextUnit, error) {
			return wolfrpg.ExtractDataBase(rel, data)
		})
		if ok {
			units = append(units, extracted...)
		}
	}

	mpsDir := filepath.Join(dumpRoot, "mps")
	mapFiles, _ := orchestrator.DiscoverWolfFiles(mpsDir)
	for _, name := range mapFiles {
		path := filepath.Join(mpsDir, name)
		rel := orchestrator.RelPath(dumpRoot, path)
		extracted, ok := orchestrator.ParseFile(path, func(data []byte) ([]model.TextUnit, error) {
			return wolfrpg.ExtractMap(rel, data)
		})
		if ok {
			units = append(units, extracted...)
		}
	}

	commonDir := filepath.Join(dumpRoot, "common")
	commonFiles, _ := orchestrator.DiscoverWolfFiles(commonDir)
	for _, name := range commonFiles {
		path := filepath.Join(commonDir, name)
		rel := orchestrator.RelPath(dumpRoot, path)
		extracted, ok := orchestrator.ParseFile(path, func(data []byte) ([]model.TextUnit, error) {
			return wolfrpg.ExtractCommonEvents(rel, data)
		})
		if ok {
			units = append(units, extracted...)
		}
	}

	return units, nil
}

func (h *wolfRPGHandler) InjectAllTexts(root string, translations []model.Translation) error {
	dumpRoot := h.GetDataRoot(root)
	byID := make(map[string]string, len(translations))
	for _, t := range translations {
		byID[t.ID] = t.TranslatedText
	}

	dbPath := filepath.Join(dumpRoot, "db", "DataBase.json")
	if isFile(dbPath) {
		if err := injectWolfFile(dbPath, orchestrator.RelPath(dumpRoot, dbPath), byID, wolfrpg.InjectDataBase); err != nil {
			return err
		}
	}

	mpsDir := filepath.Join(dumpRoot, "mps")
	mapFiles, _ := orchestrator.DiscoverWolfFiles(mpsDir)
	for _, name := range mapFiles {
		path := filepath.Join(mpsDir, name)
		if err := injectWolfFile(path, orchestrator.RelPath(dumpRoot, path), byID, wolfrpg.InjectMap); err != nil {
			return err
		}
	}

	commonDir := filepath.Join(dumpRoot, "common")
	commonFiles, _ := orchestrator.DiscoverWolfFiles(commonDir)
	for _, name := range commonFiles {
		path := filepath.Join(commonDir, name)
		if err := injectWolfFile(path, orchestrator.RelPath(dumpRoot, path), byID, wolfrpg.InjectCommonEvents); err != nil {
			return err
		}
	}

	return nil
}

func injectWolfFile(path, rel string, byID map[string]string, inject func(string, []byte, map[string]string) ([]byte, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("engine: read %s: %w", rel, err)
	}
	out, err := inject(rel, data, byID)
	if err != nil {
		return fmt.Errorf("engine: inject %s: %w", rel, err)
	}
	if err := orchestrator.WriteFile(path, out); err != nil {
		return fmt.Errorf("engine: write %s: %w", rel, err)
	}
	return nil
}

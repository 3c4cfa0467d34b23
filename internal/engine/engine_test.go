package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"game-localizer/internal/model"
)

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDetectWolfDumpTreeTakesPriority(t *testing.T) {
	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "dump", "db"))
	mkdirAll(t, filepath.Join(root, "dump", "mps"))
	mkdirAll(t, filepath.Join(root, "dump", "common"))
	// Even with a www/data present, the dump tree wins.
	mkdirAll(t, filepath.Join(root, "www", "data"))

	h, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if h.EngineName() != WolfRPG {
		t.Errorf("expected WolfRPG, got %s", h.EngineName())
	}
}

func TestDetectRpgMakerMZ(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), "{}")
	mkdirAll(t, filepath.Join(root, "data"))

	h, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if h.EngineName() != RpgMakerMZ {
		t.Errorf("expected RpgMakerMZ, got %s", h.EngineName())
	}
}

func TestDetectRpgMakerMV(t *testing.T) {
	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "www", "data"))

	h, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if h.EngineName() != RpgMakerMV {
		t.Errorf("expected RpgMakerMV, got %s", h.EngineName())
	}
}

func TestDetectFailsOnUnrecognizedShape(t *testing.T) {
	root := t.TempDir()
	if _, err := Detect(root); err == nil {
		t.Fatal("expected error for unrecognized project shape")
	}
}

func TestRpgMakerExtractAndInjectRoundTrip(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "www", "data")
	writeFile(t, filepath.Join(dataDir, "Actors.json"), `[null, {"id": 1, "name": "Harold", "nickname": "", "profile": ""}]`)
	writeFile(t, filepath.Join(dataDir, "Classes.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "Weapons.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "Items.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "Armors.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "Enemies.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "Skills.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "States.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "Troops.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "MapInfos.json"), `[null]`)
	writeFile(t, filepath.Join(dataDir, "System.json"), `{"gameTitle": "Demo", "currencyUnit": "G"}`)

	h, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	validation, err := h.ValidateProjectStructure(root)
	if err != nil {
		t.Fatalf("ValidateProjectStructure: %v", err)
	}
	if !validation.Valid {
		t.Fatalf("expected valid project structure, errors: %v", validation.Errors)
	}

	units, err := h.ExtractAllTexts(root)
	if err != nil {
		t.Fatalf("ExtractAllTexts: %v", err)
	}
	if len(units) == 0 {
		t.Fatal("expected at least one extracted unit")
	}

	var translations []model.Translation
	for _, u := range units {
		translations = append(translations, model.Translation{ID: u.ID, TranslatedText: u.SourceText + "_TR"})
	}
	if err := h.InjectAllTexts(root, translations); err != nil {
		t.Fatalf("InjectAllTexts: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "Actors.json"))
	if err != nil {
		t.Fatalf("read Actors.json: %v", err)
	}
	if !strings.Contains(string(data), "Harold_TR") {
		t.Errorf("expected translated name in Actors.json, got %s", data)
	}
}

package rpgmaker

import (
	"path/filepath"
	"strings"

	"game-localizer/internal/format"
	"game-localizer/internal/model"
)

// flatFileSpecs maps each recognized flat-record file name to its location
// kind and translatable fields, per the extraction table.
var flatFileSpecs = map[string]struct {
	kind   string
	fields []fieldSpec
}{
	"Actors.json": {"actor", []fieldSpec{
		{"name", model.TextCharacter}, {"nickname", model.TextCharacter}, {"profile", model.TextCharacter},
	}},
	"Classes.json": {"class", []fieldSpec{
		{"name", model.TextSystem},
	}},
	"Weapons.json": {"weapon", []fieldSpec{
		{"name", model.TextItem}, {"description", model.TextItem},
	}},
	"Items.json": {"item", []fieldSpec{
		{"name", model.TextItem}, {"description", model.TextItem},
	}},
	"Armors.json": {"armor", []fieldSpec{
		{"name", model.TextItem}, {"description", model.TextItem},
	}},
	"Enemies.json": {"enemy", []fieldSpec{
		{"name", model.TextCharacter},
	}},
	"Skills.json": {"skill", []fieldSpec{
		{"name", model.TextSkill}, {"description", model.TextSkill},
		{"message1", model.TextSystem}, {"message2", model.TextSystem},
	}},
	"States.json": {"state", []fieldSpec{
		{"name", model.TextSystem},
		{"message1", model.TextSystem}, {"message2", model.TextSystem},
		{"message3", model.TextSystem}, {"message4", model.TextSystem},
	}},
	"Troops.json": {"troop", []fieldSpec{
		{"name", model.TextSystem},
	}},
	"MapInfos.json": {"map_info", []fieldSpec{
		{"name", model.TextSystem},
	}},
}

func fileKindFromPath(filePath string) string {
	base := filepath.Base(filePath)
	if spec, ok := flatFileSpecs[base]; ok {
		return spec.kind
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsFlatFile reports whether base is one of the recognized flat-record file
// names.
func IsFlatFile(base string) bool {
	_, ok := flatFileSpecs[base]
	return ok
}

// ExtractFlat extracts TextUnits from a flat-record file identified by its
// base file name (e.g. "Actors.json").
func ExtractFlat(baseName, filePath string, data []byte) ([]model.TextUnit, error) {
	spec, ok := flatFileSpecs[baseName]
	if !ok {
		return nil, nil
	}
	return extractFlatFile(spec.kind, filePath, data, spec.fields, format.NewRpgMaker())
}

// InjectFlat writes translations back into a flat-record file identified by
// its base file name.
func InjectFlat(baseName, filePath string, data []byte, byID map[string]string) ([]byte, error) {
	spec, ok := flatFileSpecs[baseName]
	if !ok {
		return data, nil
	}
	return injectFlatFile(filePath, data, spec.fields, format.NewRpgMaker(), byID)
}

package wolfrpg

import (
	"strings"
	"testing"
)

const commonFixture = `{
  "id": 1,
  "name": "GreetingEvent",
  "commands": [
    {"code": 101, "stringArgs": ["Welcome, traveler."]},
    {"code": 210, "stringArgs": ["bgm_theme.ogg"]},
    {"code": 122, "stringArgs": ["PlayerName"]},
    {"code": 999, "stringArgs": ["ignored"]}
  ]
}`

func TestExtractInjectCommonEvents(t *testing.T) {
	units, err := ExtractCommonEvents("common/Ev001.json", []byte(commonFixture))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// code 101 message + code 122 string; code 210 filtered as a filename, code 999 skipped
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d: %+v", len(units), units)
	}

	byID := map[string]string{}
	for _, u := range units {
		byID[u.ID] = u.SourceText + "_TR"
	}
	out, err := InjectCommonEvents("common/Ev001.json", []byte(commonFixture), byID)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if !strings.Contains(string(out), "Welcome, traveler._TR") {
		t.Errorf("expected translated message in output: %s", out)
	}
	if !strings.Contains(string(out), "bgm_theme.ogg") {
		t.Errorf("expected filename left untouched: %s", out)
	}
}

const mapsFixture = `{
  "events": [
    {
      "pages": [
        {"list": [{"code": 101, "stringArgs": ["Who dares enter?"]}]}
      ]
    }
  ]
}`

func TestExtractInjectMap(t *testing.T) {
	units, err := ExtractMap("mps/Map001.json", []byte(mapsFixture))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].Location != "wolf_json:mps/Map001.json#events[0].pages[0].list[0].stringArgs[0]" {
		t.Errorf("unexpected location: %s", units[0].Location)
	}

	byID := map[string]string{units[0].ID: "Who dares enter?_TR"}
	out, err := InjectMap("mps/Map001.json", []byte(mapsFixture), byID)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if !strings.Contains(string(out), "Who dares enter?_TR") {
		t.Errorf("expected translated text in output: %s", out)
	}
}

const databaseFixture = `{
  "types": [
    {
      "typeName": "Actors",
      "data": [
        {"dataName": "Hero", "fields": [{"fieldName": "description", "value": "A brave hero."}]}
      ]
    }
  ]
}`

func TestExtractInjectDataBase(t *testing.T) {
	units, err := ExtractDataBase("db/DataBase.json", []byte(databaseFixture))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	byID := map[string]string{units[0].ID: "A brave hero._TR"}
	out, err := InjectDataBase("db/DataBase.json", []byte(databaseFixture), byID)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if !strings.Contains(string(out), "A brave hero._TR") {
		t.Errorf("expected translated text in output: %s", out)
	}
}

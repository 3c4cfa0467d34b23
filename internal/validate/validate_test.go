package validate

import "testing"

func TestUniversal(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"", false},
		{"   ", false},
		{"...", false},
		{"Hello world", true},
		{"picture.png", false},
		{"gfx/characters/actor1", false},
		{"\\n[1]Name", true},
	}
	for _, c := range cases {
		if got := Universal(c.content); got != c.want {
			t.Errorf("Universal(%q) = %v, want %v", c.content, got, c.want)
		}
	}
}

func TestRpgMakerPunctuationOnly(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"……", false},
		{"？！", false},
		{"Hello!", true},
		{"〇", false},
		{"100", true},
	}
	for _, c := range cases {
		if got := RpgMaker(c.content); got != c.want {
			t.Errorf("RpgMaker(%q) = %v, want %v", c.content, got, c.want)
		}
	}
}

func TestRpgMakerAllowsKnownControlCodes(t *testing.T) {
	if !RpgMaker(`\n[1] the hero`) {
		t.Error("\\n[ control code should be allowed")
	}
	if RpgMaker(`img\actor1.png`) {
		t.Error("unrecognized backslash path should be rejected")
	}
}

func TestWolfRPGExtensionRejection(t *testing.T) {
	if WolfRPG("sound/battle.WAV") {
		t.Error("case-insensitive extension should be rejected")
	}
	if !WolfRPG("A normal line of dialogue") {
		t.Error("ordinary dialogue should pass")
	}
}

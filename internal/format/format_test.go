package format

import "testing"

func TestRpgMakerRoundTrip(t *testing.T) {
	cases := []string{
		"Hello \\C[1]world\\C[0]!",
		"\\N[1] picks up \\I[5] x\\V[3]",
		"Plain text with no codes",
		"\\G gained 100 gold",
		"　　Indented with fullwidth spaces",
		"Tab\there\rand\nnewline",
		"１０％ complete",
	}
	f := NewRpgMaker()
	for _, raw := range cases {
		prepared := f.Prepare(raw)
		restored := f.Restore(prepared)
		if restored != raw {
			t.Errorf("round trip mismatch: raw=%q prepared=%q restored=%q", raw, prepared, restored)
		}
	}
}

func TestRpgMakerFullWidthSpaceRunLength(t *testing.T) {
	f := NewRpgMaker()
	raw := "たえちゃん　＆　お兄ちゃん"
	prepared := f.Prepare(raw)
	want := "たえちゃん[FWSPC_1]＆[FWSPC_1]お兄ちゃん"
	if prepared != want {
		t.Errorf("Prepare = %q, want %q", prepared, want)
	}
	if restored := f.Restore(prepared); restored != raw {
		t.Errorf("Restore = %q, want %q", restored, raw)
	}
}

func TestRpgMakerControlCodeTokens(t *testing.T) {
	f := NewRpgMaker()
	raw := `\C[2]Hello\C[0]`
	prepared := f.Prepare(raw)
	want := "[CTRL_COLOR_2]Hello[CTRL_COLOR_0]"
	if prepared != want {
		t.Errorf("Prepare = %q, want %q", prepared, want)
	}
	if restored := f.Restore(prepared); restored != raw {
		t.Errorf("Restore = %q, want %q", restored, raw)
	}
}

func TestRpgMakerAllControlCodes(t *testing.T) {
	f := NewRpgMaker()
	raw := `\C[1]\N[2]\V[3]\I[4]\P[5]\G\{\}\.\|\!\>\<\^\\`
	want := "[CTRL_COLOR_1][CTRL_NAME_2][CTRL_VAR_3][CTRL_ICON_4][CTRL_PARTY_5]" +
		"[CTRL_GOLD][CTRL_BIG][CTRL_SMALL][CTRL_WAIT][CTRL_WAITINPUT]" +
		"[CTRL_NOWAIT][CTRL_FAST][CTRL_SLOW][CTRL_CARET][CTRL_BS]"
	prepared := f.Prepare(raw)
	if prepared != want {
		t.Errorf("Prepare = %q, want %q", prepared, want)
	}
	if restored := f.Restore(prepared); restored != raw {
		t.Errorf("Restore = %q, want %q", restored, raw)
	}
}

func TestWolfRPGAllControlCodes(t *testing.T) {
	f := NewWolfRPG()
	raw := `\E\i[1]\f[2]@3\s[4]\cself[5]\c[6]\C[7]\rover this`
	want := "[WOLF_END][ICON_1][FONT_2][AT_3][SLOT_4][CSELF_5][COLOR_LOWER_6][COLOR_UPPER_7][RUBY_START]over this"
	prepared := f.Prepare(raw)
	if prepared != want {
		t.Errorf("Prepare = %q, want %q", prepared, want)
	}
	if restored := f.Restore(prepared); restored != raw {
		t.Errorf("Restore = %q, want %q", restored, raw)
	}
}

func TestWolfRPGRawControlBytes(t *testing.T) {
	f := NewWolfRPG()
	raw := "line one\rline two\nline three"
	want := "line one[CARRIAGE_RETURN]line two[NEWLINE]line three"
	prepared := f.Prepare(raw)
	if prepared != want {
		t.Errorf("Prepare = %q, want %q", prepared, want)
	}
	if restored := f.Restore(prepared); restored != raw {
		t.Errorf("Restore = %q, want %q", restored, raw)
	}
}

func TestRpgMakerQuoteNormalizationIsLossy(t *testing.T) {
	f := NewRpgMaker()
	raw := "「Hello」"
	prepared := f.Prepare(raw)
	restored := f.Restore(prepared)
	if restored == raw {
		t.Fatalf("expected corner-quote normalization to be lossy, got unchanged %q", restored)
	}
	if restored != `"Hello"` {
		t.Errorf("expected ASCII-quoted restore, got %q", restored)
	}
}

func TestRpgMakerCaseSensitiveCodes(t *testing.T) {
	f := NewRpgMaker()
	raw := "\\c[1] lowercase is not a recognized code"
	if f.HasFormattingCodes(raw) {
		t.Fatalf("lowercase \\c should not be recognized as a control code")
	}
	prepared := f.Prepare(raw)
	if prepared != raw {
		t.Errorf("lowercase code should pass through unchanged, got %q", prepared)
	}
}

func TestWolfRPGRoundTrip(t *testing.T) {
	cases := []string{
		`Furigana\rover this word`,
		`Line one\nLine two`,
		"Plain text",
		"　　Indented",
	}
	f := NewWolfRPG()
	for _, raw := range cases {
		prepared := f.Prepare(raw)
		restored := f.Restore(prepared)
		if restored != raw {
			t.Errorf("round trip mismatch: raw=%q prepared=%q restored=%q", raw, prepared, restored)
		}
	}
}

func TestWolfRPGRawNewlineBeforeUniversal(t *testing.T) {
	f := NewWolfRPG()
	raw := "a\nb"
	prepared := f.Prepare(raw)
	if prepared != "a[NEWLINE]b" {
		t.Fatalf("expected raw newline byte consumed before universal pass, got %q", prepared)
	}
}

func TestHasFormattingCodesFastPath(t *testing.T) {
	f := NewRpgMaker()
	if f.HasFormattingCodes("nothing special") {
		t.Error("plain text should not report formatting codes")
	}
	if !f.HasFormattingCodes("\\C[1]") {
		t.Error("control code should report formatting codes")
	}
}

func TestHasPlaceholderCodesFastPath(t *testing.T) {
	f := NewRpgMaker()
	if f.HasPlaceholderCodes("nothing special") {
		t.Error("plain text should not report placeholder codes")
	}
	if !f.HasPlaceholderCodes("[CTRL_COLOR_1]") {
		t.Error("placeholder should report placeholder codes")
	}
}

package glossary

import (
	"context"
	"testing"

	"game-localizer/internal/model"
)

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }

func TestMemoryResponderGlobalAndProjectScoped(t *testing.T) {
	responder := &MemoryResponder{Entries: []Entry{
		{SourceTerm: "剣", TranslatedTerm: "Sword", SourceLanguage: "ja", TargetLanguage: "en", Category: "item"},
		{SourceTerm: "お兄ちゃん", TranslatedTerm: "Big Bro", SourceLanguage: "ja", TargetLanguage: "en", Category: "character", ProjectID: int64p(1)},
	}}

	resp, err := responder.Lookup(context.Background(), Request{SourceLanguage: "ja", TargetLanguage: "en"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected only global term without project_id, got %d", len(resp.Data))
	}

	resp, err = responder.Lookup(context.Background(), Request{SourceLanguage: "ja", TargetLanguage: "en", ProjectID: int64p(1)})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected global + project-scoped terms, got %d", len(resp.Data))
	}
}

func TestMemoryResponderCategoryFilterIncludesGeneral(t *testing.T) {
	responder := &MemoryResponder{Entries: []Entry{
		{SourceTerm: "a", TranslatedTerm: "A", SourceLanguage: "ja", TargetLanguage: "en", Category: "item"},
		{SourceTerm: "b", TranslatedTerm: "B", SourceLanguage: "ja", TargetLanguage: "en", Category: "general"},
		{SourceTerm: "c", TranslatedTerm: "C", SourceLanguage: "ja", TargetLanguage: "en", Category: "character"},
	}}

	resp, err := responder.Lookup(context.Background(), Request{
		SourceLanguage: "ja", TargetLanguage: "en", Category: strp("item"),
	})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected item + general terms, got %d: %+v", len(resp.Data), resp.Data)
	}
}

func TestCategoryForMapping(t *testing.T) {
	cases := []struct {
		textType model.TextType
		want     *string
	}{
		{model.TextCharacter, strp("character")},
		{model.TextDialogue, strp("character")},
		{model.TextSystem, strp("system")},
		{model.TextItem, strp("item")},
		{model.TextSkill, strp("skill")},
		{model.TextOther, strp("general")},
	}
	for _, c := range cases {
		got := CategoryFor(c.textType)
		if (got == nil) != (c.want == nil) || (got != nil && *got != *c.want) {
			t.Errorf("CategoryFor(%s) = %v, want %v", c.textType, deref(got), deref(c.want))
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestFormatForPrompt(t *testing.T) {
	if got := FormatForPrompt(nil); got != "" {
		t.Errorf("expected empty string for no terms, got %q", got)
	}
	terms := []Entry{{SourceTerm: "お兄ちゃん", TranslatedTerm: "Oni-san"}}
	want := "GLOSSARY:\nお兄ちゃん: Oni-san\n\n"
	if got := FormatForPrompt(terms); got != want {
		t.Errorf("FormatForPrompt = %q, want %q", got, want)
	}
}

func TestLookupFailOpenOnError(t *testing.T) {
	terms := LookupFailOpen(context.Background(), erroringResponder{}, Request{})
	if terms != nil {
		t.Errorf("expected nil terms on responder error, got %v", terms)
	}
}

type erroringResponder struct{}

func (erroringResponder) Lookup(context.Context, Request) (Response, error) {
	return Response{}, context.DeadlineExceeded
}

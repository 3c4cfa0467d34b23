package session

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"game-localizer/internal/glossary"
	"game-localizer/internal/model"
)

type fakeProvider struct {
	calls int
}

func (f *fakeProvider) Call(_ context.Context, prompt string, _ string) (string, error) {
	f.calls++
	return "translated: " + prompt, nil
}
func (f *fakeProvider) ListModels(context.Context) ([]string, error) { return nil, nil }
func (f *fakeProvider) TestConnection(context.Context) error         { return nil }

func waitForCompletion(t *testing.T, m *Manager, id string) Progress {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var last Progress
	for time.Now().Before(deadline) {
		p, err := m.GetProgress(id)
		if err != nil {
			t.Fatalf("GetProgress: %v", err)
		}
		last.SuccessfulTranslations = append(last.SuccessfulTranslations, p.SuccessfulTranslations...)
		last.Errors = p.Errors
		last.Status = p.Status
		last.ProcessedCount = p.ProcessedCount
		last.TotalCount = p.TotalCount
		if p.Status == StatusCompleted {
			return last
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("session did not complete in time")
	return last
}

func TestSessionProcessesInOrder(t *testing.T) {
	provider := &fakeProvider{}
	responder := &glossary.MemoryResponder{}
	m := NewManager(provider, responder)

	texts := []model.TextUnit{
		{ID: "1", SourceText: "one", TextType: model.TextDialogue},
		{ID: "2", SourceText: "two", TextType: model.TextDialogue},
		{ID: "3", SourceText: "three", TextType: model.TextDialogue},
	}
	id := m.StartSession(texts, Settings{SourceLanguage: "ja", TargetLanguage: "en"}, PauseConfig{Enabled: false})

	progress := waitForCompletion(t, m, id)
	if len(progress.SuccessfulTranslations) != 3 {
		t.Fatalf("expected 3 successful translations, got %d", len(progress.SuccessfulTranslations))
	}
	for i, r := range progress.SuccessfulTranslations {
		want := texts[i].SourceText
		if r.ID != texts[i].ID {
			t.Errorf("result %d: id = %s, want %s", i, r.ID, texts[i].ID)
		}
		_ = want
	}
}

// failingProvider fails every call whose prompt contains a source text in
// the fail set, succeeding otherwise.
type failingProvider struct {
	fail map[string]bool
}

func (f *failingProvider) Call(_ context.Context, prompt string, _ string) (string, error) {
	for text := range f.fail {
		if strings.Contains(prompt, text) {
			return "", fmt.Errorf("simulated provider failure for %q", text)
		}
	}
	return "translated: " + prompt, nil
}
func (f *failingProvider) ListModels(context.Context) ([]string, error) { return nil, nil }
func (f *failingProvider) TestConnection(context.Context) error         { return nil }

func TestSessionProcessedCountIncludesFailures(t *testing.T) {
	provider := &failingProvider{fail: map[string]bool{"bad": true}}
	responder := &glossary.MemoryResponder{}
	m := NewManager(provider, responder)

	texts := []model.TextUnit{
		{ID: "1", SourceText: "good", TextType: model.TextDialogue},
		{ID: "2", SourceText: "bad", TextType: model.TextDialogue},
	}
	id := m.StartSession(texts, Settings{SourceLanguage: "ja", TargetLanguage: "en"}, PauseConfig{Enabled: false})

	progress := waitForCompletion(t, m, id)
	if progress.ProcessedCount != 2 {
		t.Fatalf("expected processed count of 2 (one success, one failure), got %d", progress.ProcessedCount)
	}
	if len(progress.Errors) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(progress.Errors))
	}
	if len(progress.SuccessfulTranslations) != 1 {
		t.Fatalf("expected 1 successful translation, got %d", len(progress.SuccessfulTranslations))
	}
}

func TestSessionPauseAndResume(t *testing.T) {
	provider := &fakeProvider{}
	responder := &glossary.MemoryResponder{}
	m := NewManager(provider, responder)

	texts := []model.TextUnit{
		{ID: "1", SourceText: "one"},
		{ID: "2", SourceText: "two"},
	}
	id := m.StartSession(texts, Settings{SourceLanguage: "ja", TargetLanguage: "en"}, PauseConfig{Enabled: false})

	if err := m.PauseSession(id); err != nil {
		t.Fatalf("PauseSession: %v", err)
	}
	// Allow the in-flight iteration to observe the pause.
	time.Sleep(50 * time.Millisecond)

	p, err := m.GetProgress(id)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if p.Status != StatusPaused {
		t.Fatalf("expected Paused, got %s", p.Status)
	}

	if err := m.ResumeSession(id); err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	waitForCompletion(t, m, id)
}

func TestSessionStopCannotBeResumed(t *testing.T) {
	provider := &fakeProvider{}
	responder := &glossary.MemoryResponder{}
	m := NewManager(provider, responder)

	texts := []model.TextUnit{{ID: "1", SourceText: "one"}}
	id := m.StartSession(texts, Settings{SourceLanguage: "ja", TargetLanguage: "en"}, PauseConfig{Enabled: false})

	if err := m.StopSession(id); err != nil {
		t.Fatalf("StopSession: %v", err)
	}
	if err := m.ResumeSession(id); err == nil {
		t.Fatal("expected error resuming a stopped session")
	}
}

func TestBuildPromptWithGlossary(t *testing.T) {
	terms := []glossary.Entry{{SourceTerm: "剣", TranslatedTerm: "Sword"}}
	prompt := BuildPrompt(terms, "ja", "en", "彼の剣")
	want := "GLOSSARY:\n剣: Sword\n\nTranslate from ja to en: 彼の剣"
	if prompt != want {
		t.Errorf("BuildPrompt = %q, want %q", prompt, want)
	}
}

func TestBuildPromptNoGlossary(t *testing.T) {
	prompt := BuildPrompt(nil, "ja", "en", "hello")
	want := "Translate from ja to en: hello"
	if prompt != want {
		t.Errorf("BuildPrompt = %q, want %q", prompt, want)
	}
}

func TestStartSingleAndListActive(t *testing.T) {
	provider := &fakeProvider{}
	responder := &glossary.MemoryResponder{}
	m := NewManager(provider, responder)

	id := m.StartSingle(model.TextUnit{ID: "1", SourceText: "one"}, Settings{SourceLanguage: "ja", TargetLanguage: "en"})
	waitForCompletion(t, m, id)

	active := m.ListActive()
	if len(active) != 1 {
		t.Fatalf("expected 1 session in registry, got %d", len(active))
	}
	if active[0].SessionID != id {
		t.Errorf("expected session id %s, got %s", id, active[0].SessionID)
	}
	if active[0].Status != StatusCompleted {
		t.Errorf("expected Completed, got %s", active[0].Status)
	}
}

func TestGetSuggestions(t *testing.T) {
	provider := &fakeProvider{}
	responder := &glossary.MemoryResponder{
		Entries: []glossary.Entry{
			{SourceTerm: "剣", TranslatedTerm: "Sword", SourceLanguage: "ja", TargetLanguage: "en", Category: "general"},
		},
	}
	m := NewManager(provider, responder)

	suggestions := m.GetSuggestions(context.Background(), "彼の剣", "ja", "en", model.TextOther, nil)
	if len(suggestions) != 1 || suggestions[0].TranslatedTerm != "Sword" {
		t.Fatalf("expected one suggestion for Sword, got %v", suggestions)
	}
}

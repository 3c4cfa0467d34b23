package store

import (
	"context"
	"testing"

	"game-localizer/internal/model"
)

func TestMemoryUpsertAndListPending(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	units := []model.TextUnit{
		model.NewTextUnit("actor:1:name", "Harold", model.TextCharacter, "name", "actor", "Actors.json"),
		model.NewTextUnit("actor:2:name", "Maria", model.TextCharacter, "name", "actor", "Actors.json"),
	}
	if err := m.Upsert(ctx, units); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	pending, err := m.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending units, got %d", len(pending))
	}
	if pending[0].ID != "actor_1_name" {
		t.Errorf("expected insertion order preserved, got %s first", pending[0].ID)
	}

	if err := m.SetTranslation(ctx, "actor_1_name", "Harold-TR"); err != nil {
		t.Fatalf("SetTranslation: %v", err)
	}

	pending, err = m.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending after translation: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "actor_2_name" {
		t.Fatalf("expected only actor_2_name still pending, got %v", pending)
	}

	translations, err := m.Translations(ctx)
	if err != nil {
		t.Fatalf("Translations: %v", err)
	}
	if len(translations) != 1 || translations[0].TranslatedText != "Harold-TR" {
		t.Fatalf("expected one committed translation, got %v", translations)
	}
}

func TestMemoryListByFile(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	units := []model.TextUnit{
		model.NewTextUnit("actor:1:name", "A", model.TextCharacter, "name", "actor", "Actors.json"),
		model.NewTextUnit("class:1:name", "B", model.TextSystem, "name", "class", "Classes.json"),
	}
	if err := m.Upsert(ctx, units); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := m.ListByFile(ctx, "Actors.json")
	if err != nil {
		t.Fatalf("ListByFile: %v", err)
	}
	if len(got) != 1 || got[0].ID != "actor_1_name" {
		t.Fatalf("expected only actor_1_name, got %v", got)
	}
}

func TestMemoryNearestDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	units := []model.TextUnit{
		model.NewTextUnit("actor:1:name", "Harold the Brave", model.TextCharacter, "name", "actor", "Actors.json"),
	}
	if err := m.Upsert(ctx, units); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := m.SetTranslation(ctx, "actor_1_name", "Harold le Brave"); err != nil {
		t.Fatalf("SetTranslation: %v", err)
	}

	match, ok, err := m.NearestDuplicate(ctx, "Harold the Brave")
	if err != nil {
		t.Fatalf("NearestDuplicate: %v", err)
	}
	if !ok {
		t.Fatal("expected a duplicate match for identical source text")
	}
	if match.TranslatedText != "Harold le Brave" {
		t.Errorf("expected cached translation, got %q", match.TranslatedText)
	}

	_, ok, err = m.NearestDuplicate(ctx, "A completely unrelated string about dragons")
	if err != nil {
		t.Fatalf("NearestDuplicate unrelated: %v", err)
	}
	if ok {
		t.Error("expected no match for unrelated text")
	}
}

func TestSimilarityKeyDeterministicAndNormalized(t *testing.T) {
	v1 := SimilarityKey("hello world")
	v2 := SimilarityKey("hello world")
	if len(v1) != SimilarityDims {
		t.Fatalf("expected %d dims, got %d", SimilarityDims, len(v1))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("expected deterministic vector, differed at %d: %v vs %v", i, v1, v2)
		}
	}

	var normSq float64
	for _, x := range v1 {
		normSq += float64(x) * float64(x)
	}
	if normSq > 0 && (normSq < 0.99 || normSq > 1.01) {
		t.Errorf("expected unit-normalized vector, got squared norm %f", normSq)
	}
}

// Package store implements the TextUnit storage collaborator §6 describes
// as "external": a Postgres/pgvector-backed implementation, adapted from
// the teacher's internal/cache and internal/rag/vector_store.go, plus an
// in-memory fake this package's tests use so they never require a live
// database.
package store

import (
	"context"

	"game-localizer/internal/model"
)

// TextUnitStore is the narrow storage interface. The CLI's scan command
// upserts extracted units into it (--use-db) and its inject command reads
// translated units back out (--from-db); the session manager and the
// orchestrators do not use it.
type TextUnitStore interface {
	// Upsert stores freshly extracted units, keyed by ID. Re-extracting a
	// file overwrites the prior SourceText for the same ID but leaves
	// TranslatedText untouched unless the incoming unit carries one.
	Upsert(ctx context.Context, units []model.TextUnit) error

	// Get returns a single unit by ID.
	Get(ctx context.Context, id string) (model.TextUnit, bool, error)

	// ListByFile returns every unit extracted from a given relative file
	// path, in extraction order.
	ListByFile(ctx context.Context, filePath string) ([]model.TextUnit, error)

	// ListPending returns every unit whose Status is NotTranslated, in
	// insertion order — the feed a session is built from.
	ListPending(ctx context.Context) ([]model.TextUnit, error)

	// SetTranslation records a committed translation and marks the unit
	// Translated.
	SetTranslation(ctx context.Context, id, translatedText string) error

	// Translations returns the {id: translated_text} map injection needs,
	// restricted to the units that have a non-empty TranslatedText.
	Translations(ctx context.Context) ([]model.Translation, error)

	// NearestDuplicate returns the best-matching previously-stored unit for
	// sourceText whose similarity key is within the store's threshold, if
	// one exists with a non-empty translation already committed. This is a
	// translation-memory convenience, not part of the core contract.
	NearestDuplicate(ctx context.Context, sourceText string) (model.TextUnit, bool, error)
}

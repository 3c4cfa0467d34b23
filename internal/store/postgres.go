package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"game-localizer/internal/model"
)

// Postgres is the pgvector-backed TextUnitStore, adapted from the
// teacher's internal/cache.TranslationCache and
// internal/rag.VectorStore: a connection pool created once by the CLI's
// dependency wiring, a plain-SQL table instead of sqlc-generated queries
// (the teacher's generated dbgen package is not part of this domain), and
// a similarity column used for translation-memory lookups rather than
// RAG context retrieval.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConfigureTypes registers the pgvector extension type on a pool's
// connections. Call this on the pgxpool.Config's AfterConnect hook before
// constructing the pool, mirroring the teacher's pattern of preparing the
// pool once in the CLI's initDependencies step.
func ConfigureTypes(ctx context.Context, conn *pgx.Conn) error {
	return pgvector.RegisterTypes(ctx, conn)
}

// NewPostgres wraps an existing pool. EnsureSchema must be called once
// before use.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS text_units (
	id              text PRIMARY KEY,
	location        text NOT NULL,
	source_text     text NOT NULL,
	translated_text text NOT NULL DEFAULT '',
	field_type      text NOT NULL DEFAULT '',
	status          text NOT NULL DEFAULT 'NotTranslated',
	text_type       text NOT NULL DEFAULT '',
	entry_type      text NOT NULL DEFAULT '',
	file_path       text NOT NULL DEFAULT '',
	similarity      vector(64),
	seq             bigserial
);

CREATE INDEX IF NOT EXISTS text_units_file_path_idx ON text_units (file_path);
CREATE INDEX IF NOT EXISTS text_units_status_idx ON text_units (status);
`

// EnsureSchema creates the table and indexes if they do not already exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Upsert(ctx context.Context, units []model.TextUnit) error {
	if len(units) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, u := range units {
		vec := pgvector.NewVector(SimilarityKey(u.SourceText))
		batch.Queue(`
			INSERT INTO text_units (id, location, source_text, translated_text, field_type, status, text_type, entry_type, file_path, similarity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				location = EXCLUDED.location,
				source_text = EXCLUDED.source_text,
				translated_text = CASE WHEN EXCLUDED.translated_text <> '' THEN EXCLUDED.translated_text ELSE text_units.translated_text END,
				status = CASE WHEN EXCLUDED.translated_text <> '' THEN EXCLUDED.status ELSE text_units.status END,
				field_type = EXCLUDED.field_type,
				text_type = EXCLUDED.text_type,
				entry_type = EXCLUDED.entry_type,
				file_path = EXCLUDED.file_path,
				similarity = EXCLUDED.similarity
		`, u.ID, u.Location, u.SourceText, u.TranslatedText, u.FieldType, string(u.Status), string(u.TextType), u.EntryType, u.FilePath, vec)
	}
	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range units {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("store: upsert: %w", err)
		}
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (model.TextUnit, bool, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, location, source_text, translated_text, field_type, status, text_type, entry_type, file_path
		FROM text_units WHERE id = $1
	`, id)
	u, err := scanUnit(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.TextUnit{}, false, nil
		}
		return model.TextUnit{}, false, fmt.Errorf("store: get %s: %w", id, err)
	}
	return u, true, nil
}

func (p *Postgres) ListByFile(ctx context.Context, filePath string) ([]model.TextUnit, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, location, source_text, translated_text, field_type, status, text_type, entry_type, file_path
		FROM text_units WHERE file_path = $1 ORDER BY seq
	`, filePath)
	if err != nil {
		return nil, fmt.Errorf("store: list by file %s: %w", filePath, err)
	}
	defer rows.Close()
	return collectUnits(rows)
}

func (p *Postgres) ListPending(ctx context.Context) ([]model.TextUnit, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, location, source_text, translated_text, field_type, status, text_type, entry_type, file_path
		FROM text_units WHERE status = $1 ORDER BY seq
	`, string(model.StatusNotTranslated))
	if err != nil {
		return nil, fmt.Errorf("store: list pending: %w", err)
	}
	defer rows.Close()
	return collectUnits(rows)
}

func (p *Postgres) SetTranslation(ctx context.Context, id, translatedText string) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE text_units SET translated_text = $2, status = $3 WHERE id = $1
	`, id, translatedText, string(model.StatusTranslated))
	if err != nil {
		return fmt.Errorf("store: set translation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: unknown id %s", id)
	}
	return nil
}

func (p *Postgres) Translations(ctx context.Context) ([]model.Translation, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, translated_text FROM text_units WHERE translated_text <> '' ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("store: translations: %w", err)
	}
	defer rows.Close()
	var out []model.Translation
	for rows.Next() {
		var t model.Translation
		if err := rows.Scan(&t.ID, &t.TranslatedText); err != nil {
			return nil, fmt.Errorf("store: scan translation: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Postgres) NearestDuplicate(ctx context.Context, sourceText string) (model.TextUnit, bool, error) {
	vec := pgvector.NewVector(SimilarityKey(sourceText))
	row := p.pool.QueryRow(ctx, `
		SELECT id, location, source_text, translated_text, field_type, status, text_type, entry_type, file_path
		FROM text_units
		WHERE translated_text <> '' AND 1 - (similarity <=> $1) >= $2
		ORDER BY similarity <=> $1
		LIMIT 1
	`, vec, similarityThreshold)
	u, err := scanUnit(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.TextUnit{}, false, nil
		}
		return model.TextUnit{}, false, fmt.Errorf("store: nearest duplicate: %w", err)
	}
	return u, true, nil
}

func scanUnit(row pgx.Row) (model.TextUnit, error) {
	var u model.TextUnit
	var status, textType string
	if err := row.Scan(&u.ID, &u.Location, &u.SourceText, &u.TranslatedText, &u.FieldType, &status, &textType, &u.EntryType, &u.FilePath); err != nil {
		return model.TextUnit{}, err
	}
	u.Status = model.Status(status)
	u.TextType = model.TextType(textType)
	return u, nil
}

func collectUnits(rows pgx.Rows) ([]model.TextUnit, error) {
	var out []model.TextUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

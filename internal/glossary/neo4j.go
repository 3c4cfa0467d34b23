package glossary

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Neo4jResponder answers glossary lookups from a Neo4j graph where each
// term is a (:Term)-[:TRANSLATES_TO]->(:Term) pair tagged with language and
// category properties, and optionally scoped to a project by a project_id
// property on the TRANSLATES_TO relationship.
type Neo4jResponder struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jResponder wraps an existing driver. The driver's lifecycle (and
// its Close) is the caller's responsibility.
func NewNeo4jResponder(driver neo4j.DriverWithContext) *Neo4jResponder {
	return &Neo4jResponder{driver: driver}
}

const lookupQuery = `
MATCH (s:Term {language: $sourceLanguage})-[r:TRANSLATES_TO]->(t:Term {language: $targetLanguage})
WHERE (r.project_id IS NULL OR ($projectID IS NOT NULL AND r.project_id = $projectID))
  AND ($category IS NULL OR r.category = $category OR r.category = 'general')
RETURN s.text AS sourceTerm, t.text AS translatedTerm, r.category AS category, r.project_id AS projectID
`

func (n *Neo4jResponder) Lookup(ctx context.Context, req Request) (Response, error) {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	params := map[string]any{
		"sourceLanguage": req.SourceLanguage,
		"targetLanguage": req.TargetLanguage,
		"projectID":      req.ProjectID,
		"category":       req.Category,
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, lookupQuery, params)
		if err != nil {
			return nil, err
		}
		var entries []Entry
		for records.Next(ctx) {
			rec := records.Record()
			entry := Entry{
				SourceLanguage: req.SourceLanguage,
				TargetLanguage: req.TargetLanguage,
			}
			if v, ok := rec.Get("sourceTerm"); ok && v != nil {
				entry.SourceTerm, _ = v.(string)
			}
			if v, ok := rec.Get("translatedTerm"); ok && v != nil {
				entry.TranslatedTerm, _ = v.(string)
			}
			if v, ok := rec.Get("category"); ok && v != nil {
				entry.Category, _ = v.(string)
			}
			entries = append(entries, entry)
		}
		return entries, records.Err()
	})
	if err != nil {
		return Response{RequestID: req.RequestID, Success: false, Error: fmt.Sprintf("glossary: neo4j lookup failed: %v", err)}, err
	}

	entries, _ := result.([]Entry)
	return Response{RequestID: req.RequestID, Success: true, Data: entries}, nil
}

// EnsureSchema creates the uniqueness constraint the lookup query and
// SeedTerms rely on, adapted from the teacher's
// internal/graph.GraphBuilder.EnsureSchema (a single CREATE CONSTRAINT IF
// NOT EXISTS statement over a session).
func (n *Neo4jResponder) EnsureSchema(ctx context.Context) error {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Term) REQUIRE (t.text, t.language) IS UNIQUE", nil)
	if err != nil {
		return fmt.Errorf("glossary: create constraint: %w", err)
	}
	log.Info().Msg("glossary: schema ensured")
	return nil
}

// SeedTerms upserts a batch of glossary entries as (:Term)-[:TRANSLATES_TO]->(:Term)
// pairs, mirroring the teacher's SeedTerminology MERGE pattern but over
// caller-supplied entries instead of a hard-coded terminology list.
func (n *Neo4jResponder) SeedTerms(ctx context.Context, entries []Entry) error {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, e := range entries {
		_, err := session.Run(ctx, `
			MERGE (s:Term {text: $sourceTerm, language: $sourceLanguage})
			MERGE (t:Term {text: $translatedTerm, language: $targetLanguage})
			MERGE (s)-[r:TRANSLATES_TO]->(t)
			SET r.category = $category, r.project_id = $projectID
		`, map[string]any{
			"sourceTerm":     e.SourceTerm,
			"sourceLanguage": e.SourceLanguage,
			"translatedTerm": e.TranslatedTerm,
			"targetLanguage": e.TargetLanguage,
			"category":       e.Category,
			"projectID":      e.ProjectID,
		})
		if err != nil {
			return fmt.Errorf("glossary: seed term %s: %w", e.SourceTerm, err)
		}
	}
	log.Info().Int("terms", len(entries)).Msg("glossary: seeded terms")
	return nil
}

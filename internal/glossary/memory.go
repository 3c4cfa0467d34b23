package glossary

import "context"

// MemoryResponder is an in-process Responder backed by a static term list,
// used by tests and, with no entries, by the CLI as the fallback responder
// when Neo4j is unreachable.
type MemoryResponder struct {
	Entries []Entry
}

func (m *MemoryResponder) Lookup(_ context.Context, req Request) (Response, error) {
	var matched []Entry
	for _, e := range m.Entries {
		if e.SourceLanguage != req.SourceLanguage || e.TargetLanguage != req.TargetLanguage {
			continue
		}
		if req.ProjectID == nil && e.ProjectID != nil {
			continue
		}
		if req.ProjectID != nil && e.ProjectID != nil && *e.ProjectID != *req.ProjectID {
			continue
		}
		if req.Category != nil && e.Category != *req.Category && e.Category != "general" {
			continue
		}
		matched = append(matched, e)
	}
	return Response{RequestID: req.RequestID, Success: true, Data: matched}, nil
}

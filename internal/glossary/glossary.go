// Package glossary implements the glossary lookup contract (C8 responder
// side): a request/response exchange correlated by a freshly generated
// request id, backed by Neo4j, with category-filtering semantics and a
// fail-open timeout at the call site.
package glossary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"game-localizer/internal/model"
)

// Entry is a single glossary term.
type Entry struct {
	SourceTerm     string
	TranslatedTerm string
	SourceLanguage string
	TargetLanguage string
	Category       string
	ProjectID      *int64
}

// Request is the lookup request body; RequestID is always generated by
// NewRequest, never supplied by the caller.
type Request struct {
	RequestID      string
	SourceLanguage string
	TargetLanguage string
	ProjectID      *int64
	Category       *string
}

// Response is the lookup response body.
type Response struct {
	RequestID string
	Success   bool
	Data      []Entry
	Error     string
}

// Responder answers one glossary lookup request with one response,
// correlated by RequestID.
type Responder interface {
	Lookup(ctx context.Context, req Request) (Response, error)
}

// NewRequest builds a request with a freshly generated request id.
func NewRequest(sourceLanguage, targetLanguage string, projectID *int64, category *string) Request {
	return Request{
		RequestID:      uuid.NewString(),
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		ProjectID:      projectID,
		Category:       category,
	}
}

// DefaultTimeout is the fail-open window: if the responder hasn't answered
// within this window, LookupFailOpen returns no terms rather than blocking
// translation on glossary availability.
const DefaultTimeout = 10 * time.Second

// LookupFailOpen calls responder.Lookup under DefaultTimeout, and on any
// error — including a timeout — returns an empty term list instead of
// propagating the error, per the fail-open glossary contract.
func LookupFailOpen(ctx context.Context, responder Responder, req Request) []Entry {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := responder.Lookup(ctx, req)
	if err != nil || !resp.Success {
		return nil
	}
	return resp.Data
}

// CategoryFor maps a model.TextType to the glossary category filter,
// per the documented mapping: dialogue -> character, other -> general,
// general text_type -> nil (no filter).
func CategoryFor(textType model.TextType) *string {
	var category string
	switch textType {
	case model.TextCharacter, model.TextDialogue:
		category = "character"
	case model.TextSystem:
		category = "system"
	case model.TextItem:
		category = "item"
	case model.TextSkill:
		category = "skill"
	case model.TextOther:
		category = "general"
	default:
		return nil
	}
	return &category
}

// FormatForPrompt renders glossary terms in the GLOSSARY: block format the
// prompt builder splices into the translation prompt. An empty term list
// produces an empty string.
func FormatForPrompt(terms []Entry) string {
	if len(terms) == 0 {
		return ""
	}
	out := "GLOSSARY:\n"
	for _, t := range terms {
		out += fmt.Sprintf("%s: %s\n", t.SourceTerm, t.TranslatedTerm)
	}
	return out + "\n"
}

package store

import (
	"context"
	"fmt"
	"math"
	"sync"

	"game-localizer/internal/model"
)

// Memory is an in-process TextUnitStore backed by a map, preserving
// insertion order for ListPending. Used by tests.
type Memory struct {
	mu     sync.Mutex
	order  []string
	byID   map[string]model.TextUnit
	byFile map[string][]string
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]model.TextUnit),
		byFile: make(map[string][]string),
	}
}

func (m *Memory) Upsert(_ context.Context, units []model.TextUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range units {
		prev, exists := m.byID[u.ID]
		if !exists {
			m.order = append(m.order, u.ID)
			m.byFile[u.FilePath] = append(m.byFile[u.FilePath], u.ID)
		} else if u.TranslatedText == "" {
			u.TranslatedText = prev.TranslatedText
			u.Status = prev.Status
		}
		m.byID[u.ID] = u
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (model.TextUnit, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	return u, ok, nil
}

func (m *Memory) ListByFile(_ context.Context, filePath string) ([]model.TextUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.byFile[filePath]
	out := make([]model.TextUnit, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *Memory) ListPending(_ context.Context) ([]model.TextUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.TextUnit
	for _, id := range m.order {
		u := m.byID[id]
		if u.Status == model.StatusNotTranslated {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *Memory) SetTranslation(_ context.Context, id, translatedText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("store: unknown id %s", id)
	}
	u.TranslatedText = translatedText
	u.Status = model.StatusTranslated
	m.byID[id] = u
	return nil
}

func (m *Memory) Translations(_ context.Context) ([]model.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Translation
	for _, id := range m.order {
		u := m.byID[id]
		if u.TranslatedText != "" {
			out = append(out, model.Translation{ID: u.ID, TranslatedText: u.TranslatedText})
		}
	}
	return out, nil
}

// similarityThreshold is the minimum cosine similarity NearestDuplicate
// requires before returning a match.
const similarityThreshold = 0.92

func (m *Memory) NearestDuplicate(_ context.Context, sourceText string) (model.TextUnit, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := SimilarityKey(sourceText)
	var best model.TextUnit
	bestScore := -1.0
	for _, id := range m.order {
		u := m.byID[id]
		if u.TranslatedText == "" {
			continue
		}
		score := cosine(query, SimilarityKey(u.SourceText))
		if score > bestScore {
			bestScore = score
			best = u
		}
	}
	if bestScore < similarityThreshold {
		return model.TextUnit{}, false, nil
	}
	return best, true, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

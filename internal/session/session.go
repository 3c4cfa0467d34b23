// Package session implements the sequential translation session manager
// (C7): one entry translated at a time, cancellable and pausable, with a
// drainable success buffer and batch-pause semantics.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"game-localizer/internal/glossary"
	"game-localizer/internal/model"
	"game-localizer/internal/providerhttp"
	"game-localizer/internal/textutil"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle      Status = "Idle"
	StatusRunning   Status = "Running"
	StatusPaused    Status = "Paused"
	StatusCompleted Status = "Completed"
	StatusError     Status = "Error"
)

// Settings are the per-session translation parameters.
type Settings struct {
	SourceLanguage string
	TargetLanguage string
	Model          string
	ProjectID      *int64
}

// PauseConfig controls the inter-batch pause. The canonical defaults —
// enabled, 150-entry batches, 5-minute pauses — come from RunPod-style
// configuration-driven cooldowns rather than a hardcoded constant, since
// the pause exists to respect a rate limit that varies per deployment.
type PauseConfig struct {
	Enabled         bool
	BatchSize       int
	DurationMinutes int
}

// DefaultPauseConfig is the canonical default referenced throughout the
// spec where a session is started without an explicit override.
func DefaultPauseConfig() PauseConfig {
	return PauseConfig{Enabled: true, BatchSize: 150, DurationMinutes: 5}
}

// TranslationError records a single entry's failure without aborting the
// session.
type TranslationError struct {
	ID      string
	Message string
}

// Result is one committed translation, appended to the success buffer in
// processing order.
type Result struct {
	ID             string
	TranslatedText string
}

// Progress is the snapshot get_progress returns. SuccessfulTranslations and
// the session's internal error list: errors accumulate cumulatively across
// the session's lifetime (unlike the success buffer, which drains).
type Progress struct {
	SessionID              string
	CurrentEntry           string
	ProcessedCount         int
	TotalCount             int
	Status                 Status
	EstimatedTimeRemaining *time.Duration
	Errors                 []TranslationError
	SuccessfulTranslations []Result
	PauseTimeRemaining     *time.Duration
}

// entryDelay is the sleep between entries within a running session.
const entryDelay = 500 * time.Millisecond

type session struct {
	mu sync.Mutex

	id       string
	texts    []model.TextUnit
	settings Settings
	pause    PauseConfig

	cursor       int
	processed    map[string]bool
	errors       []TranslationError
	successBuf   []Result
	status       Status
	batchCounter int
	pauseEndTime *time.Time

	cancel context.CancelFunc
}

// Manager owns the global session registry and the dependencies every
// running session needs: a translation provider and a glossary responder.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	provider  providerhttp.Provider
	responder glossary.Responder
}

// NewManager constructs a session manager bound to a provider and glossary
// responder.
func NewManager(provider providerhttp.Provider, responder glossary.Responder) *Manager {
	return &Manager{
		sessions:  make(map[string]*session),
		provider:  provider,
		responder: responder,
	}
}

// StartSession creates a session over texts and immediately begins
// processing in the background, returning the new session id.
func (m *Manager) StartSession(texts []model.TextUnit, settings Settings, pause PauseConfig) string {
	id := uuid.NewString()
	s := &session{
		id:        id,
		texts:     texts,
		settings:  settings,
		pause:     pause,
		processed: make(map[string]bool, len(texts)),
		status:    StatusRunning,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.spawn(s)
	return id
}

// spawn starts (or resumes) the background processing task for a session.
func (m *Manager) spawn(s *session) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	go m.run(ctx, s)
}

func (m *Manager) run(ctx context.Context, s *session) {
	for {
		s.mu.Lock()
		if s.status != StatusRunning || s.cursor >= len(s.texts) {
			if s.cursor >= len(s.texts) && s.status == StatusRunning {
				s.status = StatusCompleted
			}
			s.mu.Unlock()
			return
		}
		unit := s.texts[s.cursor]
		s.mu.Unlock()

		// processEntry deliberately uses a fresh, non-cancelable context: pause
		// and stop are cooperative and never abort an in-flight provider call.
		m.processEntry(context.Background(), s, unit)

		s.mu.Lock()
		if s.status != StatusRunning {
			s.mu.Unlock()
			return
		}
		s.batchCounter++
		if s.pause.Enabled && s.batchCounter >= s.pause.BatchSize {
			end := time.Now().Add(time.Duration(s.pause.DurationMinutes) * time.Minute)
			s.pauseEndTime = &end
			s.batchCounter = 0
			s.mu.Unlock()

			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(end)):
			}

			s.mu.Lock()
			s.pauseEndTime = nil
			s.mu.Unlock()
		} else {
			s.mu.Unlock()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(entryDelay):
		}
	}
}

func (m *Manager) processEntry(ctx context.Context, s *session, unit model.TextUnit) {
	category := glossary.CategoryFor(unit.TextType)
	req := glossary.NewRequest(s.settings.SourceLanguage, s.settings.TargetLanguage, s.settings.ProjectID, category)
	terms := glossary.LookupFailOpen(ctx, m.responder, req)

	prompt := BuildPrompt(terms, s.settings.SourceLanguage, s.settings.TargetLanguage, unit.SourceText)

	translated, err := m.provider.Call(ctx, prompt, s.settings.Model)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Str("id", unit.ID).Str("source_text", textutil.Truncate(unit.SourceText, 80)).
			Msg("session: translation failed, continuing")
		s.errors = append(s.errors, TranslationError{ID: unit.ID, Message: err.Error()})
		s.processed[unit.ID] = false
	} else {
		s.successBuf = append(s.successBuf, Result{ID: unit.ID, TranslatedText: translated})
		s.processed[unit.ID] = true
	}
	s.cursor++
}

// BuildPrompt composes the single-entry translation prompt: an optional
// glossary block followed by the instruction line.
func BuildPrompt(terms []glossary.Entry, sourceLanguage, targetLanguage, sourceText string) string {
	return glossary.FormatForPrompt(terms) + fmt.Sprintf("Translate from %s to %s: %s", sourceLanguage, targetLanguage, sourceText)
}

// GetProgress returns a snapshot and drains the success buffer.
func (m *Manager) GetProgress(sessionID string) (Progress, error) {
	s, err := m.get(sessionID)
	if err != nil {
		return Progress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	processedCount := len(s.processed)

	var currentEntry string
	if s.cursor < len(s.texts) {
		currentEntry = s.texts[s.cursor].ID
	}

	var eta *time.Duration
	if processedCount > 0 {
		d := time.Duration(3*(len(s.texts)-processedCount)) * time.Second
		eta = &d
	}

	var pauseRemaining *time.Duration
	if s.pauseEndTime != nil {
		remaining := time.Until(*s.pauseEndTime)
		if remaining < 0 {
			remaining = 0
		}
		pauseRemaining = &remaining
	}

	drained := s.successBuf
	s.successBuf = nil

	return Progress{
		SessionID:              s.id,
		CurrentEntry:           currentEntry,
		ProcessedCount:         processedCount,
		TotalCount:             len(s.texts),
		Status:                 s.status,
		EstimatedTimeRemaining: eta,
		Errors:                 append([]TranslationError(nil), s.errors...),
		SuccessfulTranslations: drained,
		PauseTimeRemaining:     pauseRemaining,
	}, nil
}

// PauseSession sets status Paused; the running loop exits at its next
// iteration boundary.
func (m *Manager) PauseSession(sessionID string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusPaused
	return nil
}

// ResumeSession sets status Running and spawns a fresh processing task
// continuing from the current cursor.
func (m *Manager) ResumeSession(sessionID string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.status != StatusPaused {
		s.mu.Unlock()
		return fmt.Errorf("session: %s is not paused", sessionID)
	}
	s.status = StatusRunning
	s.mu.Unlock()

	m.spawn(s)
	return nil
}

// StopSession sets status Idle without resetting the cursor. A stopped
// session can be inspected but never resumed.
func (m *Manager) StopSession(sessionID string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.status = StatusIdle
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// ActiveSession is a summary row for the list-active operation.
type ActiveSession struct {
	SessionID      string
	Status         Status
	ProcessedCount int
	TotalCount     int
}

// ListActive returns a summary of every session the registry still holds,
// including completed and stopped ones (§3: "retained until explicitly
// discarded").
func (m *Manager) ListActive() []ActiveSession {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	out := make([]ActiveSession, 0, len(ids))
	for _, id := range ids {
		s, err := m.get(id)
		if err != nil {
			continue
		}
		s.mu.Lock()
		processed := len(s.processed)
		out = append(out, ActiveSession{
			SessionID:      s.id,
			Status:         s.status,
			ProcessedCount: processed,
			TotalCount:     len(s.texts),
		})
		s.mu.Unlock()
	}
	return out
}

// StartSingle starts a one-entry session, the ad hoc retranslation path
// the outer command layer's "start-single" operation needs.
func (m *Manager) StartSingle(text model.TextUnit, settings Settings) string {
	return m.StartSession([]model.TextUnit{text}, settings, PauseConfig{Enabled: false})
}

// GetSuggestions performs a single glossary lookup outside of any session,
// the "get-suggestions" operation: a translator UI can call this to show
// candidate terms for a piece of text before committing to a translation.
func (m *Manager) GetSuggestions(ctx context.Context, sourceText, sourceLanguage, targetLanguage string, textType model.TextType, projectID *int64) []glossary.Entry {
	category := glossary.CategoryFor(textType)
	req := glossary.NewRequest(sourceLanguage, targetLanguage, projectID, category)
	return glossary.LookupFailOpen(ctx, m.responder, req)
}

func (m *Manager) get(sessionID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session: unknown session id %s", sessionID)
	}
	return s, nil
}

package session

import (
	"sync"
	"time"

	"github.com/khansaheem825/grammar-evaluator/internal/prompt"
)

// Record is one immutable audit entry of an evaluation attempt, success or
// failure. Failed attempts carry the error-feedback placeholder as their
// feedback text.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Original  string    `json:"original"`
	Feedback  string    `json:"feedback"`
	Model     string    `json:"model"`
}

// Settings holds the per-session knobs exposed by the settings surface.
type Settings struct {
	Model       string
	Verbosity   prompt.Verbosity
	DarkMode    bool
	Temperature float32
	MaxTokens   int
}

// Session is the request-scoped state object: bounded evaluation history
// plus the user's current settings. There is one logical writer per session,
// but the HTTP server is concurrent, so access is mutex-guarded.
type Session struct {
	ID string

	mu           sync.Mutex
	records      []Record
	maxRecords   int
	settings     Settings
	lastInput    string
	lastFeedback string
	lastActive   time.Time
}

func newSession(id, defaultModel string, maxRecords int) *Session {
	return &Session{
		ID:         id,
		maxRecords: maxRecords,
		settings: Settings{
			Model:       defaultModel,
			Verbosity:   prompt.VerbosityDetailed,
			Temperature: 0.7,
			MaxTokens:   400,
		},
		lastActive: time.Now(),
	}
}

// Append adds one record. When the bound is reached the oldest record is
// evicted; insertion order stays chronological.
func (s *Session) Append(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxRecords > 0 && len(s.records) >= s.maxRecords {
		s.records = s.records[1:]
	}
	s.records = append(s.records, rec)
	s.lastInput = rec.Original
	s.lastFeedback = rec.Feedback
	s.lastActive = time.Now()
}

// Records returns a snapshot of the history in insertion order.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Clear atomically empties the history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.lastInput = ""
	s.lastFeedback = ""
	s.lastActive = time.Now()
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) UpdateSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.lastActive = time.Now()
}

// Last returns the most recent input and feedback, empty until the first
// evaluation.
func (s *Session) Last() (input, feedback string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInput, s.lastFeedback
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

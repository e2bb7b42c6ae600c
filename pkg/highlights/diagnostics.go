package highlights

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	MissReasonLocatorNotFound = "locator_not_found"
	MissReasonMalformedRecord = "malformed_record"
)

// MissEvent describes a highlight that couldn't be placed on its page.
type MissEvent struct {
	HighlightID string `json:"highlight_id"`
	BookID      string `json:"book_id"`
	PageIndex   int    `json:"page_index"`
	Reason      string `json:"reason"`
	Err         error  `json:"-"`
}

func newMissEvent(r Record, err error) MissEvent {
	reason := MissReasonLocatorNotFound
	if errors.Is(err, ErrMalformedRecord) {
		reason = MissReasonMalformedRecord
	}
	return MissEvent{
		HighlightID: r.ID,
		BookID:      r.BookID,
		PageIndex:   r.PageIndex,
		Reason:      reason,
		Err:         err,
	}
}

// DiagnosticsSink receives misses. Implementations must not block.
type DiagnosticsSink interface {
	Miss(event MissEvent)
}

type NopSink struct{}

func (NopSink) Miss(MissEvent) {}

// LogSink writes every miss as a warning.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Miss(event MissEvent) {
	s.log.Warn("highlight range not found", logger.Data{
		"highlight_id": event.HighlightID,
		"book_id":      event.BookID,
		"page_index":   event.PageIndex,
		"reason":       event.Reason,
	})
}

// Recorder keeps misses in memory.
type Recorder struct {
	mu     sync.Mutex
	events []MissEvent
}

func (r *Recorder) Miss(event MissEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded misses in the order they happened.
func (r *Recorder) Events() []MissEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]MissEvent, len(r.events))
	copy(events, r.events)
	return events
}

// MultiSink fans a miss out to several sinks.
type MultiSink []DiagnosticsSink

func (m MultiSink) Miss(event MissEvent) {
	for _, s := range m {
		if s != nil {
			s.Miss(event)
		}
	}
}

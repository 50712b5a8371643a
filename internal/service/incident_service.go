package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naineek/trafficdash/internal/domain"
)

// MaxLogEntries bounds the in-memory incident and feedback logs.
const MaxLogEntries = 100

// IncidentService keeps the incident log and feedback in memory. Nothing here
// survives a restart.
type IncidentService struct {
	mu        sync.RWMutex
	incidents []domain.Incident
	feedback  []domain.Feedback
	now       func() time.Time
}

// NewIncidentService creates the log seeded with the standing Newtown accident
func NewIncidentService(now func() time.Time) *IncidentService {
	if now == nil {
		now = time.Now
	}
	s := &IncidentService{now: now}
	s.incidents = append(s.incidents, domain.Incident{
		ID:         uuid.NewString(),
		Type:       domain.IncidentAccident,
		Location:   "MAR, Newtown",
		Severity:   domain.SeverityHigh,
		ReportedAt: now(),
	})
	return s
}

// List returns incidents, newest first.
func (s *IncidentService) List(ctx context.Context) []domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Incident, len(s.incidents))
	for i, inc := range s.incidents {
		out[len(s.incidents)-1-i] = inc
	}
	return out
}

// Report validates and records an incident.
func (s *IncidentService) Report(ctx context.Context, r domain.IncidentReport) (domain.Incident, error) {
	if err := r.Validate(); err != nil {
		return domain.Incident{}, err
	}

	inc := domain.Incident{
		ID:         uuid.NewString(),
		Type:       r.Type,
		Location:   r.Location,
		Severity:   r.Severity,
		ReportedAt: s.now(),
	}

	s.mu.Lock()
	s.incidents = append(s.incidents, inc)
	if n := len(s.incidents); n > MaxLogEntries {
		s.incidents = append([]domain.Incident(nil), s.incidents[n-MaxLogEntries:]...)
	}
	s.mu.Unlock()

	return inc, nil
}

// SubmitFeedback validates and records feedback.
func (s *IncidentService) SubmitFeedback(ctx context.Context, text string) (domain.Feedback, error) {
	text, err := domain.NormalizeFeedback(text)
	if err != nil {
		return domain.Feedback{}, err
	}

	fb := domain.Feedback{
		ID:          uuid.NewString(),
		Text:        text,
		SubmittedAt: s.now(),
	}

	s.mu.Lock()
	s.feedback = append(s.feedback, fb)
	if n := len(s.feedback); n > MaxLogEntries {
		s.feedback = append([]domain.Feedback(nil), s.feedback[n-MaxLogEntries:]...)
	}
	s.mu.Unlock()

	return fb, nil
}

// FeedbackCount returns the number of retained feedback entries.
func (s *IncidentService) FeedbackCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feedback)
}

package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// IncidentType classifies a reported road event.
type IncidentType string

const (
	IncidentAccident    IncidentType = "Accident"
	IncidentBreakdown   IncidentType = "Breakdown"
	IncidentObstruction IncidentType = "Obstruction"
)

// IncidentTypes lists every incident type.
var IncidentTypes = []IncidentType{IncidentAccident, IncidentBreakdown, IncidentObstruction}

// Severity of a reported incident.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Severities lists every severity.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// Incident represents a road event like an accident or breakdown
type Incident struct {
	ID         string       `json:"id"`
	Type       IncidentType `json:"type"`
	Location   string       `json:"location"`
	Severity   Severity     `json:"severity"`
	ReportedAt time.Time    `json:"reported_at"`
}

// IncidentReport is the payload of the incident form.
type IncidentReport struct {
	Type     IncidentType `json:"type"`
	Location string       `json:"location"`
	Severity Severity     `json:"severity"`
}

// Validate checks the report and trims the location.
func (r *IncidentReport) Validate() error {
	found := false
	for _, t := range IncidentTypes {
		if r.Type == t {
			found = true
			break
		}
	}
	if !found {
		return NewInputError("type", string(r.Type), "unknown incident type")
	}

	found = false
	for _, s := range Severities {
		if r.Severity == s {
			found = true
			break
		}
	}
	if !found {
		return NewInputError("severity", string(r.Severity), "unknown severity")
	}

	r.Location = strings.TrimSpace(r.Location)
	if r.Location == "" {
		return NewInputError("location", "", "location is required")
	}
	return nil
}

// MaxFeedbackLength caps feedback text, counted in runes.
const MaxFeedbackLength = 2000

// Feedback is a civic feedback submission.
type Feedback struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NormalizeFeedback trims text and checks its length.
func NormalizeFeedback(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewInputError("feedback", "", "feedback is empty")
	}
	if utf8.RuneCountInString(text) > MaxFeedbackLength {
		return "", NewInputError("feedback", string([]rune(text)[:32]), "feedback is too long")
	}
	return text, nil
}

// AlertLevel is the emergency level chosen by the operator.
type AlertLevel string

const (
	AlertNone     AlertLevel = "None"
	AlertMedium   AlertLevel = "Medium"
	AlertHigh     AlertLevel = "High"
	AlertCritical AlertLevel = "Critical"
)

// AlertLevels lists every alert level in escalating order.
var AlertLevels = []AlertLevel{AlertNone, AlertMedium, AlertHigh, AlertCritical}

// Alert is the advice shown for an alert level.
type Alert struct {
	Level  AlertLevel `json:"level"`
	Color  string     `json:"color"`
	Banner string     `json:"banner"`
	Action string     `json:"action"`
}

// ParseAlertLevel resolves an alert level, case-insensitively. Empty means None.
func ParseAlertLevel(s string) (AlertLevel, error) {
	if s == "" {
		return AlertNone, nil
	}
	for _, l := range AlertLevels {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", NewInputError("alert", s, "unknown alert level")
}

// Advice returns the banner and required action for the level.
func (l AlertLevel) Advice() Alert {
	switch l {
	case AlertMedium:
		return Alert{
			Level:  l,
			Color:  "brown",
			Banner: "EMERGENCY LEVEL: MEDIUM",
			Action: "Notify police and adjust signal timing as needed.",
		}
	case AlertHigh:
		return Alert{
			Level:  l,
			Color:  "orange",
			Banner: "EMERGENCY LEVEL: HIGH",
			Action: "Immediate traffic management intervention needed to reduce congestion in critical areas.",
		}
	case AlertCritical:
		return Alert{
			Level:  l,
			Color:  "red",
			Banner: "EMERGENCY LEVEL: CRITICAL",
			Action: "Urgent intervention required. Police and emergency services must be notified immediately.",
		}
	default:
		return Alert{
			Level:  AlertNone,
			Color:  "green",
			Banner: "Traffic is under control.",
			Action: "No emergency action required.",
		}
	}
}

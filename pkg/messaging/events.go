package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Profile events
	EventProfileUpdated = "people.profile.updated"

	// Absence events
	EventAbsenceSubmitted = "people.absence.submitted"
	EventAbsenceApproved  = "people.absence.approved"
	EventAbsenceRejected  = "people.absence.rejected"
	EventAbsenceCompleted = "people.absence.completed"

	// Feedback events
	EventFeedbackCreated = "people.feedback.created"
)

// Exchange names
const (
	ExchangePeopleEvents = "people.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// ProfileUpdatedEvent is published when a profile edit is persisted
type ProfileUpdatedEvent struct {
	EmployeeID string   `json:"employee_id"`
	UpdatedBy  string   `json:"updated_by"`
	Fields     []string `json:"fields"`
}

// AbsenceSubmittedEvent is published when a new absence request is created
type AbsenceSubmittedEvent struct {
	AbsenceID   string `json:"absence_id"`
	EmployeeID  string `json:"employee_id"`
	AbsenceType string `json:"absence_type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// AbsenceDecidedEvent is published when a pending absence is approved or rejected
type AbsenceDecidedEvent struct {
	AbsenceID  string `json:"absence_id"`
	EmployeeID string `json:"employee_id"`
	ReviewerID string `json:"reviewer_id"`
	Status     string `json:"status"`
}

// AbsenceCompletedEvent is published when the sweep moves an absence to COMPLETED
type AbsenceCompletedEvent struct {
	AbsenceID  string `json:"absence_id"`
	EmployeeID string `json:"employee_id"`
}

// FeedbackCreatedEvent is published when feedback is recorded
type FeedbackCreatedEvent struct {
	FeedbackID  string `json:"feedback_id"`
	AuthorID    string `json:"author_id"`
	RecipientID string `json:"recipient_id"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}

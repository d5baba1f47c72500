package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type InstallationStatus string

const (
	StatusPending    InstallationStatus = "pending"
	StatusInProgress InstallationStatus = "in_progress"
	StatusCompleted  InstallationStatus = "completed"
	StatusLate       InstallationStatus = "late"
)

var InstallationStatuses = []InstallationStatus{StatusPending, StatusInProgress, StatusCompleted, StatusLate}

func (s InstallationStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusLate:
		return "Late"
	}
	return string(s)
}

type ElevatorType string

const (
	ElevatorPersonal  ElevatorType = "personal"
	ElevatorFreight   ElevatorType = "freight"
	ElevatorHospital  ElevatorType = "hospital"
	ElevatorPanoramic ElevatorType = "panoramic"
)

var ElevatorTypes = []ElevatorType{ElevatorPersonal, ElevatorFreight, ElevatorHospital, ElevatorPanoramic}

func (t ElevatorType) Label() string {
	switch t {
	case ElevatorPersonal:
		return "Personal"
	case ElevatorFreight:
		return "Freight"
	case ElevatorHospital:
		return "Hospital"
	case ElevatorPanoramic:
		return "Panoramic"
	}
	return string(t)
}

type Installation struct {
	ID             string             `json:"id" validate:"required,installation_id"`
	Client         string             `json:"client" validate:"required"`
	Country        string             `json:"country" validate:"required"`
	City           string             `json:"city"`
	Status         InstallationStatus `json:"status" validate:"oneof=pending in_progress completed late"`
	ElevatorType   ElevatorType       `json:"elevatorType" validate:"oneof=personal freight hospital panoramic"`
	Deadline       Date               `json:"deadline" validate:"required"`
	Cost           float64            `json:"cost" validate:"gte=0"`
	Responsible    string             `json:"responsible"`
	Progress       int                `json:"progress" validate:"gte=0,lte=100"`
	StartDate      Date               `json:"startDate" validate:"required"`
	CompletionDate *Date              `json:"completionDate,omitempty"`
	Description    string             `json:"description"`
}

type InteractionStatus string

const (
	InteractionPending    InteractionStatus = "pending"
	InteractionInProgress InteractionStatus = "in_progress"
	InteractionCompleted  InteractionStatus = "completed"
	InteractionCancelled  InteractionStatus = "cancelled"
)

var InteractionStatuses = []InteractionStatus{InteractionPending, InteractionInProgress, InteractionCompleted, InteractionCancelled}

func (s InteractionStatus) Label() string {
	switch s {
	case InteractionPending:
		return "Pending"
	case InteractionInProgress:
		return "In progress"
	case InteractionCompleted:
		return "Completed"
	case InteractionCancelled:
		return "Cancelled"
	}
	return string(s)
}

type InteractionType string

const (
	InteractionMeeting      InteractionType = "meeting"
	InteractionPresentation InteractionType = "presentation"
	InteractionFollowUp     InteractionType = "follow_up"
	InteractionSupport      InteractionType = "support"
	InteractionNegotiation  InteractionType = "negotiation"
)

var InteractionTypes = []InteractionType{InteractionMeeting, InteractionPresentation, InteractionFollowUp, InteractionSupport, InteractionNegotiation}

func (t InteractionType) Label() string {
	switch t {
	case InteractionMeeting:
		return "Meeting"
	case InteractionPresentation:
		return "Presentation"
	case InteractionFollowUp:
		return "Follow-up"
	case InteractionSupport:
		return "Support"
	case InteractionNegotiation:
		return "Negotiation"
	}
	return string(t)
}

type Interaction struct {
	ID          int               `json:"id" validate:"gte=1"`
	ClientName  string            `json:"clientName" validate:"required"`
	Description string            `json:"description"`
	Date        Date              `json:"date" validate:"required"`
	Status      InteractionStatus `json:"status" validate:"oneof=pending in_progress completed cancelled"`
	Type        InteractionType   `json:"type" validate:"oneof=meeting presentation follow_up support negotiation"`
}

type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackAnswered FeedbackStatus = "answered"
)

func (s FeedbackStatus) Label() string {
	switch s {
	case FeedbackPending:
		return "Pending"
	case FeedbackAnswered:
		return "Answered"
	}
	return string(s)
}

type Feedback struct {
	ID          int64          `json:"id" validate:"required"`
	ClientName  string         `json:"clientName" validate:"required"`
	ClientID    string         `json:"clientId"`
	Country     string         `json:"country"`
	ProjectName string         `json:"projectName,omitempty"`
	Rating      int            `json:"rating" validate:"gte=1,lte=5"`
	Comment     string         `json:"comment"`
	Status      FeedbackStatus `json:"status" validate:"oneof=pending answered"`
	Date        Date           `json:"date" validate:"required"`
	Responsible string         `json:"responsible"`
	Response    *string        `json:"response"`
}

// FeedbackSubmission is what a client enters in the feedback form.
type FeedbackSubmission struct {
	ClientName  string
	ProjectName string
	Rating      int
	Comment     string
}

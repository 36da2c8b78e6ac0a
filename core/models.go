package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

type TodoStatus string

const (
	StatusPending     TodoStatus = "pending"
	StatusInProgress  TodoStatus = "in-progress"
	StatusCompleted   TodoStatus = "completed"
	StatusUncompleted TodoStatus = "uncompleted"
)

func isValidStatus(st TodoStatus) bool {
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusUncompleted:
		return true
	}
	return false
}

// TodoType says which planning window a todo belongs to: the current
// ISO week or a future one.
type TodoType string

const (
	TypeCurrent TodoType = "current"
	TypeNext    TodoType = "next"
)

func isValidType(tt TodoType) bool {
	return tt == TypeCurrent || tt == TypeNext
}

type User struct {
	Key        string `json:"user_key" db:"user_key"`
	Name       string `json:"name" db:"name"`
	Role       string `json:"role" db:"role"`
	Department string `json:"department" db:"department"`
	Unit       string `json:"unit" db:"unit"`
	Level      string `json:"level" db:"level"`
}

type Todo struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        TodoType       `json:"todo_type"`
	Status      TodoStatus     `json:"status"`
	DueDate     time.Time      `json:"due_date"`
	AssigneeKey string         `json:"assignee_key"`
	AssignerKey string         `json:"assigner_key"`
	Archived    bool           `json:"archived"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SelfAssigned reports whether the todo was assigned by its own assignee.
func (t Todo) SelfAssigned() bool {
	return t.AssignerKey == t.AssigneeKey
}

type EventType string

const (
	EventAssigned            EventType = "assigned"
	EventStatusChanged       EventType = "status_changed"
	EventDueDateChanged      EventType = "due_date_changed"
	EventAssignedFromMeeting EventType = "assigned_from_meeting"
	EventAutoTransfer        EventType = "auto_transfer"
	EventArchived            EventType = "archived"
)

// HistoryEntry is one immutable audit record. Entries are append-only
// and their stored order is chronological. Timestamps are kept in UTC;
// display-zone conversion is the renderer's job. An empty Actor means
// the event was produced by the system, not a user.
type HistoryEntry struct {
	EventType EventType    `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	Actor     string       `json:"actor,omitempty"`
	Details   EventDetails `json:"details"`
}

// EventDetails is the per-event payload. One concrete variant exists
// per EventType, so readers never probe for optional fields.
type EventDetails interface {
	eventType() EventType
}

type AssignedDetails struct {
	AssignedTo string `json:"assigned_to"`
}

type StatusChangedDetails struct {
	OldStatus TodoStatus `json:"old_status"`
	NewStatus TodoStatus `json:"new_status"`
	Reason    string     `json:"reason,omitempty"`
}

type DueDateChangedDetails struct {
	OldDueDate time.Time `json:"old_due_date"`
	NewDueDate time.Time `json:"new_due_date"`
	Reason     string    `json:"reason,omitempty"`
}

type MeetingAssignedDetails struct {
	AssignedBy string `json:"assigned_by"`
	AssignedTo string `json:"assigned_to"`
}

type AutoTransferDetails struct {
	FromType TodoType  `json:"from_type"`
	ToType   TodoType  `json:"to_type"`
	DueDate  time.Time `json:"due_date"`
}

type ArchivedDetails struct{}

func (AssignedDetails) eventType() EventType        { return EventAssigned }
func (StatusChangedDetails) eventType() EventType   { return EventStatusChanged }
func (DueDateChangedDetails) eventType() EventType  { return EventDueDateChanged }
func (MeetingAssignedDetails) eventType() EventType { return EventAssignedFromMeeting }
func (AutoTransferDetails) eventType() EventType    { return EventAutoTransfer }
func (ArchivedDetails) eventType() EventType        { return EventArchived }

// UnmarshalJSON decodes the details variant keyed by event_type.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	e.EventType = EventType(gjson.GetBytes(data, "event_type").String())
	e.Actor = gjson.GetBytes(data, "actor").String()

	if ts := gjson.GetBytes(data, "timestamp").String(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return fmt.Errorf("parse history timestamp: %w", err)
		}
		e.Timestamp = t
	}

	raw := gjson.GetBytes(data, "details").Raw
	if raw == "" {
		raw = "{}"
	}

	var (
		details EventDetails
		err     error
	)
	switch e.EventType {
	case EventAssigned:
		var d AssignedDetails
		err = json.Unmarshal([]byte(raw), &d)
		details = d
	case EventStatusChanged:
		var d StatusChangedDetails
		err = json.Unmarshal([]byte(raw), &d)
		details = d
	case EventDueDateChanged:
		var d DueDateChangedDetails
		err = json.Unmarshal([]byte(raw), &d)
		details = d
	case EventAssignedFromMeeting:
		var d MeetingAssignedDetails
		err = json.Unmarshal([]byte(raw), &d)
		details = d
	case EventAutoTransfer:
		var d AutoTransferDetails
		err = json.Unmarshal([]byte(raw), &d)
		details = d
	case EventArchived:
		details = ArchivedDetails{}
	default:
		return fmt.Errorf("unknown history event type %q", e.EventType)
	}
	if err != nil {
		return fmt.Errorf("decode %s details: %w", e.EventType, err)
	}

	e.Details = details
	return nil
}

package core

import (
	"fmt"
	"time"
)

// NarrativeLine is one human-readable history line for rendering.
type NarrativeLine struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

const narrativeDateFormat = "2006-01-02"

// DeriveHistoryNarrative renders a todo's history log as display lines.
// It is a pure function of the history: order-preserving, no
// deduplication, same input same output.
func DeriveHistoryNarrative(todo Todo) []NarrativeLine {
	lines := make([]NarrativeLine, 0, len(todo.History))
	for _, e := range todo.History {
		lines = append(lines, NarrativeLine{
			Timestamp: e.Timestamp,
			Text:      narrate(e),
		})
	}
	return lines
}

func narrate(e HistoryEntry) string {
	switch d := e.Details.(type) {
	case AssignedDetails:
		if e.Actor == d.AssignedTo {
			return "self-assigned"
		}
		return fmt.Sprintf("assigned by %s to %s", e.Actor, d.AssignedTo)
	case StatusChangedDetails:
		text := fmt.Sprintf("by %s, status changed from %s to %s", e.Actor, d.OldStatus, d.NewStatus)
		if d.Reason != "" {
			text += fmt.Sprintf(" (reason: %s)", d.Reason)
		}
		return text
	case DueDateChangedDetails:
		text := fmt.Sprintf("by %s, due date changed from %s to %s",
			e.Actor,
			d.OldDueDate.Format(narrativeDateFormat),
			d.NewDueDate.Format(narrativeDateFormat))
		if d.Reason != "" {
			text += fmt.Sprintf(" (reason: %s)", d.Reason)
		}
		return text
	case MeetingAssignedDetails:
		return fmt.Sprintf("assigned by %s to %s", d.AssignedBy, d.AssignedTo)
	case AutoTransferDetails:
		return "automatically carried over from next-week plan"
	case ArchivedDetails:
		return "automatically archived"
	default:
		return string(e.EventType)
	}
}

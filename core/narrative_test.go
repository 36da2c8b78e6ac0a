package core_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/jasonkiller200/Todothis/core"
)

func narrativeFixture() core.Todo {
	ts := time.Date(2024, time.May, 15, 2, 30, 0, 0, time.UTC)
	return core.Todo{
		ID:          "t1",
		AssigneeKey: "staff-b",
		AssignerKey: "manager-a",
		History: []core.HistoryEntry{
			{
				EventType: core.EventAssigned,
				Timestamp: ts,
				Actor:     "manager-a",
				Details:   core.AssignedDetails{AssignedTo: "staff-b"},
			},
			{
				EventType: core.EventStatusChanged,
				Timestamp: ts.Add(time.Hour),
				Actor:     "staff-b",
				Details: core.StatusChangedDetails{
					OldStatus: core.StatusPending,
					NewStatus: core.StatusUncompleted,
					Reason:    "blocked",
				},
			},
			{
				EventType: core.EventDueDateChanged,
				Timestamp: ts.Add(time.Hour),
				Actor:     "staff-b",
				Details: core.DueDateChangedDetails{
					OldDueDate: date(2024, time.May, 17),
					NewDueDate: date(2024, time.May, 20),
					Reason:     "blocked",
				},
			},
			{
				EventType: core.EventAssignedFromMeeting,
				Timestamp: ts.Add(2 * time.Hour),
				Actor:     "manager-a",
				Details: core.MeetingAssignedDetails{
					AssignedBy: "manager-a",
					AssignedTo: "staff-b",
				},
			},
			{
				EventType: core.EventAutoTransfer,
				Timestamp: ts.Add(3 * time.Hour),
				Details: core.AutoTransferDetails{
					FromType: core.TypeNext,
					ToType:   core.TypeCurrent,
					DueDate:  date(2024, time.May, 22),
				},
			},
			{
				EventType: core.EventArchived,
				Timestamp: ts.Add(4 * time.Hour),
				Details:   core.ArchivedDetails{},
			},
		},
	}
}

func TestDeriveHistoryNarrative(t *testing.T) {
	t.Parallel()

	lines := core.DeriveHistoryNarrative(narrativeFixture())

	want := []string{
		"assigned by manager-a to staff-b",
		"by staff-b, status changed from pending to uncompleted (reason: blocked)",
		"by staff-b, due date changed from 2024-05-17 to 2024-05-20 (reason: blocked)",
		"assigned by manager-a to staff-b",
		"automatically carried over from next-week plan",
		"automatically archived",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Fatalf("line %d: got %q, want %q", i, lines[i].Text, w)
		}
	}
}

func TestDeriveHistoryNarrative_SelfAssigned(t *testing.T) {
	t.Parallel()

	todo := core.Todo{
		History: []core.HistoryEntry{{
			EventType: core.EventAssigned,
			Timestamp: wednesday,
			Actor:     "staff-b",
			Details:   core.AssignedDetails{AssignedTo: "staff-b"},
		}},
	}

	lines := core.DeriveHistoryNarrative(todo)
	if len(lines) != 1 || lines[0].Text != "self-assigned" {
		t.Fatalf("expected a single self-assigned line, got %+v", lines)
	}
}

func TestDeriveHistoryNarrative_PureAndOrderPreserving(t *testing.T) {
	t.Parallel()

	todo := narrativeFixture()

	first := core.DeriveHistoryNarrative(todo)
	second := core.DeriveHistoryNarrative(todo)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical output for identical input")
	}
	for i := range first {
		if !first[i].Timestamp.Equal(todo.History[i].Timestamp) {
			t.Fatalf("line %d reordered: %s vs %s", i, first[i].Timestamp, todo.History[i].Timestamp)
		}
	}
}

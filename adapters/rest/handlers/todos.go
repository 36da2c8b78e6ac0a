package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jasonkiller200/Todothis/adapters/rest"
	"github.com/jasonkiller200/Todothis/core"
	"github.com/jasonkiller200/Todothis/pkg/res"
)

// actorKey extracts the authenticated user. Authentication itself is an
// upstream concern; the gateway forwards the identity in a header.
func actorKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Key"))
}

func parseTodoType(s string) (core.TodoType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current":
		return core.TypeCurrent, true
	case "next":
		return core.TypeNext, true
	default:
		return "", false
	}
}

func parseStatus(s string) (core.TodoStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return core.StatusPending, true
	case "in-progress":
		return core.StatusInProgress, true
	case "completed":
		return core.StatusCompleted, true
	case "uncompleted":
		return core.StatusUncompleted, true
	default:
		return "", false
	}
}

// parseDueDate accepts an ISO-8601 date-time or a bare date. Bare dates
// are anchored at midnight in the service's canonical zone.
func parseDueDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func NewCreateTodosHandler(_ *slog.Logger, svc Service, timeout time.Duration, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorKey(r)
		if actor == "" {
			res.Error(w, "missing user identity", http.StatusUnauthorized)
			return
		}

		var in rest.CreateTodosIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		tt, ok := parseTodoType(in.TodoType)
		if !ok {
			res.Error(w, "invalid todo_type", http.StatusBadRequest)
			return
		}
		due, ok := parseDueDate(in.DueDate, loc)
		if !ok {
			res.Error(w, "invalid due_date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		todos, err := svc.CreateAssignment(ctx, core.AssignmentRequest{
			TargetKeys:  in.UserKeys,
			Type:        tt,
			Title:       in.Title,
			Description: in.Description,
			DueDate:     due,
			ActorKey:    actor,
			Now:         time.Now(),
		})
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.JSON(w, map[string]any{"todos": todos}, http.StatusCreated)
	}
}

func NewMeetingTodoHandler(_ *slog.Logger, svc Service, timeout time.Duration, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.MeetingTodoIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		tt, ok := parseTodoType(in.TodoType)
		if !ok {
			res.Error(w, "invalid todo_type", http.StatusBadRequest)
			return
		}
		due, ok := parseDueDate(in.DueDate, loc)
		if !ok {
			res.Error(w, "invalid due_date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		todo, err := svc.AssignFromMeeting(ctx, core.MeetingAssignment{
			TargetKey:   in.UserKey,
			AssignedBy:  in.AssignedBy,
			Type:        tt,
			Title:       in.Title,
			Description: in.Description,
			DueDate:     due,
			Now:         time.Now(),
		})
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.JSON(w, todo, http.StatusCreated)
	}
}

func NewUpdateStatusHandler(_ *slog.Logger, svc Service, timeout time.Duration, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorKey(r)
		if actor == "" {
			res.Error(w, "missing user identity", http.StatusUnauthorized)
			return
		}

		id := r.PathValue("id")
		if id == "" {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.UpdateStatusIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, ok := parseStatus(in.Status)
		if !ok {
			res.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		upd := core.StatusUpdate{
			TodoID:    id,
			NewStatus: st,
			ActorKey:  actor,
			Now:       time.Now(),
		}
		if in.Reason != nil {
			upd.Reason = *in.Reason
		}
		if in.NewDueDate != nil {
			due, ok := parseDueDate(*in.NewDueDate, loc)
			if !ok {
				res.Error(w, "invalid new_due_date", http.StatusBadRequest)
				return
			}
			upd.NewDueDate = &due
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		todo, appended, err := svc.UpdateStatus(ctx, upd)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.JSON(w, map[string]any{"todo": todo, "appended": appended}, http.StatusOK)
	}
}

func NewGetTodoHandler(_ *slog.Logger, svc Service, timeout time.Duration, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		todo, err := svc.GetTodo(ctx, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}

		today := core.DateOnly(time.Now().In(loc))
		res.JSON(w, core.TodoView{
			Todo:       todo,
			AlertLevel: core.ComputeAlertLevel(todo, today),
		}, http.StatusOK)
	}
}

func NewTodoHistoryHandler(_ *slog.Logger, svc Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		todo, err := svc.GetTodo(ctx, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.JSON(w, map[string]any{"history": core.DeriveHistoryNarrative(todo)}, http.StatusOK)
	}
}

func NewUserTodosHandler(_ *slog.Logger, svc Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		if key == "" {
			res.Error(w, "invalid user key", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out, err := svc.UserTodos(ctx, key, time.Now())
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.JSON(w, out, http.StatusOK)
	}
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jasonkiller200/Todothis/core"
)

// Service is the slice of the workflow engine the REST surface needs.
type Service interface {
	Ping(ctx context.Context) error
	CreateAssignment(ctx context.Context, req core.AssignmentRequest) ([]core.Todo, error)
	AssignFromMeeting(ctx context.Context, req core.MeetingAssignment) (core.Todo, error)
	UpdateStatus(ctx context.Context, upd core.StatusUpdate) (core.Todo, []core.HistoryEntry, error)
	GetTodo(ctx context.Context, id string) (core.Todo, error)
	UserTodos(ctx context.Context, userKey string, now time.Time) (core.UserTodos, error)
}

func Register(mux *http.ServeMux, log *slog.Logger, svc Service, timeout time.Duration, loc *time.Location) {
	mux.Handle("GET /api/ping", NewPingHandler(log, svc, timeout))

	mux.Handle("POST /api/todos", NewCreateTodosHandler(log, svc, timeout, loc))
	mux.Handle("POST /api/todos/meeting", NewMeetingTodoHandler(log, svc, timeout, loc))
	mux.Handle("POST /api/todos/{id}/status", NewUpdateStatusHandler(log, svc, timeout, loc))
	mux.Handle("GET /api/todos/{id}", NewGetTodoHandler(log, svc, timeout, loc))
	mux.Handle("GET /api/todos/{id}/history", NewTodoHistoryHandler(log, svc, timeout))

	mux.Handle("GET /api/users/{key}/todos", NewUserTodosHandler(log, svc, timeout))
}

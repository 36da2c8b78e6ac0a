package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service validates assignment requests, applies status transitions and
// keeps the append-only history log. It is stateless between calls
// apart from the per-todo lock table; the acting user arrives with
// every request.
type Service struct {
	db    DB
	perms Permissions
	loc   *time.Location

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(db DB, perms Permissions, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		db:    db,
		perms: perms,
		loc:   loc,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// lockTodo serializes validate→mutate→append per todo id. The table
// grows with the set of todos touched since startup, which is bounded
// by the live todo population.
func (s *Service) lockTodo(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// pin fixes the reference moment for a request at receipt time, in the
// service's canonical zone. Week-boundary decisions are judged by when
// the request arrived, not by when persistence happens.
func (s *Service) pin(now time.Time) time.Time {
	if now.IsZero() {
		now = time.Now()
	}
	return now.In(s.loc)
}

// AssignmentRequest is a batch assignment: one todo per target user.
type AssignmentRequest struct {
	TargetKeys  []string
	Type        TodoType
	Title       string
	Description string
	DueDate     time.Time
	ActorKey    string
	// Now is the request-receipt moment; zero means time.Now().
	Now time.Time
}

// validateDueDate applies the shared due-date rules: not in the past,
// on a weekday, and inside/outside the current week depending on the
// todo type. First failure wins; the weekend check fires regardless of
// type. due and today must be date-only values.
func validateDueDate(tt TodoType, due, today, ref time.Time) error {
	if due.Before(today) {
		return ErrDueDateInPast
	}
	if !IsWeekday(due) {
		return ErrDueDateOnWeekend
	}
	weekStart, weekEnd := CurrentWeekRange(ref)
	inWeek := !due.Before(weekStart) && !due.After(weekEnd)
	if tt == TypeCurrent && !inWeek {
		return ErrDueDateOutsideCurrentWeek
	}
	if tt == TypeNext && inWeek {
		return ErrDueDateInsideCurrentWeek
	}
	return nil
}

// CreateAssignment validates the request and creates one pending todo
// per target, each with a single "assigned" history entry. The batch is
// all-or-nothing: every target is validated before any write, and the
// storage adapter wraps the inserts in one transaction.
func (s *Service) CreateAssignment(ctx context.Context, req AssignmentRequest) ([]Todo, error) {
	if len(req.TargetKeys) == 0 {
		return nil, ErrNoTargetSelected
	}
	if strings.TrimSpace(req.Title) == "" || !isValidType(req.Type) {
		return nil, ErrInvalidArgs
	}

	now := s.pin(req.Now)
	today := DateOnly(now)
	due := DateOnly(req.DueDate.In(s.loc))

	if err := validateDueDate(req.Type, due, today, now); err != nil {
		return nil, err
	}

	actor, err := s.db.GetUser(ctx, req.ActorKey)
	if err != nil {
		return nil, err
	}

	for _, key := range req.TargetKeys {
		if _, err := s.db.GetUser(ctx, key); err != nil {
			return nil, err
		}
		if key == actor.Key {
			continue // self-assignment needs no capability
		}
		ok, err := s.perms.CanAssign(ctx, actor.Key, key)
		if err != nil {
			return nil, fmt.Errorf("check assign capability: %w", err)
		}
		if !ok {
			return nil, ErrPermissionDenied
		}
	}

	ts := now.UTC()
	todos := make([]Todo, 0, len(req.TargetKeys))
	for _, key := range req.TargetKeys {
		todos = append(todos, Todo{
			ID:          uuid.NewString(),
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
			Type:        req.Type,
			Status:      StatusPending,
			DueDate:     due,
			AssigneeKey: key,
			AssignerKey: actor.Key,
			History: []HistoryEntry{{
				EventType: EventAssigned,
				Timestamp: ts,
				Actor:     actor.Key,
				Details:   AssignedDetails{AssignedTo: key},
			}},
			CreatedAt: ts,
			UpdatedAt: ts,
		})
	}

	if err := s.db.CreateTodos(ctx, todos); err != nil {
		return nil, fmt.Errorf("create todos: %w", err)
	}
	return todos, nil
}

// MeetingAssignment creates a todo whose attribution flows through the
// meeting-import channel instead of the normal assigned event.
type MeetingAssignment struct {
	TargetKey   string
	AssignedBy  string
	Type        TodoType
	Title       string
	Description string
	DueDate     time.Time
	Now         time.Time
}

func (s *Service) AssignFromMeeting(ctx context.Context, req MeetingAssignment) (Todo, error) {
	if req.TargetKey == "" {
		return Todo{}, ErrNoTargetSelected
	}
	if strings.TrimSpace(req.Title) == "" || !isValidType(req.Type) {
		return Todo{}, ErrInvalidArgs
	}

	now := s.pin(req.Now)
	due := DateOnly(req.DueDate.In(s.loc))

	if err := validateDueDate(req.Type, due, DateOnly(now), now); err != nil {
		return Todo{}, err
	}

	assigner, err := s.db.GetUser(ctx, req.AssignedBy)
	if err != nil {
		return Todo{}, err
	}
	if _, err := s.db.GetUser(ctx, req.TargetKey); err != nil {
		return Todo{}, err
	}
	if req.TargetKey != assigner.Key {
		ok, err := s.perms.CanAssign(ctx, assigner.Key, req.TargetKey)
		if err != nil {
			return Todo{}, fmt.Errorf("check assign capability: %w", err)
		}
		if !ok {
			return Todo{}, ErrPermissionDenied
		}
	}

	ts := now.UTC()
	todo := Todo{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Status:      StatusPending,
		DueDate:     due,
		AssigneeKey: req.TargetKey,
		AssignerKey: assigner.Key,
		History: []HistoryEntry{{
			EventType: EventAssignedFromMeeting,
			Timestamp: ts,
			Actor:     assigner.Key,
			Details: MeetingAssignedDetails{
				AssignedBy: assigner.Key,
				AssignedTo: req.TargetKey,
			},
		}},
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.db.CreateTodos(ctx, []Todo{todo}); err != nil {
		return Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// StatusUpdate is a requested status transition. Reason and NewDueDate
// are required when entering uncompleted and ignored otherwise.
type StatusUpdate struct {
	TodoID     string
	NewStatus  TodoStatus
	Reason     string
	NewDueDate *time.Time
	ActorKey   string
	Now        time.Time
}

// UpdateStatus validates and applies a status transition, returning the
// updated todo and the entries it appended. On any validation failure
// nothing changes: not the status, not the due date, not the history.
// Entering uncompleted moves the due date to the supplied reschedule
// date and appends two entries, status_changed then due_date_changed,
// both carrying the actor and the reason.
func (s *Service) UpdateStatus(ctx context.Context, upd StatusUpdate) (Todo, []HistoryEntry, error) {
	if upd.TodoID == "" || !isValidStatus(upd.NewStatus) {
		return Todo{}, nil, ErrInvalidArgs
	}

	unlock := s.lockTodo(upd.TodoID)
	defer unlock()

	todo, err := s.db.GetTodo(ctx, upd.TodoID)
	if err != nil {
		return Todo{}, nil, err
	}

	ok, err := s.perms.CanModify(ctx, upd.ActorKey, todo)
	if err != nil {
		return Todo{}, nil, fmt.Errorf("check modify capability: %w", err)
	}
	if !ok {
		return Todo{}, nil, ErrPermissionDenied
	}

	now := s.pin(upd.Now)
	ts := now.UTC()
	oldStatus := todo.Status

	var appended []HistoryEntry
	if upd.NewStatus == StatusUncompleted {
		reason := strings.TrimSpace(upd.Reason)
		if reason == "" {
			return Todo{}, nil, ErrUncompletedReasonRequired
		}
		if upd.NewDueDate == nil {
			return Todo{}, nil, ErrNewDueDateRequired
		}
		newDue := DateOnly(upd.NewDueDate.In(s.loc))
		if !IsWeekday(newDue) {
			return Todo{}, nil, ErrDueDateOnWeekend
		}

		appended = []HistoryEntry{
			{
				EventType: EventStatusChanged,
				Timestamp: ts,
				Actor:     upd.ActorKey,
				Details: StatusChangedDetails{
					OldStatus: oldStatus,
					NewStatus: StatusUncompleted,
					Reason:    reason,
				},
			},
			{
				EventType: EventDueDateChanged,
				Timestamp: ts,
				Actor:     upd.ActorKey,
				Details: DueDateChangedDetails{
					OldDueDate: todo.DueDate,
					NewDueDate: newDue,
					Reason:     reason,
				},
			},
		}
		todo.Status = StatusUncompleted
		todo.DueDate = newDue
	} else {
		appended = []HistoryEntry{{
			EventType: EventStatusChanged,
			Timestamp: ts,
			Actor:     upd.ActorKey,
			Details: StatusChangedDetails{
				OldStatus: oldStatus,
				NewStatus: upd.NewStatus,
			},
		}}
		todo.Status = upd.NewStatus
	}

	todo.History = append(todo.History, appended...)
	todo.UpdatedAt = ts

	updated, err := s.db.UpdateTodo(ctx, todo)
	if err != nil {
		return Todo{}, nil, fmt.Errorf("update todo: %w", err)
	}
	return updated, appended, nil
}

func (s *Service) GetTodo(ctx context.Context, id string) (Todo, error) {
	if id == "" {
		return Todo{}, ErrInvalidArgs
	}
	return s.db.GetTodo(ctx, id)
}

// TodoView pairs a todo with its derived alert level.
type TodoView struct {
	Todo
	AlertLevel AlertLevel `json:"alert_level"`
}

// UserTodos is the per-user read model: active current and next week
// lists plus the overdue count over the current list.
type UserTodos struct {
	User         User       `json:"user"`
	Current      []TodoView `json:"current"`
	Next         []TodoView `json:"next"`
	OverdueCount int        `json:"overdue_count"`
}

func (s *Service) UserTodos(ctx context.Context, userKey string, now time.Time) (UserTodos, error) {
	user, err := s.db.GetUser(ctx, userKey)
	if err != nil {
		return UserTodos{}, err
	}

	today := DateOnly(s.pin(now))
	notArchived := false

	out := UserTodos{User: user}
	for _, tt := range []TodoType{TypeCurrent, TypeNext} {
		tt := tt
		todos, err := s.db.ListTodos(ctx, TodoFilter{
			Type:        &tt,
			Archived:    &notArchived,
			AssigneeKey: &userKey,
		})
		if err != nil {
			return UserTodos{}, fmt.Errorf("list %s todos: %w", tt, err)
		}

		views := make([]TodoView, 0, len(todos))
		for _, t := range todos {
			views = append(views, TodoView{Todo: t, AlertLevel: ComputeAlertLevel(t, today)})
		}
		if tt == TypeCurrent {
			out.Current = views
			out.OverdueCount = OverdueCount(todos, today)
		} else {
			out.Next = views
		}
	}
	return out, nil
}

// RolloverWeek runs the Monday maintenance pass: next-week todos whose
// due date now falls inside the current week become current (with an
// auto_transfer entry), and completed current todos are archived in
// place (flag plus archived entry, never deleted). Each todo is updated
// under its own lock so the pass cannot interleave with a user's status
// update.
func (s *Service) RolloverWeek(ctx context.Context, now time.Time) (transferred, archived int, err error) {
	now = s.pin(now)
	weekStart, weekEnd := CurrentWeekRange(now)
	ts := now.UTC()

	nextType := TypeNext
	notArchived := false
	toTransfer, err := s.db.ListTodos(ctx, TodoFilter{
		Type:     &nextType,
		Archived: &notArchived,
		DueFrom:  &weekStart,
		DueTo:    &weekEnd,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("list transferable todos: %w", err)
	}

	for _, t := range toTransfer {
		if err := s.transferTodo(ctx, t.ID, ts); err != nil {
			return transferred, archived, err
		}
		transferred++
	}

	currentType := TypeCurrent
	completed := StatusCompleted
	toArchive, err := s.db.ListTodos(ctx, TodoFilter{
		Type:     &currentType,
		Status:   &completed,
		Archived: &notArchived,
	})
	if err != nil {
		return transferred, 0, fmt.Errorf("list completed todos: %w", err)
	}

	for _, t := range toArchive {
		if err := s.archiveTodo(ctx, t.ID, ts); err != nil {
			return transferred, archived, err
		}
		archived++
	}
	return transferred, archived, nil
}

func (s *Service) transferTodo(ctx context.Context, id string, ts time.Time) error {
	unlock := s.lockTodo(id)
	defer unlock()

	todo, err := s.db.GetTodo(ctx, id)
	if err != nil {
		return err
	}
	if todo.Type != TypeNext || todo.Archived {
		return nil // changed since listing
	}

	todo.Type = TypeCurrent
	todo.History = append(todo.History, HistoryEntry{
		EventType: EventAutoTransfer,
		Timestamp: ts,
		Details: AutoTransferDetails{
			FromType: TypeNext,
			ToType:   TypeCurrent,
			DueDate:  todo.DueDate,
		},
	})
	todo.UpdatedAt = ts

	if _, err := s.db.UpdateTodo(ctx, todo); err != nil {
		return fmt.Errorf("transfer todo %s: %w", id, err)
	}
	return nil
}

func (s *Service) archiveTodo(ctx context.Context, id string, ts time.Time) error {
	unlock := s.lockTodo(id)
	defer unlock()

	todo, err := s.db.GetTodo(ctx, id)
	if err != nil {
		return err
	}
	if todo.Archived || todo.Status != StatusCompleted {
		return nil
	}

	todo.Archived = true
	todo.History = append(todo.History, HistoryEntry{
		EventType: EventArchived,
		Timestamp: ts,
		Details:   ArchivedDetails{},
	})
	todo.UpdatedAt = ts

	if _, err := s.db.UpdateTodo(ctx, todo); err != nil {
		return fmt.Errorf("archive todo %s: %w", id, err)
	}
	return nil
}

package core

import (
	"context"
	"time"
)

// TodoFilter narrows ListTodos. Nil fields match everything.
type TodoFilter struct {
	Type        *TodoType
	Status      *TodoStatus
	Archived    *bool
	AssigneeKey *string
	DueFrom     *time.Time
	DueTo       *time.Time
}

// DB is the persistence port. CreateTodos must be atomic across the
// whole batch, and UpdateTodo must persist the full todo including its
// history log.
type DB interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, key string) (User, error)

	CreateTodos(ctx context.Context, todos []Todo) error
	GetTodo(ctx context.Context, id string) (Todo, error)
	UpdateTodo(ctx context.Context, t Todo) (Todo, error)
	ListTodos(ctx context.Context, f TodoFilter) ([]Todo, error)
}

// Permissions is the external capability check for assignment and
// modification rights. The engine never computes these rules itself.
type Permissions interface {
	CanAssign(ctx context.Context, actorKey, targetKey string) (bool, error)
	CanModify(ctx context.Context, actorKey string, todo Todo) (bool, error)
}

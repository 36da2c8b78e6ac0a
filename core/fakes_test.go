package core_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jasonkiller200/Todothis/core"
)

type fakeDB struct {
	mu sync.RWMutex

	users map[string]core.User
	todos map[string]core.Todo

	createErr error
	updateErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users: make(map[string]core.User),
		todos: make(map[string]core.Todo),
	}
}

func cloneTodo(t core.Todo) core.Todo {
	out := t
	out.History = append([]core.HistoryEntry(nil), t.History...)
	return out
}

func (db *fakeDB) addUser(u core.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.Key] = u
}

func (db *fakeDB) Ping(context.Context) error {
	return nil
}

func (db *fakeDB) GetUser(_ context.Context, key string) (core.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[key]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func (db *fakeDB) CreateTodos(_ context.Context, todos []core.Todo) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.createErr != nil {
		return db.createErr
	}
	for _, t := range todos {
		if _, exists := db.todos[t.ID]; exists {
			return core.ErrTodoAlreadyExists
		}
	}
	for _, t := range todos {
		db.todos[t.ID] = cloneTodo(t)
	}
	return nil
}

func (db *fakeDB) GetTodo(_ context.Context, id string) (core.Todo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.todos[id]
	if !ok {
		return core.Todo{}, core.ErrTodoNotFound
	}
	return cloneTodo(t), nil
}

func (db *fakeDB) UpdateTodo(_ context.Context, t core.Todo) (core.Todo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.updateErr != nil {
		return core.Todo{}, db.updateErr
	}
	if _, ok := db.todos[t.ID]; !ok {
		return core.Todo{}, core.ErrTodoNotFound
	}
	db.todos[t.ID] = cloneTodo(t)
	return cloneTodo(t), nil
}

func (db *fakeDB) ListTodos(_ context.Context, f core.TodoFilter) ([]core.Todo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []core.Todo
	for _, t := range db.todos {
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Archived != nil && t.Archived != *f.Archived {
			continue
		}
		if f.AssigneeKey != nil && t.AssigneeKey != *f.AssigneeKey {
			continue
		}
		if f.DueFrom != nil && t.DueDate.Before(*f.DueFrom) {
			continue
		}
		if f.DueTo != nil && t.DueDate.After(*f.DueTo) {
			continue
		}
		out = append(out, cloneTodo(t))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakePerms allows everything unless a key pair or actor is denied.
type fakePerms struct {
	denyAssign map[string]bool // actor->deny
	denyModify map[string]bool
}

func newFakePerms() *fakePerms {
	return &fakePerms{
		denyAssign: make(map[string]bool),
		denyModify: make(map[string]bool),
	}
}

func (p *fakePerms) CanAssign(_ context.Context, actorKey, _ string) (bool, error) {
	return !p.denyAssign[actorKey], nil
}

func (p *fakePerms) CanModify(_ context.Context, actorKey string, _ core.Todo) (bool, error) {
	return !p.denyModify[actorKey], nil
}

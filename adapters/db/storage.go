package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jasonkiller200/Todothis/core"
)

// DB is the sqlx-backed storage adapter. It runs on either Postgres
// ("pgx") or SQLite ("sqlite"); queries are written with ? placeholders
// and rebound per driver.
type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, driver, address string) (*DB, error) {
	if driver != "pgx" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	conn, err := sqlx.Connect(driver, address)
	if err != nil {
		log.Error("connection problem", "driver", driver, "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users

func (db *DB) GetUser(ctx context.Context, key string) (core.User, error) {
	q := db.conn.Rebind(`
		SELECT user_key, name, role, department, unit, level
		FROM users
		WHERE user_key = ?;
	`)

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Todos

type todoRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	TodoType    string    `db:"todo_type"`
	Status      string    `db:"status"`
	DueDate     time.Time `db:"due_date"`
	AssigneeKey string    `db:"assignee_key"`
	AssignerKey string    `db:"assigner_key"`
	Archived    bool      `db:"archived"`
	History     string    `db:"history"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func toRow(t core.Todo) (todoRow, error) {
	history, err := json.Marshal(t.History)
	if err != nil {
		return todoRow{}, fmt.Errorf("encode history: %w", err)
	}
	return todoRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		TodoType:    string(t.Type),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		AssigneeKey: t.AssigneeKey,
		AssignerKey: t.AssignerKey,
		Archived:    t.Archived,
		History:     string(history),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func fromRow(r todoRow) (core.Todo, error) {
	t := core.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        core.TodoType(r.TodoType),
		Status:      core.TodoStatus(r.Status),
		DueDate:     r.DueDate,
		AssigneeKey: r.AssigneeKey,
		AssignerKey: r.AssignerKey,
		Archived:    r.Archived,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.History != "" && r.History != "null" {
		if err := json.Unmarshal([]byte(r.History), &t.History); err != nil {
			return core.Todo{}, fmt.Errorf("decode history for todo %s: %w", r.ID, err)
		}
	}
	return t, nil
}

const insertTodo = `
	INSERT INTO todos(id, title, description, todo_type, status, due_date,
	                  assignee_key, assigner_key, archived, history, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

// CreateTodos inserts the batch inside one transaction: either every
// target gets a todo or none does.
func (db *DB) CreateTodos(ctx context.Context, todos []core.Todo) error {
	if len(todos) == 0 {
		return core.ErrInvalidArgs
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := db.conn.Rebind(insertTodo)
	for _, t := range todos {
		row, err := toRow(t)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, q,
			row.ID, row.Title, row.Description, row.TodoType, row.Status, row.DueDate,
			row.AssigneeKey, row.AssignerKey, row.Archived, row.History, row.CreatedAt, row.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return core.ErrTodoAlreadyExists
			}
			return fmt.Errorf("insert todo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

const selectTodo = `
	SELECT id, title, description, todo_type, status, due_date,
	       assignee_key, assigner_key, archived, history, created_at, updated_at
	FROM todos
`

func (db *DB) GetTodo(ctx context.Context, id string) (core.Todo, error) {
	q := db.conn.Rebind(selectTodo + ` WHERE id = ?;`)

	var row todoRow
	if err := db.conn.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Todo{}, core.ErrTodoNotFound
		}
		return core.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return fromRow(row)
}

func (db *DB) UpdateTodo(ctx context.Context, t core.Todo) (core.Todo, error) {
	if t.ID == "" {
		return core.Todo{}, core.ErrInvalidArgs
	}
	row, err := toRow(t)
	if err != nil {
		return core.Todo{}, err
	}

	q := db.conn.Rebind(`
		UPDATE todos
		SET title = ?, description = ?, todo_type = ?, status = ?, due_date = ?,
		    archived = ?, history = ?, updated_at = ?
		WHERE id = ?;
	`)

	res, err := db.conn.ExecContext(ctx, q,
		row.Title, row.Description, row.TodoType, row.Status, row.DueDate,
		row.Archived, row.History, row.UpdatedAt, row.ID)
	if err != nil {
		return core.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.Todo{}, core.ErrTodoNotFound
	}

	return db.GetTodo(ctx, t.ID)
}

func (db *DB) ListTodos(ctx context.Context, f core.TodoFilter) ([]core.Todo, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(selectTodo)
	sb.WriteString(" WHERE 1=1")

	if f.Type != nil {
		sb.WriteString(" AND todo_type = ?")
		args = append(args, string(*f.Type))
	}
	if f.Status != nil {
		sb.WriteString(" AND status = ?")
		args = append(args, string(*f.Status))
	}
	if f.Archived != nil {
		sb.WriteString(" AND archived = ?")
		args = append(args, *f.Archived)
	}
	if f.AssigneeKey != nil {
		sb.WriteString(" AND assignee_key = ?")
		args = append(args, *f.AssigneeKey)
	}
	if f.DueFrom != nil {
		sb.WriteString(" AND due_date >= ?")
		args = append(args, *f.DueFrom)
	}
	if f.DueTo != nil {
		sb.WriteString(" AND due_date <= ?")
		args = append(args, *f.DueTo)
	}
	sb.WriteString(" ORDER BY due_date ASC, created_at ASC")

	var rows []todoRow
	if err := db.conn.SelectContext(ctx, &rows, db.conn.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	out := make([]core.Todo, 0, len(rows))
	for _, r := range rows {
		t, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// pg helpers; SQLite surfaces constraint failures through the generic
// error path instead.

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

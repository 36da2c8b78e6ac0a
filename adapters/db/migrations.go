package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_todos.up.sql
var createTodosUp string

// Migrate applies the schema. Statements are portable across the two
// supported drivers.
func (db *DB) Migrate() error {
	db.log.Debug("running todo db migrations")

	if _, err := db.conn.Exec(createUsersUp); err != nil {
		return fmt.Errorf("apply users migration: %w", err)
	}
	if _, err := db.conn.Exec(createTodosUp); err != nil {
		return fmt.Errorf("apply todos migration: %w", err)
	}

	db.log.Debug("todo db migrations finished")
	return nil
}

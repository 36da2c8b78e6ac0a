// Package authz implements the permission collaborator the workflow
// engine consumes. Rights follow the organization's level hierarchy:
// seniors assign downward within the scope they manage, everyone
// manages their own todos.
package authz

import (
	"context"
	"fmt"

	"github.com/jasonkiller200/Todothis/core"
)

// Directory is the user lookup the rules need.
type Directory interface {
	GetUser(ctx context.Context, key string) (core.User, error)
}

var levelOrder = map[string]int{
	"admin":                10,
	"executive-manager":    9,
	"plant-manager":        8,
	"manager":              7,
	"assistant-manager":    6,
	"section-chief":        5,
	"deputy-section-chief": 4,
	"team-leader":          3,
	"staff":                0,
}

func rank(level string) int {
	return levelOrder[level]
}

type Authorizer struct {
	dir Directory
}

func New(dir Directory) *Authorizer {
	return &Authorizer{dir: dir}
}

// CanAssign reports whether actor may assign a todo to target.
// Self-assignment is always allowed.
func (a *Authorizer) CanAssign(ctx context.Context, actorKey, targetKey string) (bool, error) {
	if actorKey == targetKey {
		return true, nil
	}

	actor, err := a.dir.GetUser(ctx, actorKey)
	if err != nil {
		return false, fmt.Errorf("lookup actor: %w", err)
	}
	target, err := a.dir.GetUser(ctx, targetKey)
	if err != nil {
		return false, fmt.Errorf("lookup target: %w", err)
	}

	switch actor.Level {
	case "admin", "executive-manager":
		// top of the hierarchy assigns to anyone below admin
		return target.Level != "admin", nil

	case "plant-manager", "manager", "assistant-manager":
		if rank(target.Level) >= rank(actor.Level) {
			return false, nil
		}
		if target.Level == "admin" || target.Level == "executive-manager" {
			return false, nil
		}
		// for these roles, unit names the department or plant they manage
		return target.Department == actor.Unit, nil

	case "section-chief", "deputy-section-chief":
		return actor.Department == target.Department &&
			actor.Unit == target.Unit &&
			rank(target.Level) < rank(actor.Level), nil
	}

	// team leaders and staff have no assignment rights
	return false, nil
}

// CanModify reports whether actor may change the todo's status. The
// assignee and the assigner always may; otherwise the same downward
// scope as assignment applies.
func (a *Authorizer) CanModify(ctx context.Context, actorKey string, todo core.Todo) (bool, error) {
	if actorKey == todo.AssigneeKey || actorKey == todo.AssignerKey {
		return true, nil
	}
	return a.CanAssign(ctx, actorKey, todo.AssigneeKey)
}

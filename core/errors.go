package core

import "errors"

// Validation errors. All are recoverable: the caller re-prompts.
var (
	ErrNoTargetSelected          = errors.New("no assignment target selected")
	ErrDueDateInPast             = errors.New("due date is before today")
	ErrDueDateOutsideCurrentWeek = errors.New("due date outside current week")
	ErrDueDateInsideCurrentWeek  = errors.New("due date inside current week")
	ErrDueDateOnWeekend          = errors.New("due date falls on a weekend")
	ErrUncompletedReasonRequired = errors.New("uncompleted status requires a reason")
	ErrNewDueDateRequired        = errors.New("uncompleted status requires a new due date")
	ErrInvalidArgs               = errors.New("invalid args")
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrTodoAlreadyExists = errors.New("todo already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrPermissionDenied  = errors.New("permission denied")
)

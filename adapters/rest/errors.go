package rest

import (
	"errors"
	"net/http"

	"github.com/jasonkiller200/Todothis/core"
	"github.com/jasonkiller200/Todothis/pkg/res"
)

func WriteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNoTargetSelected),
		errors.Is(err, core.ErrDueDateInPast),
		errors.Is(err, core.ErrDueDateOutsideCurrentWeek),
		errors.Is(err, core.ErrDueDateInsideCurrentWeek),
		errors.Is(err, core.ErrDueDateOnWeekend),
		errors.Is(err, core.ErrUncompletedReasonRequired),
		errors.Is(err, core.ErrNewDueDateRequired),
		errors.Is(err, core.ErrInvalidArgs):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrTodoNotFound), errors.Is(err, core.ErrUserNotFound):
		res.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrPermissionDenied):
		res.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, core.ErrTodoAlreadyExists):
		res.Error(w, err.Error(), http.StatusConflict)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}

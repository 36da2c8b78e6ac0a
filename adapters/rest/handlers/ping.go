package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jasonkiller200/Todothis/pkg/res"
)

func NewPingHandler(log *slog.Logger, svc Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			log.Warn("ping failed", "error", err)
			res.JSON(w, map[string]string{"db": "down"}, http.StatusServiceUnavailable)
			return
		}
		res.JSON(w, map[string]string{"db": "ok"}, http.StatusOK)
	}
}

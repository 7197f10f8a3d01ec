package rest

import (
	"log/slog"
	"net/http"
)

type pingHandler struct {
	logger *slog.Logger
}

func newPingHandler(logger *slog.Logger) *pingHandler {
	return &pingHandler{logger: logger}
}

// ping answers liveness probes.
func (that *pingHandler) ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

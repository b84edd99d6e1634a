package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/utafrali/productspec/internal/pages"
	"github.com/utafrali/productspec/internal/store"
)

// PageHandler mounts the page view resolved for the request path.
type PageHandler struct {
	router *pages.Router
	store  *store.Store
	logger *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(router *pages.Router, s *store.Store, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		router: router,
		store:  s,
		logger: logger,
	}
}

// ServeHTTP renders the resolved view, or the not-found view with 404.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, ok := h.router.Resolve(r.URL.Path)
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}

	var buf bytes.Buffer
	if err := view.Render(&buf, r.URL.Path, h.store.Snapshot()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("view", view.Name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

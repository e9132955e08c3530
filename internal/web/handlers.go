package web

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/db"
)

// Handlers contains the HTTP handlers for the JSON API.
type Handlers struct {
	albums   AlbumStore
	users    UserStore
	catalog  catalog.Searcher
	sessions SessionManager
	logger   *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(albums AlbumStore, users UserStore, searcher catalog.Searcher, sessions SessionManager, logger *log.Logger) *Handlers {
	return &Handlers{
		albums:   albums,
		users:    users,
		catalog:  searcher,
		sessions: sessions,
		logger:   logger,
	}
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// currentUser resolves the session cookie to a user. Both return values are
// nil when the request carries no valid session.
func (h *Handlers) currentUser(r *http.Request) (*Session, *db.User) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		return nil, nil
	}
	user, err := h.users.Get(r.Context(), session.UserID)
	if err != nil {
		return nil, nil
	}
	return session, user
}

// internalError logs the failure and answers with a generic message. The
// error text rides along in the details field.
func (h *Handlers) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("internal error", "op", op, "err", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Details: err.Error(),
	})
}

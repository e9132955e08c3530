package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/waxlog/waxlog/internal/db"
)

// albumRequest is the decoded body for create and update.
type albumRequest struct {
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	Image       string   `json:"image"`
	ReleaseDate string   `json:"release_date"`
	Variant     *string  `json:"variant"`
	Genres      []string `json:"genres"`
	Type        string   `json:"type"`
}

func (req *albumRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Artist) == "" || req.Type == "" {
		return "Invalid data: missing 'name', 'artist' or 'type'"
	}
	if req.Type != db.TypeCollection && req.Type != db.TypeWishlist {
		return "Invalid data: type must be 'collection' or 'wishlist'"
	}
	return ""
}

// updateResponse mirrors the mutation success envelope.
type updateResponse struct {
	Success bool      `json:"success"`
	Album   *db.Album `json:"album,omitempty"`
}

// ListVinyls lists records filtered by substring, type and optional
// username scope (GET /api/vinyl).
func (h *Handlers) ListVinyls(w http.ResponseWriter, r *http.Request) {
	h.listVinyls(w, r, r.URL.Query().Get("type"))
}

// ListWishlist is the legacy wishlist listing (GET /api/wishlist).
func (h *Handlers) ListWishlist(w http.ResponseWriter, r *http.Request) {
	h.listVinyls(w, r, db.TypeWishlist)
}

func (h *Handlers) listVinyls(w http.ResponseWriter, r *http.Request, kind string) {
	if kind == "" {
		kind = db.TypeCollection
	}
	if kind != db.TypeCollection && kind != db.TypeWishlist {
		writeError(w, http.StatusBadRequest, "Invalid type")
		return
	}

	filter := db.AlbumFilter{
		Type:   kind,
		Search: r.URL.Query().Get("s"),
	}

	// A username scope that matches nobody yields an empty list rather
	// than leaking the unscoped view.
	if username := r.URL.Query().Get("u"); username != "" {
		user, err := h.users.GetByUsername(r.Context(), username)
		if errors.Is(err, db.ErrNotFound) {
			writeJSON(w, http.StatusOK, []db.Album{})
			return
		}
		if err != nil {
			h.internalError(w, "list vinyls", err)
			return
		}
		filter.UserID = user.ID
	}

	albums, err := h.albums.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, "list vinyls", err)
		return
	}
	if albums == nil {
		albums = []db.Album{}
	}
	writeJSON(w, http.StatusOK, albums)
}

// GetVinyl fetches one record (GET /api/vinyl/{id}).
func (h *Handlers) GetVinyl(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	album, err := h.albums.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Album not found")
		return
	}
	if err != nil {
		h.internalError(w, "get vinyl", err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// CreateVinyl adds a record to the caller's collection or wishlist
// (POST /api/vinyl). The owner is always the session user; any
// client-supplied userId is ignored.
func (h *Handlers) CreateVinyl(w http.ResponseWriter, r *http.Request) {
	session, _ := h.currentUser(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	genres := req.Genres
	if genres == nil {
		genres = []string{}
	}

	album := &db.Album{
		ID:          uuid.NewString(),
		UserID:      session.UserID,
		Name:        req.Name,
		Artist:      req.Artist,
		Image:       req.Image,
		ReleaseDate: req.ReleaseDate,
		Variant:     req.Variant,
		Genres:      genres,
		Type:        req.Type,
	}

	if err := h.albums.Create(r.Context(), album); err != nil {
		h.internalError(w, "create vinyl", err)
		return
	}
	writeJSON(w, http.StatusCreated, updateResponse{Success: true, Album: album})
}

// UpdateVinyl edits a record the caller owns (PUT /api/vinyl/{id}).
func (h *Handlers) UpdateVinyl(w http.ResponseWriter, r *http.Request) {
	session, _ := h.currentUser(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	album, ok := h.ownedAlbum(w, r, session)
	if !ok {
		return
	}

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	album.Name = req.Name
	album.Artist = req.Artist
	album.Image = req.Image
	album.ReleaseDate = req.ReleaseDate
	album.Variant = req.Variant
	album.Type = req.Type
	if req.Genres != nil {
		album.Genres = req.Genres
	}

	if err := h.albums.Update(r.Context(), album); err != nil {
		h.internalError(w, "update vinyl", err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Success: true, Album: album})
}

// DeleteVinyl removes a record the caller owns (DELETE /api/vinyl/{id}).
func (h *Handlers) DeleteVinyl(w http.ResponseWriter, r *http.Request) {
	session, _ := h.currentUser(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	album, ok := h.ownedAlbum(w, r, session)
	if !ok {
		return
	}

	if err := h.albums.Delete(r.Context(), album.ID); err != nil {
		h.internalError(w, "delete vinyl", err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Success: true})
}

// ownedAlbum loads the album from the URL and enforces the ownership
// invariant, writing 404 or 403 itself when the check fails.
func (h *Handlers) ownedAlbum(w http.ResponseWriter, r *http.Request, session *Session) (*db.Album, bool) {
	id := chi.URLParam(r, "id")

	album, err := h.albums.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	if err != nil {
		h.internalError(w, "load vinyl", err)
		return nil, false
	}

	if album.UserID != session.UserID {
		writeError(w, http.StatusForbidden, "Forbidden: You do not own this album")
		return nil, false
	}
	return album, true
}

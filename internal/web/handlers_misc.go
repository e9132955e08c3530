package web

import (
	"errors"
	"net/http"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/db"
	"github.com/waxlog/waxlog/internal/insights"
)

// maxUserResults caps user search results.
const maxUserResults = 10

// SearchUsers finds users by username or name (GET /api/users?q=).
// An empty query returns an empty list without touching the store.
func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeJSON(w, http.StatusOK, []db.UserSummary{})
		return
	}

	users, err := h.users.Search(r.Context(), term, maxUserResults)
	if err != nil {
		h.internalError(w, "search users", err)
		return
	}
	if users == nil {
		users = []db.UserSummary{}
	}
	writeJSON(w, http.StatusOK, users)
}

// SearchCatalog proxies an album search to the catalog provider
// (GET /api/spotify?q=). Provider failures come back as 502.
func (h *Handlers) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, []catalog.Album{})
		return
	}

	albums, err := h.catalog.SearchAlbums(r.Context(), query)
	if err != nil {
		if errors.Is(err, catalog.ErrUpstream) {
			h.logger.Warn("catalog search failed", "err", err)
			writeError(w, http.StatusBadGateway, "Search failed")
			return
		}
		h.internalError(w, "search catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// insightsResponse wraps era detection results.
type insightsResponse struct {
	Eras         []insights.Era `json:"eras"`
	OutlierCount int            `json:"outlierCount"`
	TotalAlbums  int            `json:"totalAlbums"`
}

// CollectionInsights clusters a user's collection into release-year eras
// (GET /api/insights?u=).
func (h *Handlers) CollectionInsights(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("u")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Missing username")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internalError(w, "insights", err)
		return
	}

	albums, err := h.albums.List(r.Context(), db.AlbumFilter{
		Type:   db.TypeCollection,
		UserID: user.ID,
	})
	if err != nil {
		h.internalError(w, "insights", err)
		return
	}

	input := make([]insights.Album, len(albums))
	for i, a := range albums {
		input[i] = insights.Album{
			ID:          a.ID,
			Name:        a.Name,
			Artist:      a.Artist,
			ReleaseDate: a.ReleaseDate,
		}
	}

	eras, outliers := insights.DetectEras(input, insights.DefaultConfig())
	if eras == nil {
		eras = []insights.Era{}
	}
	writeJSON(w, http.StatusOK, insightsResponse{
		Eras:         eras,
		OutlierCount: len(outliers),
		TotalAlbums:  len(albums),
	})
}

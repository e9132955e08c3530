// Package client is the data layer between a UI and the waxlog API:
// a session-aware HTTP client, a keyed cache with invalidation, debounced
// queries, and the onboarding guard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/db"
	"github.com/waxlog/waxlog/internal/insights"
)

// Sentinel errors mirroring the server's error taxonomy.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalid         = errors.New("invalid request")
	ErrUpstream        = errors.New("catalog search failed")
)

// API is an HTTP client for the waxlog server. The session cookie set by
// signup/login is carried automatically on subsequent requests.
type API struct {
	base string
	http *http.Client
}

// NewAPI creates an API client for the server at base (e.g. "http://127.0.0.1:8080").
func NewAPI(base string) (*API, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &API{
		base: base,
		http: &http.Client{Jar: jar},
	}, nil
}

// AlbumInput is the payload for creating or updating a record.
type AlbumInput struct {
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	Image       string   `json:"image,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Variant     *string  `json:"variant,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Type        string   `json:"type"`
}

// AccountUpdate carries the fields of a partial account update. Nil fields
// are left untouched.
type AccountUpdate struct {
	Name     *string `json:"name,omitempty"`
	Theme    *string `json:"theme,omitempty"`
	Username *string `json:"username,omitempty"`
}

// InsightsReport is the response of the insights endpoint.
type InsightsReport struct {
	Eras         []insights.Era `json:"eras"`
	OutlierCount int            `json:"outlierCount"`
	TotalAlbums  int            `json:"totalAlbums"`
}

type sessionEnvelope struct {
	User *db.User `json:"user"`
}

type mutationEnvelope struct {
	Success bool      `json:"success"`
	Album   *db.Album `json:"album"`
}

type availabilityEnvelope struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

// Signup registers a new account and starts a session.
func (a *API) Signup(ctx context.Context, email, password, name string) (*db.User, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var out sessionEnvelope
	if err := a.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login verifies credentials and starts a session.
func (a *API) Login(ctx context.Context, email, password string) (*db.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out sessionEnvelope
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout destroys the current session.
func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Session returns the current session's user, or nil without error when
// there is no session.
func (a *API) Session(ctx context.Context) (*db.User, error) {
	var out sessionEnvelope
	if err := a.do(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UsernameAvailable asks the server whether a username can be claimed.
// When unavailable, reason says why.
func (a *API) UsernameAvailable(ctx context.Context, username string) (available bool, reason string, err error) {
	q := url.Values{"u": {username}}
	var out availabilityEnvelope
	if err := a.do(ctx, http.MethodGet, "/api/auth/username?"+q.Encode(), nil, &out); err != nil {
		return false, "", err
	}
	return out.Available, out.Reason, nil
}

// ClaimUsername assigns a username to the session user during onboarding.
func (a *API) ClaimUsername(ctx context.Context, username string) (*db.User, error) {
	body := map[string]string{"username": username}
	var out sessionEnvelope
	if err := a.do(ctx, http.MethodPut, "/api/auth/username", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateAccount applies a partial update to the session user's account.
func (a *API) UpdateAccount(ctx context.Context, update AccountUpdate) (*db.User, error) {
	var out sessionEnvelope
	if err := a.do(ctx, http.MethodPut, "/api/account", update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListVinyls lists records of a kind ("collection" or "wishlist"),
// optionally scoped to a username and filtered by a search term.
func (a *API) ListVinyls(ctx context.Context, kind, scope, term string) ([]db.Album, error) {
	q := url.Values{"type": {kind}}
	if scope != "" {
		q.Set("u", scope)
	}
	if term != "" {
		q.Set("s", term)
	}
	var out []db.Album
	if err := a.do(ctx, http.MethodGet, "/api/vinyl?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVinyl fetches a single record.
func (a *API) GetVinyl(ctx context.Context, id string) (*db.Album, error) {
	var out db.Album
	if err := a.do(ctx, http.MethodGet, "/api/vinyl/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateVinyl adds a record to the session user's collection or wishlist.
func (a *API) CreateVinyl(ctx context.Context, input AlbumInput) (*db.Album, error) {
	var out mutationEnvelope
	if err := a.do(ctx, http.MethodPost, "/api/vinyl", input, &out); err != nil {
		return nil, err
	}
	return out.Album, nil
}

// UpdateVinyl replaces a record the session user owns.
func (a *API) UpdateVinyl(ctx context.Context, id string, input AlbumInput) (*db.Album, error) {
	var out mutationEnvelope
	if err := a.do(ctx, http.MethodPut, "/api/vinyl/"+url.PathEscape(id), input, &out); err != nil {
		return nil, err
	}
	return out.Album, nil
}

// DeleteVinyl deletes a record the session user owns.
func (a *API) DeleteVinyl(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/vinyl/"+url.PathEscape(id), nil, nil)
}

// SearchCatalog searches the album catalog through the server proxy.
func (a *API) SearchCatalog(ctx context.Context, term string) ([]catalog.Album, error) {
	q := url.Values{"q": {term}}
	var out []catalog.Album
	if err := a.do(ctx, http.MethodGet, "/api/spotify?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchUsers finds users by username or display name.
func (a *API) SearchUsers(ctx context.Context, term string) ([]db.UserSummary, error) {
	q := url.Values{"q": {term}}
	var out []db.UserSummary
	if err := a.do(ctx, http.MethodGet, "/api/users?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insights fetches the era breakdown of a user's collection.
func (a *API) Insights(ctx context.Context, username string) (*InsightsReport, error) {
	q := url.Values{"u": {username}}
	var out InsightsReport
	if err := a.do(ctx, http.MethodGet, "/api/insights?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return statusError(resp.StatusCode, payload.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// statusError maps a response status to a sentinel, keeping the server's
// message for display.
func statusError(status int, message string) error {
	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = ErrInvalid
	case http.StatusUnauthorized:
		sentinel = ErrUnauthenticated
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusBadGateway:
		sentinel = ErrUpstream
	default:
		return fmt.Errorf("server returned %d: %s", status, message)
	}
	if message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}

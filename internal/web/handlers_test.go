package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/db"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type fakeAlbumStore struct {
	mu     sync.Mutex
	albums map[string]*db.Album
	nextSq int64
}

func newFakeAlbumStore() *fakeAlbumStore {
	return &fakeAlbumStore{albums: make(map[string]*db.Album)}
}

func (s *fakeAlbumStore) Create(_ context.Context, album *db.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSq++
	album.Seq = s.nextSq
	clone := *album
	s.albums[album.ID] = &clone
	return nil
}

func (s *fakeAlbumStore) Get(_ context.Context, id string) (*db.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	album, ok := s.albums[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *album
	return &clone, nil
}

func (s *fakeAlbumStore) List(_ context.Context, filter db.AlbumFilter) ([]db.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []db.Album
	for _, album := range s.albums {
		if filter.Type != "" && album.Type != filter.Type {
			continue
		}
		if filter.UserID != "" && album.UserID != filter.UserID {
			continue
		}
		if filter.Search != "" {
			term := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(album.Name), term) &&
				!strings.Contains(strings.ToLower(album.Artist), term) {
				continue
			}
		}
		out = append(out, *album)
	}

	slices.SortFunc(out, func(a, b db.Album) int {
		if a.Artist != b.Artist {
			return strings.Compare(a.Artist, b.Artist)
		}
		if a.ReleaseDate != b.ReleaseDate {
			return strings.Compare(a.ReleaseDate, b.ReleaseDate)
		}
		return int(a.Seq - b.Seq)
	})
	return out, nil
}

func (s *fakeAlbumStore) Update(_ context.Context, album *db.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.albums[album.ID]
	if !ok {
		return db.ErrNotFound
	}
	clone := *album
	clone.UserID = existing.UserID
	clone.Seq = existing.Seq
	s.albums[album.ID] = &clone
	return nil
}

func (s *fakeAlbumStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.albums, id)
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*db.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*db.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return db.ErrConflict
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) Get(_ context.Context, id string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username != nil && strings.EqualFold(*u.Username, username) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeUserStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username != nil && strings.EqualFold(*u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return db.ErrNotFound
	}
	if user.Username != nil {
		for id, u := range s.users {
			if id != user.ID && u.Username != nil && strings.EqualFold(*u.Username, *user.Username) {
				return db.ErrConflict
			}
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) Search(_ context.Context, term string, limit int) ([]db.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term = strings.ToLower(term)
	var out []db.UserSummary
	for _, u := range s.users {
		if u.Username == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*u.Username), term) ||
			strings.Contains(strings.ToLower(u.Name), term) {
			out = append(out, db.UserSummary{Username: *u.Username, Name: u.Name})
		}
	}
	slices.SortFunc(out, func(a, b db.UserSummary) int {
		return strings.Compare(a.Username, b.Username)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSearcher struct {
	albums []catalog.Album
	err    error
}

func (s *fakeSearcher) SearchAlbums(_ context.Context, _ string) ([]catalog.Album, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.albums, nil
}

// ============================================================================
// Test harness
// ============================================================================

type testEnv struct {
	albums   *fakeAlbumStore
	users    *fakeUserStore
	searcher *fakeSearcher
	sessions *SessionStore
	server   *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		albums:   newFakeAlbumStore(),
		users:    newFakeUserStore(),
		searcher: &fakeSearcher{},
		sessions: NewSessionStore(),
	}

	h := NewHandlers(env.albums, env.users, env.searcher, env.sessions, log.New(io.Discard))

	router := chi.NewRouter()
	router.Get("/healthz", h.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/vinyl", func(r chi.Router) {
			r.Get("/", h.ListVinyls)
			r.Post("/", h.CreateVinyl)
			r.Get("/{id}", h.GetVinyl)
			r.Put("/{id}", h.UpdateVinyl)
			r.Delete("/{id}", h.DeleteVinyl)
		})
		r.Get("/wishlist", h.ListWishlist)
		r.Get("/users", h.SearchUsers)
		r.Get("/spotify", h.SearchCatalog)
		r.Get("/insights", h.CollectionInsights)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.SessionInfo)
			r.Get("/username", h.UsernameAvailable)
			r.Put("/username", h.ClaimUsername)
		})
		r.Put("/account", h.UpdateAccount)
	})

	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

// seedUser creates a user directly in the store and returns a session cookie.
func (env *testEnv) seedUser(t *testing.T, username, name string) (*db.User, *http.Cookie) {
	t.Helper()

	user := &db.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Theme:        "system",
	}
	if username != "" {
		user.Username = &username
	}
	if err := env.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	session, err := env.sessions.Create(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return user, &http.Cookie{Name: sessionCookieName, Value: session.ID}
}

// do performs a request against the test server.
func (env *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, env.server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var value T
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return value
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}

func validAlbumBody(name, artist, kind string) map[string]any {
	return map[string]any{
		"name":         name,
		"artist":       artist,
		"type":         kind,
		"image":        "https://img.example/x.jpg",
		"release_date": "2022-02-25",
		"genres":       []string{"metalcore"},
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", nil, nil)
	wantStatus(t, resp, http.StatusOK)
}

package web

import (
	"net/http"
	"net/url"
	"testing"
)

func TestSignupLoginSessionFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2hunter2",
		"name":     "Alice",
	}, nil)
	wantStatus(t, resp, http.StatusCreated)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("signup did not set a session cookie")
	}

	created := decode[sessionResponse](t, resp)
	if created.User == nil || created.User.Email != "alice@example.com" {
		t.Fatalf("signup user = %+v", created.User)
	}
	if created.User.Username != nil {
		t.Errorf("username = %v, want unset before onboarding", *created.User.Username)
	}
	if created.User.Theme != "system" {
		t.Errorf("theme = %q, want system default", created.User.Theme)
	}

	// Session endpoint resolves the cookie.
	resp = env.do(t, http.MethodGet, "/api/auth/session", nil, cookie)
	wantStatus(t, resp, http.StatusOK)
	info := decode[sessionResponse](t, resp)
	if info.User == nil || info.User.ID != created.User.ID {
		t.Errorf("session user = %+v, want the signed-up user", info.User)
	}

	// Wrong password rejected; right password accepted.
	resp = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}, nil)
	wantStatus(t, resp, http.StatusUnauthorized)

	resp = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "hunter2hunter2",
	}, nil)
	wantStatus(t, resp, http.StatusOK)

	// Logout invalidates the session.
	resp = env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	wantStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/auth/session", nil, cookie)
	info = decode[sessionResponse](t, resp)
	if info.User != nil {
		t.Errorf("session survived logout: %+v", info.User)
	}
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing email", map[string]string{"password": "longenough", "name": "A"}, http.StatusBadRequest},
		{"missing name", map[string]string{"email": "a@b.c", "password": "longenough"}, http.StatusBadRequest},
		{"bad email", map[string]string{"email": "nope", "password": "longenough", "name": "A"}, http.StatusBadRequest},
		{"short password", map[string]string{"email": "a@b.c", "password": "short", "name": "A"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/auth/signup", tt.body, nil)
			wantStatus(t, resp, tt.want)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"email": "a@b.c", "password": "longenough", "name": "A"}

	resp := env.do(t, http.MethodPost, "/api/auth/signup", body, nil)
	wantStatus(t, resp, http.StatusCreated)

	resp = env.do(t, http.MethodPost, "/api/auth/signup", body, nil)
	wantStatus(t, resp, http.StatusConflict)
}

func TestUsernameAvailability(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "crate_digger", "Digger")

	tests := []struct {
		name          string
		candidate     string
		wantAvailable bool
	}{
		{"free username", "newcomer", true},
		{"taken", "crate_digger", false},
		{"taken different case", "Crate_Digger", false},
		{"too short", "ab", false},
		{"bad charset", "with space", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/api/auth/username?u=" + url.QueryEscape(tt.candidate)
			resp := env.do(t, http.MethodGet, path, nil, nil)
			wantStatus(t, resp, http.StatusOK)

			got := decode[availabilityResponse](t, resp)
			if got.Available != tt.wantAvailable {
				t.Errorf("available = %v, want %v (reason %q)", got.Available, tt.wantAvailable, got.Reason)
			}
		})
	}
}

func TestClaimUsername(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken_name", "Other")
	user, cookie := env.seedUser(t, "", "Newbie")

	resp := env.do(t, http.MethodPut, "/api/auth/username", map[string]string{"username": "ab"}, cookie)
	wantStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPut, "/api/auth/username", map[string]string{"username": "Taken_Name"}, cookie)
	wantStatus(t, resp, http.StatusConflict)

	// Claims are normalized to lower case before persisting.
	resp = env.do(t, http.MethodPut, "/api/auth/username", map[string]string{"username": "  NewBie_99 "}, cookie)
	wantStatus(t, resp, http.StatusOK)

	claimed := decode[sessionResponse](t, resp)
	if claimed.User.Username == nil || *claimed.User.Username != "newbie_99" {
		t.Errorf("username = %v, want newbie_99", claimed.User.Username)
	}

	stored, err := env.users.Get(t.Context(), user.ID)
	if err != nil {
		t.Fatalf("loading user: %v", err)
	}
	if stored.Username == nil || *stored.Username != "newbie_99" {
		t.Errorf("stored username = %v, want newbie_99", stored.Username)
	}
}

func TestClaimUsernameRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPut, "/api/auth/username", map[string]string{"username": "whoever"}, nil)
	wantStatus(t, resp, http.StatusUnauthorized)
}

func TestUpdateAccount(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.seedUser(t, "alice", "Alice")

	resp := env.do(t, http.MethodPut, "/api/account", map[string]any{"theme": "midnight"}, cookie)
	wantStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPut, "/api/account", map[string]any{"name": "Alice Cooper", "theme": "dark"}, cookie)
	wantStatus(t, resp, http.StatusOK)

	updated := decode[sessionResponse](t, resp)
	if updated.User.Name != "Alice Cooper" || updated.User.Theme != "dark" {
		t.Errorf("account = %+v, want updated name and theme", updated.User)
	}
	// Username untouched when absent from the payload.
	if updated.User.Username == nil || *updated.User.Username != "alice" {
		t.Errorf("username = %v, want alice", updated.User.Username)
	}
}

package main

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestLoginSuccess(t *testing.T) {
	app := newTestApp(t)
	createTestUser(t, app, "alice", "correct horse")

	w := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"alice"},
		"password": {"correct horse"},
	}, ""))

	assertRedirect(t, w, "/inventory")

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("Expected a session cookie on successful login")
	}
	if !session.HttpOnly {
		t.Error("Session cookie should be HttpOnly")
	}

	var count int
	if err := app.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token = ?", session.Value).Scan(&count); err != nil {
		t.Fatalf("Failed to look up session: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected a stored session row, got %d", count)
	}

	flashes := flashesFromResponse(t, w)
	if !hasFlash(flashes, flashSuccess, "Login successful! Welcome alice Display.") {
		t.Errorf("Expected welcome flash, got %+v", flashes)
	}
}

func TestLoginFailuresUseIdenticalMessage(t *testing.T) {
	app := newTestApp(t)
	createTestUser(t, app, "alice", "correct horse")

	wrongPassword := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"alice"},
		"password": {"battery staple"},
	}, ""))
	unknownUser := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"mallory"},
		"password": {"battery staple"},
	}, ""))

	// Both failure modes must be indistinguishable to the client.
	assertStatus(t, wrongPassword, http.StatusOK)
	assertStatus(t, unknownUser, http.StatusOK)
	for _, body := range []string{wrongPassword.Body.String(), unknownUser.Body.String()} {
		if !strings.Contains(body, "Invalid username or password.") {
			t.Error("Expected the generic failure message in the login page")
		}
	}
	if countRows(t, app, "sessions") != 0 {
		t.Error("Failed logins must not create sessions")
	}
}

// Session expiry is compared against SQLite's CURRENT_TIMESTAMP, which
// is UTC. A local-time expires_at would shrink or stretch the TTL by the
// host's UTC offset.
func TestSessionExpiryStoredAsUTC(t *testing.T) {
	app := newTestApp(t)
	app.cfg.SessionHours = 1
	createTestUser(t, app, "alice", "correct horse")

	w := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"alice"},
		"password": {"correct horse"},
	}, ""))
	assertRedirect(t, w, "/inventory")

	var token, stored string
	if err := app.db.QueryRow("SELECT token, expires_at FROM sessions").Scan(&token, &stored); err != nil {
		t.Fatalf("Failed to read session row: %v", err)
	}
	expires, err := time.Parse("2006-01-02 15:04:05", stored)
	if err != nil {
		t.Fatalf("Unexpected expires_at format %q: %v", stored, err)
	}
	want := time.Now().UTC().Add(time.Hour)
	if diff := expires.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expires_at %q is %v away from now+TTL in UTC", stored, diff)
	}

	// The fresh session must pass the guard's UTC comparison immediately.
	guarded := serve(app, formRequest("GET", "/inventory", nil, token))
	assertStatus(t, guarded, http.StatusOK)
}

// A failing user lookup is a database problem, not bad credentials; it
// gets the generic danger notice instead of the auth-failure message.
func TestLoginLookupErrorIsNotAnAuthFailure(t *testing.T) {
	app := newTestApp(t)
	createTestUser(t, app, "alice", "correct horse")
	app.db.Close()

	w := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"alice"},
		"password": {"correct horse"},
	}, ""))
	assertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "Database operation failed.") {
		t.Error("Expected the generic database notice")
	}
	if strings.Contains(body, "Invalid username or password.") {
		t.Error("A lookup error must not masquerade as bad credentials")
	}
}

func TestLoginMissingFields(t *testing.T) {
	app := newTestApp(t)
	w := serve(app, formRequest("POST", "/login", url.Values{"username": {"alice"}}, ""))
	assertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Username and Password are required.") {
		t.Error("Expected required-fields message")
	}
}

func TestLoginUsernameIsCaseSensitive(t *testing.T) {
	app := newTestApp(t)
	createTestUser(t, app, "alice", "correct horse")

	w := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"Alice"},
		"password": {"correct horse"},
	}, ""))
	assertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Invalid username or password.") {
		t.Error("Case-variant username should not match")
	}
}

func TestLoginHonorsNextParameter(t *testing.T) {
	app := newTestApp(t)
	createTestUser(t, app, "alice", "correct horse")

	w := serve(app, formRequest("POST", "/login", url.Values{
		"username": {"alice"},
		"password": {"correct horse"},
		"next":     {"/categories"},
	}, ""))
	assertRedirect(t, w, "/categories")
}

func TestSafeNextRejectsOffsiteTargets(t *testing.T) {
	cases := map[string]string{
		"":                      "/inventory",
		"/categories":           "/categories",
		"//evil.example":        "/inventory",
		"https://evil.example/": "/inventory",
		"relative/path":         "/inventory",
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGuardRedirectsAnonymousRequests(t *testing.T) {
	app := newTestApp(t)
	w := serve(app, formRequest("GET", "/inventory", nil, ""))
	assertRedirect(t, w, "/login?next=%2Finventory")
	if !hasFlash(flashesFromResponse(t, w), flashWarning, "Please log in to access this page.") {
		t.Error("Expected login-required flash")
	}
}

func TestGuardAllowsValidSession(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")
	w := serve(app, formRequest("GET", "/inventory", nil, token))
	assertStatus(t, w, http.StatusOK)
}

func TestGuardRejectsExpiredSession(t *testing.T) {
	app := newTestApp(t)
	userID := createTestUser(t, app, "alice", "password")
	token := generateToken()
	if _, err := app.db.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, "2020-01-01 00:00:00"); err != nil {
		t.Fatalf("Failed to insert expired session: %v", err)
	}

	w := serve(app, formRequest("GET", "/inventory", nil, token))
	assertRedirect(t, w, "/login?next=%2Finventory")
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")

	w := serve(app, formRequest("GET", "/logout", nil, token))
	assertRedirect(t, w, "/login")
	if !hasFlash(flashesFromResponse(t, w), flashInfo, "You have been logged out.") {
		t.Error("Expected logout flash")
	}
	if countRows(t, app, "sessions") != 0 {
		t.Error("Logout should delete the session row")
	}

	// The old token no longer opens guarded pages.
	after := serve(app, formRequest("GET", "/inventory", nil, token))
	assertRedirect(t, after, "/login?next=%2Finventory")
}

func TestIndexRedirects(t *testing.T) {
	app := newTestApp(t)

	anon := serve(app, formRequest("GET", "/", nil, ""))
	assertRedirect(t, anon, "/login")

	token := loginTestUser(t, app, "alice")
	authed := serve(app, formRequest("GET", "/", nil, token))
	assertRedirect(t, authed, "/inventory")
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")
	w := serve(app, formRequest("GET", "/login", nil, token))
	assertRedirect(t, w, "/inventory")
}

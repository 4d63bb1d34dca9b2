package main

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// newTestApp builds an App over an in-memory database with the real
// schema applied.
func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	// Every pool connection gets its own :memory: database; pin to one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := runMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newApp(db, defaultConfig())
}

// serve routes a request through the auth guard and the full route table.
func serve(app *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.requireAuth(app.routes()).ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, app *App, username, password string) int {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	res, err := app.db.Exec("INSERT INTO users (username, password_hash, display_name) VALUES (?, ?, ?)",
		username, string(hash), username+" Display")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func createTestSession(t *testing.T, app *App, userID int) string {
	t.Helper()
	token := generateToken()
	expires := time.Now().UTC().Add(24 * time.Hour)
	_, err := app.db.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expires.Format("2006-01-02 15:04:05"))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return token
}

// loginTestUser creates a user and an active session for it.
func loginTestUser(t *testing.T, app *App, username string) string {
	t.Helper()
	return createTestSession(t, app, createTestUser(t, app, username, "password"))
}

// seedCategoryLocation inserts one category and one location for item
// forms that require a selection.
func seedCategoryLocation(t *testing.T, app *App, catName, locName string) (int, int) {
	t.Helper()
	cres, err := app.db.Exec("INSERT INTO categories (name) VALUES (?)", catName)
	if err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	lres, err := app.db.Exec("INSERT INTO locations (name) VALUES (?)", locName)
	if err != nil {
		t.Fatalf("Failed to seed location: %v", err)
	}
	cid, _ := cres.LastInsertId()
	lid, _ := lres.LastInsertId()
	return int(cid), int(lid)
}

// formRequest builds a form-encoded request carrying the session cookie.
func formRequest(method, path string, form url.Values, sessionToken string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionToken})
	}
	return req
}

// flashesFromResponse decodes the flash cookie queued on a redirect
// response. Render responses consume the queue; their notices are in the
// body instead.
func flashesFromResponse(t *testing.T, w *httptest.ResponseRecorder) []Flash {
	t.Helper()
	var raw string
	for _, c := range w.Result().Cookies() {
		if c.Name == flashCookie && c.Value != "" {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("Failed to decode flash cookie: %v", err)
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		t.Fatalf("Failed to unmarshal flashes: %v", err)
	}
	return flashes
}

func hasFlash(flashes []Flash, severity, message string) bool {
	for _, f := range flashes {
		if f.Severity == severity && f.Message == message {
			return true
		}
	}
	return false
}

// insertItem seeds an item row directly. catID/locID/userID accept nil.
func insertItem(t *testing.T, app *App, name string, quantity int, catID, locID, userID any) int {
	t.Helper()
	res, err := app.db.Exec(
		"INSERT INTO items (name, quantity, category_id, location_id, user_id) VALUES (?, ?, ?, ?, ?)",
		name, quantity, catID, locID, userID)
	if err != nil {
		t.Fatalf("Failed to insert item %q: %v", name, err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func countRows(t *testing.T, app *App, table string) int {
	t.Helper()
	var n int
	if err := app.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, w, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

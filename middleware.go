package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxUsername contextKey = "username"
)

const sessionCookie = "stockedup_session"

// logRequests records every request with method, path, status, and duration.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requireAuth gates every inventory-management route behind a valid
// session. Unauthenticated requests get a warning flash and a redirect to
// the login page carrying the originally requested URL as a return hint.
func (app *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" ||
			path == "/login" ||
			path == "/metrics" ||
			strings.HasPrefix(path, "/static/") ||
			path == "/favicon.ico" {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := app.sessionUser(r)
		if !ok {
			addFlash(w, r, flashWarning, "Please log in to access this page.")
			redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()))
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, user.ID)
		ctx = context.WithValue(ctx, ctxUsername, user.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionUser resolves the session cookie to its user, if any.
func (app *App) sessionUser(r *http.Request) (*User, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	var u User
	err = app.db.QueryRow(`SELECT u.id, u.username, COALESCE(u.display_name, u.username)
		FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP`, cookie.Value).
		Scan(&u.ID, &u.Username, &u.DisplayName)
	if err != nil {
		return nil, false
	}
	return &u, true
}

// currentUserID returns the authenticated user id placed in the request
// context by requireAuth.
func currentUserID(r *http.Request) (int, bool) {
	id, ok := r.Context().Value(ctxUserID).(int)
	return id, ok
}

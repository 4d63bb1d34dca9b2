package main

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func (app *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := app.sessionUser(r); ok {
		redirect(w, r, "/inventory")
		return
	}
	app.render(w, r, "login.html", map[string]any{
		"Next": r.URL.Query().Get("next"),
	})
}

func (app *App) handleLoginAction(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	next := r.FormValue("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}

	if username == "" || password == "" {
		addFlash(w, r, flashDanger, "Username and Password are required.")
		app.render(w, r, "login.html", map[string]any{"Next": next})
		return
	}

	// Username lookup is a case-sensitive exact match. Unknown user and
	// wrong password take the same branch: one generic message, no user
	// enumeration. The password itself is never logged.
	var userID int
	var passwordHash, displayName string
	err := app.db.QueryRow("SELECT id, password_hash, COALESCE(display_name, username) FROM users WHERE username = ?", username).
		Scan(&userID, &passwordHash, &displayName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("user lookup failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
		app.render(w, r, "login.html", map[string]any{"Next": next})
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		slog.Info("login failed", "username", username)
		addFlash(w, r, flashDanger, "Invalid username or password.")
		app.render(w, r, "login.html", map[string]any{"Next": next})
		return
	}

	// Clear any prior session state before installing the new identity.
	if old, err := r.Cookie(sessionCookie); err == nil && old.Value != "" {
		app.db.Exec("DELETE FROM sessions WHERE token = ?", old.Value)
	}
	app.db.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP")

	// Stored in UTC: expiry checks compare against SQLite's
	// CURRENT_TIMESTAMP, which is always UTC.
	expires := time.Now().UTC().Add(app.cfg.sessionTTL())
	var token string
	var insertErr error
	for i := 0; i < 3; i++ {
		token = generateToken()
		_, insertErr = app.db.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
			token, userID, expires.Format("2006-01-02 15:04:05"))
		if insertErr == nil {
			break
		}
	}
	if insertErr != nil {
		slog.Error("failed to create session", "error", insertErr)
		addFlash(w, r, flashDanger, "Database operation failed.")
		app.render(w, r, "login.html", map[string]any{"Next": next})
		return
	}

	app.db.Exec("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", userID)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})

	slog.Info("login successful", "username", username, "user_id", userID)
	addFlash(w, r, flashSuccess, "Login successful! Welcome "+displayName+".")
	redirect(w, r, safeNext(next))
}

func (app *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		app.db.Exec("DELETE FROM sessions WHERE token = ?", cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	addFlash(w, r, flashInfo, "You have been logged out.")
	redirect(w, r, "/login")
}

// safeNext keeps the post-login redirect on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/inventory"
	}
	return next
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

func (app *App) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := app.categories()
	if err != nil {
		slog.Error("categories query failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
	}
	app.render(w, r, "categories.html", map[string]any{"Categories": cats})
}

// handleAddCategory creates a category. Names are unique ignoring case: a
// duplicate is a warning, not an error, and inserts nothing. The schema's
// NOCASE unique constraint backs this up against concurrent submissions.
func (app *App) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("category_name"))
	if name == "" {
		addFlash(w, r, flashDanger, "Category Name cannot be empty.")
		redirect(w, r, "/categories")
		return
	}

	var existingID int
	err := app.db.QueryRow("SELECT id FROM categories WHERE LOWER(name) = LOWER(?)", name).Scan(&existingID)
	if err == nil {
		addFlash(w, r, flashWarning, fmt.Sprintf("Category '%s' already exists.", name))
		redirect(w, r, "/categories")
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("category lookup failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
		redirect(w, r, "/categories")
		return
	}

	res, ok := app.execFlash(w, r, "INSERT INTO categories (name) VALUES (?)", name)
	if ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Category '%s' added successfully.", name))
		if id, err := res.LastInsertId(); err == nil {
			app.broadcast("category", "created", id)
		}
	}
	redirect(w, r, "/categories")
}

// handleDeleteCategory removes a category. Dependent items survive with
// their category reference set NULL (ON DELETE SET NULL), never deleted.
func (app *App) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/categories")
		return
	}

	label := fmt.Sprintf("ID %d", id)
	var name string
	if err := app.db.QueryRow("SELECT name FROM categories WHERE id = ?", id).Scan(&name); err == nil {
		label = fmt.Sprintf("'%s' (ID: %d)", name, id)
	}

	if _, ok := app.execFlash(w, r, "DELETE FROM categories WHERE id = ?", id); ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Category %s deleted. Associated items are now uncategorized.", label))
		app.broadcast("category", "deleted", int64(id))
	}
	redirect(w, r, "/categories")
}

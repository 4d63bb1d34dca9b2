package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

func (app *App) handleLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := app.locations()
	if err != nil {
		slog.Error("locations query failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
	}
	app.render(w, r, "locations.html", map[string]any{"Locations": locs})
}

func (app *App) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("location_name"))
	if name == "" {
		addFlash(w, r, flashDanger, "Location Name cannot be empty.")
		redirect(w, r, "/locations")
		return
	}

	var existingID int
	err := app.db.QueryRow("SELECT id FROM locations WHERE LOWER(name) = LOWER(?)", name).Scan(&existingID)
	if err == nil {
		addFlash(w, r, flashWarning, fmt.Sprintf("Location '%s' already exists.", name))
		redirect(w, r, "/locations")
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("location lookup failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
		redirect(w, r, "/locations")
		return
	}

	res, ok := app.execFlash(w, r, "INSERT INTO locations (name) VALUES (?)", name)
	if ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Location '%s' added successfully.", name))
		if id, err := res.LastInsertId(); err == nil {
			app.broadcast("location", "created", id)
		}
	}
	redirect(w, r, "/locations")
}

func (app *App) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/locations")
		return
	}

	label := fmt.Sprintf("ID %d", id)
	var name string
	if err := app.db.QueryRow("SELECT name FROM locations WHERE id = ?", id).Scan(&name); err == nil {
		label = fmt.Sprintf("'%s' (ID: %d)", name, id)
	}

	if _, ok := app.execFlash(w, r, "DELETE FROM locations WHERE id = ?", id); ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Location %s deleted. Associated items location is now unassigned.", label))
		app.broadcast("location", "deleted", int64(id))
	}
	redirect(w, r, "/locations")
}

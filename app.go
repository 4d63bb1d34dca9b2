package main

import (
	"bytes"
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"

	"stockedup/internal/websocket"
)

// App holds the process dependencies and is threaded into every handler;
// there is no ambient global state.
type App struct {
	db    *sql.DB
	cfg   *Config
	hub   *websocket.Hub
	pages map[string]*template.Template
}

func newApp(db *sql.DB, cfg *Config) *App {
	return &App{
		db:    db,
		cfg:   cfg,
		hub:   websocket.NewHub(),
		pages: parseTemplates(),
	}
}

// execFlash runs a single write statement. On a database error it logs,
// queues one generic danger notice, and reports failure; callers must
// branch on the result before claiming success to the user. A write that
// touched zero rows still reports ok; "failed" and "no rows" are
// distinct outcomes.
func (app *App) execFlash(w http.ResponseWriter, r *http.Request, query string, args ...any) (sql.Result, bool) {
	res, err := app.db.Exec(query, args...)
	if err != nil {
		slog.Error("database operation failed", "error", err, "query", query)
		addFlash(w, r, flashDanger, "Database operation failed.")
		return nil, false
	}
	return res, true
}

// render executes a page template into a buffer first so a template error
// never leaves a half-written response. Queued flashes are popped here.
func (app *App) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	tmpl, ok := app.pages[page]
	if !ok {
		slog.Error("unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = popFlashes(w, r)
	if name, ok := r.Context().Value(ctxUsername).(string); ok {
		data["Username"] = name
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("render failed", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// broadcast notifies connected pages that an entity changed.
func (app *App) broadcast(entity, action string, id int64) {
	app.hub.BroadcastChange(entity, action, id)
}

// categories returns all categories ordered by name for dropdowns and
// the management page.
func (app *App) categories() ([]Category, error) {
	rows, err := app.db.Query("SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (app *App) locations() ([]Location, error) {
	rows, err := app.db.Query("SELECT id, name FROM locations ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locs []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

// pickerLists loads the category and location dropdown contents, flashing
// a danger notice if either read fails. Forms still render with whatever
// loaded.
func (app *App) pickerLists(w http.ResponseWriter, r *http.Request) ([]Category, []Location) {
	cats, err := app.categories()
	if err != nil {
		slog.Error("load categories failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
	}
	locs, err := app.locations()
	if err != nil {
		slog.Error("load locations failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
	}
	return cats, locs
}

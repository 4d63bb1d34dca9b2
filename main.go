package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"stockedup/internal/logging"
)

func main() {
	logging.Setup()

	configPath := flag.String("config", "stockedup.yaml", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	initOnly := flag.Bool("init", false, "Recreate the database schema from scratch and exit")
	flag.Parse()

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})

	cfg, err := loadConfig(*configPath, explicitConfig)
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	if *initOnly {
		db, err := resetDB(cfg.DBPath)
		if err != nil {
			slog.Error("database init failed", "error", err)
			os.Exit(1)
		}
		seedDB(db, cfg.AdminPassword)
		db.Close()
		slog.Info("database initialized", "path", cfg.DBPath)
		return
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	seedDB(db, cfg.AdminPassword)

	app := newApp(db, cfg)

	slog.Info("StockedUp server starting", "addr", cfg.Addr, "db", cfg.DBPath)
	if err := http.ListenAndServe(cfg.Addr, logRequests(metrics(app.requireAuth(app.routes())))); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// routes maps the HTTP surface onto handlers. Mutating routes are POST
// only and answer with a redirect.
func (app *App) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", app.handleIndex)
	mux.HandleFunc("GET /login", app.handleLoginPage)
	mux.HandleFunc("POST /login", app.handleLoginAction)
	mux.HandleFunc("GET /logout", app.handleLogout)

	mux.HandleFunc("GET /inventory", app.handleInventory)
	mux.HandleFunc("GET /add", app.handleAddForm)
	mux.HandleFunc("POST /add", app.handleAddAction)
	mux.HandleFunc("GET /item/{id}", app.handleItemDetail)
	mux.HandleFunc("GET /edit/{id}", app.handleEditForm)
	mux.HandleFunc("POST /edit/{id}", app.handleEditAction)
	mux.HandleFunc("POST /delete/{id}", app.handleDeleteAction)
	mux.HandleFunc("GET /search", app.handleSearchForm)
	mux.HandleFunc("GET /export", app.handleExport)

	mux.HandleFunc("GET /categories", app.handleCategories)
	mux.HandleFunc("POST /add_category", app.handleAddCategory)
	mux.HandleFunc("POST /delete_category/{id}", app.handleDeleteCategory)

	mux.HandleFunc("GET /locations", app.handleLocations)
	mux.HandleFunc("POST /add_location", app.handleAddLocation)
	mux.HandleFunc("POST /delete_location/{id}", app.handleDeleteLocation)

	mux.HandleFunc("GET /ws", app.handleWebSocket)
	mux.Handle("GET /metrics", metricsHandler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return mux
}

package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

func (app *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := app.sessionUser(r); ok {
		redirect(w, r, "/inventory")
		return
	}
	redirect(w, r, "/login")
}

// handleInventory renders the filtered item listing. All supplied filters
// AND together; no filters means the full name-ordered list.
func (app *App) handleInventory(w http.ResponseWriter, r *http.Request) {
	filter := itemFilterFrom(r.URL.Query())
	items, err := app.queryItems(filter)
	if err != nil {
		slog.Error("inventory query failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
	}
	cats, locs := app.pickerLists(w, r)
	app.render(w, r, "inventory.html", map[string]any{
		"Items":      items,
		"Filter":     filter,
		"Categories": cats,
		"Locations":  locs,
	})
}

func (app *App) handleAddForm(w http.ResponseWriter, r *http.Request) {
	cats, locs := app.pickerLists(w, r)
	app.render(w, r, "item_form.html", map[string]any{
		"Title":      "Add Item",
		"Action":     "/add",
		"Form":       itemForm{},
		"Categories": cats,
		"Locations":  locs,
	})
}

func (app *App) handleAddAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		// Identity vanished between page load and submission.
		addFlash(w, r, flashWarning, "Your session has expired.")
		redirect(w, r, "/login")
		return
	}

	form := itemFormFrom(r)
	if errs := form.validate(); len(errs) > 0 {
		for _, f := range errs {
			addFlash(w, r, f.Severity, f.Message)
		}
		cats, locs := app.pickerLists(w, r)
		app.render(w, r, "item_form.html", map[string]any{
			"Title":      "Add Item",
			"Action":     "/add",
			"Form":       form,
			"Categories": cats,
			"Locations":  locs,
		})
		return
	}

	res, ok := app.execFlash(w, r,
		`INSERT INTO items (name, quantity, purchase_date, expiration_date, category_id, location_id, user_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		form.Name, form.quantity, nullIfEmpty(form.PurchaseDate), nullIfEmpty(form.ExpirationDate),
		form.categoryID, form.locationID, userID, nullIfEmpty(form.Notes))
	if ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Item '%s' added successfully!", form.Name))
		if id, err := res.LastInsertId(); err == nil {
			app.broadcast("item", "created", id)
		}
	}
	redirect(w, r, "/inventory")
}

func (app *App) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/inventory")
		return
	}

	var i Item
	err := app.db.QueryRow(`SELECT i.id, i.name, i.quantity,
		COALESCE(i.purchase_date,''), COALESCE(i.expiration_date,''), COALESCE(i.notes,''),
		i.category_id, i.location_id, i.user_id,
		COALESCE(c.name,''), COALESCE(l.name,''), COALESCE(u.username,'')
		FROM items i
		LEFT JOIN categories c ON i.category_id = c.id
		LEFT JOIN locations l ON i.location_id = l.id
		LEFT JOIN users u ON i.user_id = u.id
		WHERE i.id = ?`, id).
		Scan(&i.ID, &i.Name, &i.Quantity, &i.PurchaseDate, &i.ExpirationDate, &i.Notes,
			&i.CategoryID, &i.LocationID, &i.UserID, &i.CategoryName, &i.LocationName, &i.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		addFlash(w, r, flashDanger, fmt.Sprintf("Item with ID %d not found.", id))
		redirect(w, r, "/inventory")
		return
	}
	if err != nil {
		slog.Error("item detail query failed", "error", err, "id", id)
		addFlash(w, r, flashDanger, "Database operation failed.")
		redirect(w, r, "/inventory")
		return
	}
	app.render(w, r, "item_detail.html", map[string]any{"Item": i})
}

func (app *App) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/inventory")
		return
	}

	item, err := app.itemByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		addFlash(w, r, flashDanger, fmt.Sprintf("Item with ID %d not found.", id))
		redirect(w, r, "/inventory")
		return
	}
	if err != nil {
		slog.Error("edit form query failed", "error", err, "id", id)
		addFlash(w, r, flashDanger, "Database operation failed.")
		redirect(w, r, "/inventory")
		return
	}

	form := itemForm{
		Name:           item.Name,
		Quantity:       strconv.Itoa(item.Quantity),
		PurchaseDate:   item.PurchaseDate,
		ExpirationDate: item.ExpirationDate,
		Notes:          item.Notes,
	}
	if item.CategoryID.Valid {
		form.Category = strconv.FormatInt(item.CategoryID.Int64, 10)
	}
	if item.LocationID.Valid {
		form.Location = strconv.FormatInt(item.LocationID.Int64, 10)
	}

	cats, locs := app.pickerLists(w, r)
	app.render(w, r, "item_form.html", map[string]any{
		"Title":      fmt.Sprintf("Edit Item #%d", id),
		"Action":     fmt.Sprintf("/edit/%d", id),
		"Form":       form,
		"Categories": cats,
		"Locations":  locs,
	})
}

func (app *App) handleEditAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/inventory")
		return
	}

	form := itemFormFrom(r)
	if errs := form.validate(); len(errs) > 0 {
		for _, f := range errs {
			addFlash(w, r, f.Severity, f.Message)
		}
		if _, err := app.itemByID(id); errors.Is(err, sql.ErrNoRows) {
			addFlash(w, r, flashDanger, fmt.Sprintf("Item with ID %d not found.", id))
			redirect(w, r, "/inventory")
			return
		}
		cats, locs := app.pickerLists(w, r)
		app.render(w, r, "item_form.html", map[string]any{
			"Title":      fmt.Sprintf("Edit Item #%d", id),
			"Action":     fmt.Sprintf("/edit/%d", id),
			"Form":       form,
			"Categories": cats,
			"Locations":  locs,
		})
		return
	}

	// Owner and identifier are immutable; every other field updates.
	_, ok = app.execFlash(w, r,
		`UPDATE items SET name = ?, quantity = ?, purchase_date = ?, expiration_date = ?,
		 category_id = ?, location_id = ?, notes = ? WHERE id = ?`,
		form.Name, form.quantity, nullIfEmpty(form.PurchaseDate), nullIfEmpty(form.ExpirationDate),
		form.categoryID, form.locationID, nullIfEmpty(form.Notes), id)
	if ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Item '%s' updated successfully!", form.Name))
		app.broadcast("item", "updated", int64(id))
	}
	redirect(w, r, "/inventory")
}

// handleDeleteAction deletes an item. The name is looked up first for the
// confirmation message; deleting an id that no longer exists is not an
// error.
func (app *App) handleDeleteAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirect(w, r, "/inventory")
		return
	}

	label := fmt.Sprintf("ID %d", id)
	var name string
	if err := app.db.QueryRow("SELECT name FROM items WHERE id = ?", id).Scan(&name); err == nil {
		label = fmt.Sprintf("'%s' (ID: %d)", name, id)
	}

	if _, ok := app.execFlash(w, r, "DELETE FROM items WHERE id = ?", id); ok {
		addFlash(w, r, flashSuccess, fmt.Sprintf("Item %s deleted successfully!", label))
		app.broadcast("item", "deleted", int64(id))
	}
	redirect(w, r, "/inventory")
}

// handleSearchForm renders the standalone filter form; the actual
// filtering happens on /inventory.
func (app *App) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	cats, locs := app.pickerLists(w, r)
	app.render(w, r, "search.html", map[string]any{
		"Categories": cats,
		"Locations":  locs,
	})
}

func (app *App) itemByID(id int) (*Item, error) {
	var i Item
	err := app.db.QueryRow(itemSelect+" WHERE i.id = ?", id).
		Scan(&i.ID, &i.Name, &i.Quantity, &i.PurchaseDate, &i.ExpirationDate, &i.Notes,
			&i.CategoryID, &i.LocationID, &i.UserID, &i.CategoryName, &i.LocationName)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

package main

import (
	"net/url"
	"strconv"
	"strings"
)

// itemSelect is the fixed projection for inventory listings. The LEFT
// JOINs keep items with absent category/location references visible.
const itemSelect = `SELECT i.id, i.name, i.quantity,
	COALESCE(i.purchase_date,''), COALESCE(i.expiration_date,''), COALESCE(i.notes,''),
	i.category_id, i.location_id, i.user_id,
	COALESCE(c.name,''), COALESCE(l.name,'')
	FROM items i
	LEFT JOIN categories c ON i.category_id = c.id
	LEFT JOIN locations l ON i.location_id = l.id`

// itemOrder: name ascending; id breaks ties so equal names order stably.
const itemOrder = " ORDER BY i.name ASC, i.id ASC"

// itemFilter holds the three independent optional listing filters.
// Category/Location keep the raw query value: anything that isn't a
// non-negative integer literal is silently ignored, not rejected.
type itemFilter struct {
	Term     string
	Category string
	Location string
}

func itemFilterFrom(q url.Values) itemFilter {
	return itemFilter{
		Term:     strings.TrimSpace(q.Get("search_term")),
		Category: strings.TrimSpace(q.Get("category_filter")),
		Location: strings.TrimSpace(q.Get("location_filter")),
	}
}

// where assembles the WHERE clause as a predicate list: each applicable
// filter appends one parameterized fragment, joined with AND. User input
// only ever travels through bound args.
//
// The term matches as a substring of name or notes; SQLite LIKE makes
// that case-insensitive for ASCII, which is the documented behavior.
func (f itemFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.Term != "" {
		conds = append(conds, "(i.name LIKE ? OR i.notes LIKE ?)")
		wc := "%" + f.Term + "%"
		args = append(args, wc, wc)
	}
	if id, ok := filterID(f.Category); ok {
		conds = append(conds, "i.category_id = ?")
		args = append(args, id)
	}
	if id, ok := filterID(f.Location); ok {
		conds = append(conds, "i.location_id = ?")
		args = append(args, id)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Empty reports whether no filter is active.
func (f itemFilter) Empty() bool {
	w, _ := f.where()
	return w == ""
}

// filterID accepts only unsigned digit strings, mirroring the original
// behavior that a value like "abc" or "-1" means "no filter".
func filterID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// queryItems runs the filtered, name-ordered inventory listing.
func (app *App) queryItems(f itemFilter) ([]Item, error) {
	where, args := f.where()
	rows, err := app.db.Query(itemSelect+where+itemOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Quantity, &i.PurchaseDate, &i.ExpirationDate,
			&i.Notes, &i.CategoryID, &i.LocationID, &i.UserID, &i.CategoryName, &i.LocationName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

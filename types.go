package main

import "database/sql"

// User is an authenticated account. Accounts are created out-of-band
// (seeded or inserted directly); there is no registration route.
type User struct {
	ID          int
	Username    string
	DisplayName string
}

// Category is a user-defined grouping label. Deleting a category orphans
// dependent items (their reference goes NULL), it never cascades.
type Category struct {
	ID   int
	Name string
}

// Location mirrors Category for the "where is it" axis.
type Location struct {
	ID   int
	Name string
}

// Item is a tracked inventory record. Category/Location/Owner references
// may be absent at any time; handlers and templates treat absence as a
// valid, displayable state.
type Item struct {
	ID             int
	Name           string
	Quantity       int
	PurchaseDate   string
	ExpirationDate string
	Notes          string
	CategoryID     sql.NullInt64
	LocationID     sql.NullInt64
	UserID         sql.NullInt64
	CategoryName   string // "" when uncategorized
	LocationName   string // "" when unassigned
	Owner          string // username, detail view only
}

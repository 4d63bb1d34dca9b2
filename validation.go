package main

import (
	"net/http"
	"strconv"
	"strings"
)

// itemForm carries the raw submitted fields so a failed validation can
// re-render the form with everything the user typed, plus the parsed
// values used for persistence once validation passes.
type itemForm struct {
	Name           string
	Quantity       string
	Category       string
	Location       string
	PurchaseDate   string
	ExpirationDate string
	Notes          string

	quantity   int
	categoryID int
	locationID int
}

func itemFormFrom(r *http.Request) itemForm {
	return itemForm{
		Name:           strings.TrimSpace(r.FormValue("item_name")),
		Quantity:       strings.TrimSpace(r.FormValue("quantity")),
		Category:       strings.TrimSpace(r.FormValue("category_id")),
		Location:       strings.TrimSpace(r.FormValue("location_id")),
		PurchaseDate:   strings.TrimSpace(r.FormValue("purchase_date")),
		ExpirationDate: strings.TrimSpace(r.FormValue("expiration_date")),
		Notes:          strings.TrimSpace(r.FormValue("notes")),
	}
}

// validate applies the create/update rules and returns one danger flash
// per violated rule. Rules are identical for add and edit. Quantity parse
// failure and a negative value share a single combined message.
func (f *itemForm) validate() []Flash {
	var errs []Flash
	fail := func(msg string) {
		errs = append(errs, Flash{Severity: flashDanger, Message: msg})
	}

	if f.Name == "" {
		fail("Item Name is required.")
	}
	if f.Category == "" {
		fail("Category must be selected.")
	} else if id, err := strconv.Atoi(f.Category); err != nil {
		fail("Invalid ID selected.")
	} else {
		f.categoryID = id
	}
	if f.Location == "" {
		fail("Location must be selected.")
	} else if id, err := strconv.Atoi(f.Location); err != nil {
		fail("Invalid ID selected.")
	} else {
		f.locationID = id
	}
	if f.Quantity == "" {
		fail("Quantity is required.")
	} else if q, err := strconv.Atoi(f.Quantity); err != nil || q < 0 {
		fail("Quantity must be a non-negative integer.")
	} else {
		f.quantity = q
	}
	// Dates and notes are optional and stored as submitted.
	return errs
}

// nullIfEmpty maps an optional trimmed field to NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package main

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"testing"
)

func TestExportCSV(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")
	catID, locID := seedCategoryLocation(t, app, "Dairy", "Fridge")
	insertItem(t, app, "Milk", 2, catID, locID, nil)
	insertItem(t, app, "Rice", 3, nil, nil, nil)

	w := serve(app, formRequest("GET", "/export", nil, token))
	assertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "inventory.csv") {
		t.Errorf("Expected attachment disposition, got %q", cd)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "ID" || records[0][1] != "Name" || records[0][7] != "Notes" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	// Name-ordered: Milk before Rice.
	if records[1][1] != "Milk" || records[2][1] != "Rice" {
		t.Errorf("Unexpected row order: %v / %v", records[1], records[2])
	}
	if records[1][3] != "Dairy" || records[1][4] != "Fridge" {
		t.Errorf("Expected joined names, got %v", records[1])
	}
	// Orphan references use the same placeholders as the listing page.
	if records[2][3] != "Uncategorized" || records[2][4] != "Unassigned" {
		t.Errorf("Expected placeholders, got %v", records[2])
	}
}

func TestExportHonorsFilters(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")
	catID, locID := seedCategoryLocation(t, app, "Dairy", "Fridge")
	insertItem(t, app, "Milk", 2, catID, locID, nil)
	insertItem(t, app, "Rice", 3, nil, nil, nil)

	w := serve(app, formRequest("GET", "/export?category_filter="+strconv.Itoa(catID), nil, token))
	assertStatus(t, w, http.StatusOK)

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 2 || records[1][1] != "Milk" {
		t.Errorf("Expected only the filtered row, got %v", records)
	}
}

func TestExportExcel(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")
	insertItem(t, app, "Milk", 2, nil, nil, nil)

	w := serve(app, formRequest("GET", "/export?format=xlsx", nil, token))
	assertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Expected xlsx content type, got %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("Expected a non-empty workbook")
	}
}

func TestExportRequiresSession(t *testing.T) {
	app := newTestApp(t)
	w := serve(app, formRequest("GET", "/export", nil, ""))
	assertRedirect(t, w, "/login?next=%2Fexport")
}

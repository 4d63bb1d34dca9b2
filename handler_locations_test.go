package main

import (
	"fmt"
	"net/url"
	"testing"
)

func TestAddLocation(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")

	w := serve(app, formRequest("POST", "/add_location", url.Values{"location_name": {"Fridge"}}, token))
	assertRedirect(t, w, "/locations")
	if !hasFlash(flashesFromResponse(t, w), flashSuccess, "Location 'Fridge' added successfully.") {
		t.Error("Expected success flash")
	}
}

func TestAddLocationDuplicateIgnoresCase(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")

	serve(app, formRequest("POST", "/add_location", url.Values{"location_name": {"Fridge"}}, token))
	w := serve(app, formRequest("POST", "/add_location", url.Values{"location_name": {"FRIDGE"}}, token))
	assertRedirect(t, w, "/locations")
	if !hasFlash(flashesFromResponse(t, w), flashWarning, "Location 'FRIDGE' already exists.") {
		t.Error("Expected duplicate warning")
	}
	if countRows(t, app, "locations") != 1 {
		t.Errorf("Duplicate must not insert, got %d rows", countRows(t, app, "locations"))
	}
}

func TestAddLocationEmptyName(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")

	w := serve(app, formRequest("POST", "/add_location", url.Values{}, token))
	assertRedirect(t, w, "/locations")
	if !hasFlash(flashesFromResponse(t, w), flashDanger, "Location Name cannot be empty.") {
		t.Error("Expected empty-name flash")
	}
}

func TestDeleteLocationUnassignsItems(t *testing.T) {
	app := newTestApp(t)
	token := loginTestUser(t, app, "alice")
	catID, locID := seedCategoryLocation(t, app, "Dairy", "Fridge")
	itemID := insertItem(t, app, "Milk", 2, catID, locID, nil)

	w := serve(app, formRequest("POST", fmt.Sprintf("/delete_location/%d", locID), nil, token))
	assertRedirect(t, w, "/locations")
	if !hasFlash(flashesFromResponse(t, w), flashSuccess,
		fmt.Sprintf("Location 'Fridge' (ID: %d) deleted. Associated items location is now unassigned.", locID)) {
		t.Error("Expected delete flash")
	}

	item, err := app.itemByID(itemID)
	if err != nil {
		t.Fatalf("itemByID failed: %v", err)
	}
	if item.LocationID.Valid {
		t.Error("Expected NULL location reference after delete")
	}
	// The category reference is untouched.
	if !item.CategoryID.Valid || int(item.CategoryID.Int64) != catID {
		t.Error("Category reference should be unchanged")
	}
}

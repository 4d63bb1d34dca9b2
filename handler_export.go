package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// handleExport writes the filtered inventory listing as CSV (default) or
// Excel. Filter semantics are identical to /inventory.
func (app *App) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	filter := itemFilterFrom(r.URL.Query())
	items, err := app.queryItems(filter)
	if err != nil {
		slog.Error("export query failed", "error", err)
		addFlash(w, r, flashDanger, "Database operation failed.")
		redirect(w, r, "/inventory")
		return
	}

	headers := []string{"ID", "Name", "Quantity", "Category", "Location", "Purchase Date", "Expiration Date", "Notes"}
	data := make([][]string, 0, len(items))
	for _, i := range items {
		cat := i.CategoryName
		if cat == "" {
			cat = "Uncategorized"
		}
		loc := i.LocationName
		if loc == "" {
			loc = "Unassigned"
		}
		data = append(data, []string{
			strconv.Itoa(i.ID), i.Name, strconv.Itoa(i.Quantity),
			cat, loc, i.PurchaseDate, i.ExpirationDate, i.Notes,
		})
	}

	if format == "xlsx" {
		exportExcel(w, "Inventory", headers, data)
	} else {
		exportCSV(w, "inventory.csv", headers, data)
	}
}

func exportCSV(w http.ResponseWriter, filename string, headers []string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		http.Error(w, "Failed to write CSV headers", 500)
		return
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			http.Error(w, "Failed to write CSV row", 500)
			return
		}
	}
}

func exportExcel(w http.ResponseWriter, sheetName string, headers []string, data [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		http.Error(w, "Failed to create Excel sheet", 500)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		http.Error(w, "Failed to create header style", 500)
		return
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=inventory.xlsx")
	if err := f.Write(w); err != nil {
		slog.Error("excel export write failed", "error", err)
	}
}

package main

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates lists every page that composes with the shared layout.
var pageTemplates = []string{
	"login.html",
	"inventory.html",
	"item_form.html",
	"item_detail.html",
	"search.html",
	"categories.html",
	"locations.html",
}

// parseTemplates builds one template set per page so each page's
// "content" block overrides the layout independently.
func parseTemplates() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, p := range pageTemplates {
		pages[p] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+p))
	}
	return pages
}

package main

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Flash is a one-shot severity-tagged notice queued for the next rendered
// page. Handlers produce them; the renderer pops and displays them.
type Flash struct {
	Severity string
	Message  string
}

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

const flashCookie = "stockedup_flash"

// addFlash appends a notice to the flash cookie. The queue survives one
// redirect and is cleared when rendered.
func addFlash(w http.ResponseWriter, r *http.Request, severity, message string) {
	flashes := readFlashes(r)
	flashes = append(flashes, Flash{Severity: severity, Message: message})
	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Same-response renders (validation failures) read the request cookie,
	// which doesn't see Set-Cookie; keep the queue on the request too.
	r.AddCookie(&http.Cookie{Name: flashCookie, Value: base64.RawURLEncoding.EncodeToString(data)})
}

// popFlashes returns all queued notices and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookies := r.Cookies()
	// The request may carry several copies after addFlash; the newest wins.
	var raw string
	for _, c := range cookies {
		if c.Name == flashCookie && c.Value != "" {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}

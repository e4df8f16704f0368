package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// flashCookie carries a toast across a plain 302, where HX-Trigger is lost.
const flashCookie = "flash_toast"

type toastPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a toast notification. HTMX requests pick it up from the
// showToast event in HX-Trigger (merged into any existing trigger object);
// regular redirects read the short-lived flash cookie on the next page.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := toastPayload{Message: message, Type: toastType}

	trigger := make(map[string]any)
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			trigger = make(map[string]any)
		}
	}
	trigger["showToast"] = payload

	data, err := json.Marshal(trigger)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	flash, err := json.Marshal(payload)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(flash)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by the layout script
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorToast shows an error toast and writes the message with statusCode.
// HX-Reswap: none keeps HTMX from swapping the error text into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// redirect sends HTMX requests an HX-Redirect and everything else a 302.
func redirect(e *core.RequestEvent, url string) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}

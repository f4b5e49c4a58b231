// Package web serves the embedded browser pages: the chat client and the
// material upload form. Conversation state (history and used materials) lives
// in the page, the server stays stateless.
package web

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static/*.html
var pagesFS embed.FS

func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagesFS.ReadFile("static/" + name)
		if err != nil {
			http.Error(w, "page not found", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	}
}

// RegisterRoutes registers the browser pages
func RegisterRoutes(r chi.Router) {
	r.Get("/", servePage("index.html"))
	r.Get("/upload-form", servePage("upload.html"))
}

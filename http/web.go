package http

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

// handleIndex serves the embedded passenger form. The page drives the JSON
// API; it carries no state of its own.
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

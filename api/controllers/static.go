package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mtsdigital/storefront/api/responses"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
)

const apiNotFoundMessage = "API endpoint not found"

// APINotFound answers unknown /api paths with the JSON error envelope.
func APINotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteErrorStatus(w, http.StatusNotFound, pkgerrors.CodeNotFound, apiNotFoundMessage, nil)
	}
}

// SPA serves the prebuilt frontend from dir. Paths that do not map to a file
// fall back to index.html so client-side routes resolve.
func SPA(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	files := http.FileServer(root)
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
			APINotFound()(w, r)
			return
		}

		clean := path.Clean("/" + r.URL.Path)
		if clean != "/" {
			if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean))); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}

package ui

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Handler serves the single-page dashboard. Paths that do not name a file
// fall back to index.html so client-side tab links survive a reload.
func Handler() (http.Handler, error) {
	dist, err := fs.Sub(DistFS(), "dist")
	if err != nil {
		return nil, err
	}
	files := http.FileServer(http.FS(dist))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" {
			if _, err := fs.Stat(dist, name); err == nil {
				files.ServeHTTP(w, r)
				return
			}
		}
		if strings.HasPrefix(r.URL.Path, "/api/") || path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, dist, "index.html")
	}), nil
}

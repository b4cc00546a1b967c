// Package web serves static assets from a configured document root. It is
// the fallback for every GET the API does not claim.
package web

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"restaurant-orders/internal/logger"
)

// mimeTypes covers the asset types the browser client actually requests;
// anything else goes out as an opaque download.
var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".png":  "image/png",
}

// StaticServer resolves request paths against a document root.
type StaticServer struct {
	root   string
	logger *logger.Logger
}

func NewStaticServer(root string, log *logger.Logger) *StaticServer {
	return &StaticServer{
		root:   root,
		logger: log,
	}
}

// ServeHTTP serves the landing page for "/" and a document-root lookup for
// everything else. A missing asset is a plain-text 404; a missing landing
// page is a 500, matching the API contract for the root path.
func (s *StaticServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.serveFile(w, r, "index.html", http.StatusInternalServerError, "Error loading home page.")
		return
	}

	// Cleaning the rooted path first keeps lookups inside the document root.
	name := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	s.serveFile(w, r, name, http.StatusNotFound, "File not found.")
}

func (s *StaticServer) serveFile(w http.ResponseWriter, r *http.Request, name string, missStatus int, missBody string) {
	path := filepath.Join(s.root, name)

	data, err := os.ReadFile(path)
	if err != nil {
		requestID := logger.RequestIDFrom(r.Context())
		s.logger.Debug("static_miss", requestID, fmt.Sprintf("No static file for %s", r.URL.Path))
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(missStatus)
		w.Write([]byte(missBody))
		return
	}

	contentType := mimeTypes[strings.ToLower(filepath.Ext(path))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

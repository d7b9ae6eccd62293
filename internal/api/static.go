package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Static conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func (s *Server) Static(path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("Static does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		s.router.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	s.router.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}

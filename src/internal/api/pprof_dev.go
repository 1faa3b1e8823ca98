//go:build dev

package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
)

// registerPprof mounts the runtime profiles next to the control endpoints,
// behind the same access middleware. Named profiles (heap, goroutine,
// block, mutex, ...) are served by /api/v1/debug/pprof/{profile}.
func registerPprof(r chi.Router) {
	r.Route("/api/v1/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/trace", pprof.Trace)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/{profile}", func(w http.ResponseWriter, req *http.Request) {
			pprof.Handler(chi.URLParam(req, "profile")).ServeHTTP(w, req)
		})
	})
}

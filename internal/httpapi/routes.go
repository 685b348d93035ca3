package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/library-dashboard/internal/live"
	"github.com/DoyleJ11/library-dashboard/internal/refresh"
	"github.com/DoyleJ11/library-dashboard/internal/view"
	"github.com/DoyleJ11/library-dashboard/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func SetupRoutes(m *live.Model, r *view.Renderer, st *refresh.Status, log *zap.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD")
			next.ServeHTTP(w, req)
		})
	})

	router.Get("/", Index(m, r, log))
	router.Get("/fragment", Fragment(m, r, log))
	router.Get("/library", Library(m))
	router.Get("/status", Status(m, st))
	router.Get("/healthz", Healthz)
	router.Get("/_ping", Ping)
	router.Head("/_ping", Ping)
	router.Get("/ws", ws.Handler(m, r, log))
	return router
}

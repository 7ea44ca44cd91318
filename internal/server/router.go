package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BuzzLyutic/todo-api/internal/handler"
	"github.com/BuzzLyutic/todo-api/internal/ratelimit"
	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

type Deps struct {
	Todos          *handler.TodoHandler
	External       *handler.ExternalHandler
	RateLimit      ratelimit.Options
	RequestTimeout time.Duration
	Gatherer       prometheus.Gatherer
	// CORSOrigins пустой - разрешен любой origin
	CORSOrigins []string
	// AccessLog включает middleware.Logger, в тестах обычно выключен
	AccessLog bool
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusNotFound, map[string]any{"message": "Not Found", "ok": false})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/todos", func(r chi.Router) {
		// CORS раньше лимитера: preflight не расходует квоту
		r.Use(cors.Handler(corsOptions(d.CORSOrigins)))
		r.Use(secureHeaders()...)
		if d.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.RequestTimeout))
		}
		r.Use(ratelimit.Middleware(d.RateLimit))

		r.Get("/", d.Todos.List)
		r.Post("/", d.Todos.Create)
		r.Get("/stats/aggregate", d.Todos.Stats)
		r.Get("/external/user-data/{userId}", d.External.UserData)
		r.Get("/external/batch/{count}", d.External.Batch)
		r.Get("/{id}", d.Todos.Get)
		r.Put("/{id}", d.Todos.Replace)
		r.Patch("/{id}", d.Todos.Patch)
	})

	return r
}

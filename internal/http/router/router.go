// Package router wires the HTTP surface: middleware, health check and
// the person routes.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/aanand-mishra/people-api/internal/http/handlers/person"
	"github.com/aanand-mishra/people-api/internal/storage"
)

// Options configures New. Storage is required; a nil Logger means
// slog.Default().
type Options struct {
	Storage        storage.Storage
	Logger         *slog.Logger
	AllowedOrigins []string
}

// New builds the router. Route table:
//
//	GET    /health
//	POST   /api/people        create, or edit when the body carries an id
//	GET    /api/people        list
//	GET    /api/people/{id}   get one
//	PUT    /api/people/{id}   update
//	DELETE /api/people/{id}   delete
func New(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", chimw.RequestIDHeader},
			ExposedHeaders: []string{chimw.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/people", func(r chi.Router) {
		r.Post("/", person.New(opts.Storage))
		r.Get("/", person.GetList(opts.Storage))
		r.Get("/{id}", person.GetByID(opts.Storage))
		r.Put("/{id}", person.Update(opts.Storage))
		r.Delete("/{id}", person.Delete(opts.Storage))
	})

	return r
}

// requestLogger assigns the request id, echoes it back to the client and
// logs one line per request. An incoming X-Request-Id is kept; otherwise
// the id is a fresh uuid. The id is stored under chimw.RequestIDKey so
// chimw.GetReqID finds it downstream.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(chimw.RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(chimw.RequestIDHeader, reqID)
			ctx := context.WithValue(r.Context(), chimw.RequestIDKey, reqID)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Info("request",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

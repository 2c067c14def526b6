// Package server wires the route groups, middleware and fallbacks into one
// HTTP handler.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/ayush/gestion-taches/internal/auth"
	"github.com/ayush/gestion-taches/internal/categories"
	"github.com/ayush/gestion-taches/internal/config"
	"github.com/ayush/gestion-taches/internal/middleware"
	"github.com/ayush/gestion-taches/internal/respond"
	"github.com/ayush/gestion-taches/internal/tasks"
	"github.com/ayush/gestion-taches/internal/users"
	"github.com/ayush/gestion-taches/internal/validation"
)

// UserStore is what both the CRUD and the login handlers need.
type UserStore interface {
	users.Store
	auth.UserStore
}

// TaskStore is what the task handlers and the category task listing need.
type TaskStore interface {
	tasks.Store
	categories.TaskLister
}

// Deps are the collaborators created once at startup. Sessions and Icons are
// optional; their routes are only mounted when set.
type Deps struct {
	Config     *config.Config
	Log        *logrus.Logger
	Metrics    *middleware.Metrics
	Validator  *validation.Validator
	Users      UserStore
	Tasks      TaskStore
	Categories categories.Store
	Passwords  auth.PasswordMatcher
	Sessions   auth.Sessions
	Icons      categories.IconStore
}

func NewRouter(d Deps) http.Handler {
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics(prometheus.NewRegistry())
	}
	rp := respond.New(d.Log, !d.Config.IsProduction())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(d.Log))
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.Recoverer(rp))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("API is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", d.Metrics.Handler())

	userHandler := users.NewHandler(d.Users, d.Validator, rp)
	taskHandler := tasks.NewHandler(d.Tasks, d.Validator, rp)
	categoryHandler := categories.NewHandler(d.Categories, d.Tasks, d.Icons, d.Validator, rp)

	r.Route("/api/utilisateurs", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		if d.Sessions != nil {
			authHandler := auth.NewHandler(d.Users, d.Sessions, d.Passwords, d.Validator, rp, d.Config.IsProduction())
			r.Post("/connexion", authHandler.Login)
			r.Post("/deconnexion", authHandler.Logout)
			r.With(middleware.RequireSession(d.Sessions)).Get("/moi", authHandler.Me)
		}
		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.ObjectID("id"))
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})
	})

	r.Route("/api/taches", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.With(middleware.ObjectID("id")).Get("/utilisateur/{id}", taskHandler.ListByUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.ObjectID("id"))
			r.Get("/", taskHandler.Get)
			r.Put("/", taskHandler.Update)
			r.Delete("/", taskHandler.Delete)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", categoryHandler.Create)
		r.Get("/", categoryHandler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.ObjectID("id"))
			r.Get("/", categoryHandler.Get)
			r.Put("/", categoryHandler.Update)
			r.Delete("/", categoryHandler.Delete)
			r.Get("/taches", categoryHandler.Tasks)
			if categoryHandler.HasIcons() {
				r.Put("/icone", categoryHandler.UploadIcon)
				r.Get("/icone", categoryHandler.Icon)
			}
		})
	})

	return r
}

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appactivity "github.com/bryanwahyu/estatehub/internal/application/activity"
	appauth "github.com/bryanwahyu/estatehub/internal/application/auth"
	appenquiries "github.com/bryanwahyu/estatehub/internal/application/enquiries"
	appinvest "github.com/bryanwahyu/estatehub/internal/application/investment"
	appprops "github.com/bryanwahyu/estatehub/internal/application/properties"
	appusers "github.com/bryanwahyu/estatehub/internal/application/users"
	"github.com/bryanwahyu/estatehub/internal/domain/ai"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
	"github.com/bryanwahyu/estatehub/internal/middleware"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Auth        *appauth.Service
	Users       *appusers.Service
	Properties  *appprops.Service
	Enquiries   *appenquiries.Service
	Investments *appinvest.Service
	Activity    *appactivity.Service

	Tokens      middleware.TokenParser
	Metrics     *middleware.Metrics
	Health      *middleware.Health
	CORSOrigins []string
	Log         *zap.Logger
}

type Router struct {
	Deps
}

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}
	r := &Router{Deps: d}

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(d.Log))
	mux.Use(chimw.Recoverer)
	mux.Use(d.Metrics.Track)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	health := d.Health
	if health == nil {
		health = middleware.NewHealth()
	}
	mux.Get("/health", health.Handler)
	mux.Get("/ready", health.Ready)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", d.Metrics.Handler)

	authed := middleware.RequireAuth(d.Tokens, writeError)
	admin := middleware.RequireRole(writeError, users.RoleAdmin)
	optional := middleware.OptionalAuth(d.Tokens)

	mux.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(rt chi.Router) {
			rt.With(middleware.Count(&d.Metrics.Registrations)).Post("/register", r.wrap(r.handleRegister))
			rt.With(middleware.Count(&d.Metrics.Logins)).Post("/login", r.wrap(r.handleLogin))
			rt.With(authed).Get("/me", r.wrap(r.handleMe))
		})

		api.Route("/users", func(rt chi.Router) {
			rt.Use(authed)
			rt.Get("/profile", r.wrap(r.handleProfile))
			rt.Put("/profile", r.wrap(r.handleUpdateProfile))
			rt.Get("/saved-properties", r.wrap(r.handleListSaved))
			rt.Get("/properties", r.wrap(r.handleListMine))

			rt.Route("/admin", func(ad chi.Router) {
				ad.Use(admin)
				ad.Get("/all", r.wrap(r.handleAdminUsers))
				ad.Get("/activity-logs", r.wrap(r.handleActivityLogs))
				ad.Post("/create", r.wrap(r.handleAdminCreateUser))
				ad.Put("/{id}", r.wrap(r.handleAdminUpdateUser))
				ad.Delete("/{id}", r.wrap(r.handleAdminDeleteUser))
			})
		})

		api.Route("/properties", func(rt chi.Router) {
			rt.Get("/", r.wrap(r.handleBrowse))
			rt.Post("/search", r.wrap(r.handleSearch))

			rt.Group(func(in chi.Router) {
				in.Use(authed)
				in.Get("/saved", r.wrap(r.handleListSaved))
				in.With(middleware.Count(&d.Metrics.ListingsCreated)).Post("/", r.wrap(r.handleCreateProperty))
				in.Post("/describe", r.wrap(r.handleDescribe))
				in.Put("/{id}", r.wrap(r.handleUpdateProperty))
				in.Delete("/{id}", r.wrap(r.handleDeleteProperty))
				in.Post("/{id}/save", r.wrap(r.handleSaveProperty))
				in.Delete("/{id}/save", r.wrap(r.handleUnsaveProperty))
				in.With(middleware.Count(&d.Metrics.ImagesUploaded)).Post("/{id}/images", r.wrap(r.handleUploadImage))

				in.Route("/admin", func(ad chi.Router) {
					ad.Use(admin)
					ad.Get("/all", r.wrap(r.handleAdminProperties))
					ad.Get("/stats", r.wrap(r.handleStats))
					ad.Put("/{id}", r.wrap(r.handleAdminUpdateProperty))
					ad.Put("/{id}/status", r.wrap(r.handleModerate))
					ad.Delete("/{id}", r.wrap(r.handleAdminDeleteProperty))
				})
			})

			rt.Get("/{id}", r.wrap(r.handleGetProperty))
		})

		api.Route("/enquiries", func(rt chi.Router) {
			rt.With(optional, middleware.Count(&d.Metrics.EnquiriesCreated)).Post("/", r.wrap(r.handleCreateEnquiry))
			rt.With(authed).Get("/", r.wrap(r.handleListEnquiries))
			rt.With(authed).Put("/{id}", r.wrap(r.handleUpdateEnquiry))
		})

		api.Route("/investment-analyses", func(rt chi.Router) {
			rt.Post("/calculate", r.wrap(r.handleCalculate))
			rt.Group(func(in chi.Router) {
				in.Use(authed)
				in.Get("/", r.wrap(r.handleListAnalyses))
				in.With(middleware.Count(&d.Metrics.AnalysesSaved)).Post("/", r.wrap(r.handleCreateAnalysis))
				in.Get("/{id}", r.wrap(r.handleGetAnalysis))
				in.Delete("/{id}", r.wrap(r.handleDeleteAnalysis))
			})
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			r.Log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		}
		msg := err.Error()
		switch status {
		case http.StatusInternalServerError:
			msg = "internal server error"
		case http.StatusNotFound:
			msg = "not found"
		}
		writeError(w, status, msg)
	}
}

func statusOf(err error) int {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. Malformed JSON is a validation error.
func decode(req *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(req.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Invalid("", "request body is empty")
		}
		return errs.Invalid("", fmt.Sprintf("malformed JSON: %v", err))
	}
	return nil
}

// principal is set by RequireAuth; handlers behind it can rely on it.
func principal(req *http.Request) (users.Principal, error) {
	p, ok := middleware.PrincipalFrom(req.Context())
	if !ok {
		return users.Principal{}, errs.ErrUnauthorized
	}
	return p, nil
}

func idParam(req *http.Request) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID("id", id); err != nil {
		return "", err
	}
	return id, nil
}

func writeMessage(w http.ResponseWriter, msg string) error {
	return writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

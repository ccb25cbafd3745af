package httpserver

import (
	"net/http"
	"strconv"

	appusers "github.com/bryanwahyu/estatehub/internal/application/users"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
	"github.com/bryanwahyu/estatehub/internal/middleware"
)

// GET /api/users/profile
func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	u, err := r.Users.Profile(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

// PUT /api/users/profile
func (r *Router) handleUpdateProfile(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	var patch users.Patch
	if err := decode(req, &patch); err != nil {
		return err
	}
	u, err := r.Users.UpdateProfile(req.Context(), p, patch)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

// GET /api/users/admin/all
func (r *Router) handleAdminUsers(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	list, err := r.Users.ListAll(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// GET /api/users/admin/activity-logs?limit=100
func (r *Router) handleActivityLogs(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.Activity.Latest(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// POST /api/users/admin/create
func (r *Router) handleAdminCreateUser(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	var cmd appusers.CreateCommand
	if err := decode(req, &cmd); err != nil {
		return err
	}
	u, err := r.Users.Create(req.Context(), p, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, u)
}

// PUT /api/users/admin/{id}
func (r *Router) handleAdminUpdateUser(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	var patch users.Patch
	if err := decode(req, &patch); err != nil {
		return err
	}
	u, err := r.Users.Update(req.Context(), p, users.ID(id), patch)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

// DELETE /api/users/admin/{id}
func (r *Router) handleAdminDeleteUser(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if err := r.Users.Delete(req.Context(), p, users.ID(id)); err != nil {
		return err
	}
	return writeMessage(w, "user deleted")
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

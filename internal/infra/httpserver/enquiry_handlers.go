package httpserver

import (
	"net/http"

	appenquiries "github.com/bryanwahyu/estatehub/internal/application/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
	"github.com/bryanwahyu/estatehub/internal/middleware"
)

// POST /api/enquiries (token optional)
func (r *Router) handleCreateEnquiry(w http.ResponseWriter, req *http.Request) error {
	var cmd appenquiries.CreateCommand
	if err := decode(req, &cmd); err != nil {
		return err
	}
	cmd.Message = middleware.SanitizeString(cmd.Message)
	var caller *users.Principal
	if p, ok := middleware.PrincipalFrom(req.Context()); ok {
		caller = &p
	}
	e, err := r.Enquiries.Create(req.Context(), caller, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, e)
}

// GET /api/enquiries
func (r *Router) handleListEnquiries(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	list, err := r.Enquiries.List(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// PUT /api/enquiries/{id}
// Body: {"status": "new|contacted|closed"}
func (r *Router) handleUpdateEnquiry(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	var body struct {
		Status enquiries.Status `json:"status"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	e, err := r.Enquiries.UpdateStatus(req.Context(), p, enquiries.ID(id), body.Status)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, e)
}

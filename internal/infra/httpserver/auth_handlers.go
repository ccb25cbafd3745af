package httpserver

import (
	"net/http"

	appauth "github.com/bryanwahyu/estatehub/internal/application/auth"
)

// POST /api/auth/register
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var cmd appauth.RegisterCommand
	if err := decode(req, &cmd); err != nil {
		return err
	}
	sess, err := r.Auth.Register(req.Context(), cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, sess)
}

// POST /api/auth/login
// Body: {"email": "...", "password": "..."}
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	sess, err := r.Auth.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess)
}

// GET /api/auth/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	u, err := r.Auth.Me(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/investment"
)

// scenarioFields keeps numbers as json.Number so numeric strings and
// numbers are parsed by the same rules.
func scenarioFields(req *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(io.LimitReader(req.Body, maxBody))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, errs.Invalid("", "malformed JSON body")
	}
	if fields == nil {
		return nil, errs.Invalid("", "request body must be an object")
	}
	return fields, nil
}

// POST /api/investment-analyses/calculate
func (r *Router) handleCalculate(w http.ResponseWriter, req *http.Request) error {
	fields, err := scenarioFields(req)
	if err != nil {
		return err
	}
	preview, err := r.Investments.Preview(fields)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, preview)
}

// POST /api/investment-analyses
func (r *Router) handleCreateAnalysis(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	fields, err := scenarioFields(req)
	if err != nil {
		return err
	}
	rec, err := r.Investments.Create(req.Context(), p, fields)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, rec)
}

// GET /api/investment-analyses
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	list, err := r.Investments.List(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// GET /api/investment-analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	rec, err := r.Investments.Get(req.Context(), p, investment.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/investment-analyses/{id}
func (r *Router) handleDeleteAnalysis(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if err := r.Investments.Delete(req.Context(), p, investment.RecordID(id)); err != nil {
		return err
	}
	return writeMessage(w, "analysis deleted")
}

package httpserver

import (
	"io"
	"net/http"

	appprops "github.com/bryanwahyu/estatehub/internal/application/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/ai"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/middleware"
)

// GET /api/properties?city=&state=&minPrice=&maxPrice=&beds=&baths=&type=&status=
func (r *Router) handleBrowse(w http.ResponseWriter, req *http.Request) error {
	list, err := r.Properties.Browse(req.Context(), properties.ParseCriteria(req.URL.Query()))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// POST /api/properties/search
// Body: a criteria object; numbers may be sent as numbers or numeric strings.
func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) error {
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxBody))
	if err != nil {
		return err
	}
	c, err := properties.DecodeCriteria(raw)
	if err != nil {
		return err
	}
	list, err := r.Properties.Search(req.Context(), c)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// GET /api/properties/{id}
func (r *Router) handleGetProperty(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req)
	if err != nil {
		return err
	}
	p, err := r.Properties.Get(req.Context(), properties.ID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// POST /api/properties
func (r *Router) handleCreateProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	var cmd appprops.CreateCommand
	if err := decode(req, &cmd); err != nil {
		return err
	}
	prop, err := r.Properties.Create(req.Context(), p, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, prop)
}

type updatePropertyBody struct {
	properties.Patch
	ImageURLs []string `json:"image_urls"`
}

// PUT /api/properties/{id}
// image_urls, when present, replaces the listing's images.
func (r *Router) handleUpdateProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	var body updatePropertyBody
	if err := decode(req, &body); err != nil {
		return err
	}
	prop, err := r.Properties.Update(req.Context(), p, properties.ID(id), body.Patch, body.ImageURLs)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, prop)
}

// DELETE /api/properties/{id}
func (r *Router) handleDeleteProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if err := r.Properties.Delete(req.Context(), p, properties.ID(id)); err != nil {
		return err
	}
	return writeMessage(w, "property deleted")
}

// POST /api/properties/{id}/save
func (r *Router) handleSaveProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if err := r.Properties.SaveFavourite(req.Context(), p, properties.ID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]string{"message": "property saved"})
}

// DELETE /api/properties/{id}/save
func (r *Router) handleUnsaveProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if err := r.Properties.RemoveFavourite(req.Context(), p, properties.ID(id)); err != nil {
		return err
	}
	return writeMessage(w, "property removed from saved")
}

// GET /api/properties/saved and /api/users/saved-properties
func (r *Router) handleListSaved(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	list, err := r.Properties.ListSaved(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// GET /api/users/properties
func (r *Router) handleListMine(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	list, err := r.Properties.ListMine(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// POST /api/properties/{id}/images (multipart, field "image")
func (r *Router) handleUploadImage(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	req.Body = http.MaxBytesReader(w, req.Body, middleware.MaxImageBytes+1<<20)
	file, hdr, err := req.FormFile("image")
	if err != nil {
		return errs.Invalid("image", "multipart field \"image\" is required")
	}
	defer file.Close()

	contentType := hdr.Header.Get("Content-Type")
	if err := middleware.ValidateImageUpload(contentType, hdr.Size); err != nil {
		return err
	}
	img, err := r.Properties.UploadImage(req.Context(), p, properties.ID(id), hdr.Filename, contentType, hdr.Size, file)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, img)
}

// POST /api/properties/describe
func (r *Router) handleDescribe(w http.ResponseWriter, req *http.Request) error {
	var draft ai.ListingDraft
	if err := decode(req, &draft); err != nil {
		return err
	}
	text, err := r.Properties.Describe(req.Context(), draft)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"description": text})
}

// GET /api/properties/admin/all
func (r *Router) handleAdminProperties(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	list, err := r.Properties.AdminList(req.Context(), p, properties.ParseCriteria(req.URL.Query()))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, nonNil(list))
}

// GET /api/properties/admin/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	st, err := r.Properties.Stats(req.Context(), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, st)
}

// PUT /api/properties/admin/{id}
func (r *Router) handleAdminUpdateProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	var patch properties.Patch
	if err := decode(req, &patch); err != nil {
		return err
	}
	prop, err := r.Properties.AdminUpdate(req.Context(), p, properties.ID(id), patch)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, prop)
}

// PUT /api/properties/admin/{id}/status
func (r *Router) handleModerate(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	var m properties.ModerationPatch
	if err := decode(req, &m); err != nil {
		return err
	}
	prop, err := r.Properties.Moderate(req.Context(), p, properties.ID(id), m)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, prop)
}

// DELETE /api/properties/admin/{id}
func (r *Router) handleAdminDeleteProperty(w http.ResponseWriter, req *http.Request) error {
	p, err := principal(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if err := r.Properties.AdminDelete(req.Context(), p, properties.ID(id)); err != nil {
		return err
	}
	return writeMessage(w, "property deleted")
}

package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chrissnell/astrocalc/internal/almanac"
	"github.com/chrissnell/astrocalc/internal/geocode"
	"github.com/chrissnell/astrocalc/pkg/responseformat"
)

// RootMessage is returned by the health endpoint.
const RootMessage = "AstroCalc API is running."

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// Root is a health check.
func (h *Handlers) Root(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, MessageResponse{Message: RootMessage})
}

// GetAstroData answers /astro-data?lat=&lon=[&date=][&elevation=][&pressure=].
// Malformed or missing parameters are a 400; any failure computing the
// report is a 500.
func (h *Handlers) GetAstroData(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	lat, err := requiredFloat(q, "lat")
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}
	lon, err := requiredFloat(q, "lon")
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	obs := h.controller.defaultObserver(lat, lon)
	if err := optionalFloat(q, "elevation", &obs.Elevation); err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}
	if err := optionalFloat(q, "pressure", &obs.Pressure); err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.controller.almanac.ParseTarget(q.Get("date"))
	if err != nil {
		h.serverError(w, req, err)
		return
	}

	report, err := h.controller.almanac.Compute(obs, target)
	if err != nil {
		h.serverError(w, req, err)
		return
	}

	h.write(w, req, http.StatusOK, transformReport(lat, lon, report))
}

// SearchLocation answers /search-location?q= with matching places.
func (h *Handlers) SearchLocation(w http.ResponseWriter, req *http.Request) {
	query := strings.TrimSpace(req.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, req, http.StatusBadRequest, "missing required query parameter: q")
		return
	}

	locs, err := h.controller.geocoder.Search(req.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrEmptyQuery) {
			h.writeError(w, req, http.StatusBadRequest, err.Error())
			return
		}
		h.controller.logger.Warnw("geocoding failed", "query", query, "error", err)
		h.writeError(w, req, http.StatusInternalServerError, fmt.Sprintf("Geocoding error: %v", err))
		return
	}

	h.write(w, req, http.StatusOK, transformLocations(locs))
}

// NotFound answers unrouted paths.
func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.writeError(w, req, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed answers routed paths requested with the wrong method.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	h.writeError(w, req, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func (h *Handlers) serverError(w http.ResponseWriter, req *http.Request, err error) {
	if almanac.IsInputError(err) {
		h.controller.logger.Infow("rejected astro-data request", "query", req.URL.RawQuery, "error", err)
	} else {
		h.controller.logger.Errorw("astro-data failed", "query", req.URL.RawQuery, "error", err)
	}
	h.writeError(w, req, http.StatusInternalServerError, err.Error())
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error writing response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, detail string) {
	if err := h.formatter.WriteError(w, req, status, detail); err != nil {
		h.controller.logger.Errorf("error writing error response: %v", err)
	}
}

func requiredFloat(q url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, fmt.Errorf("missing required query parameter: %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not a number", name, raw)
	}
	return v, nil
}

func optionalFloat(q url.Values, name string, dst *float64) error {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: not a number", name, raw)
	}
	*dst = v
	return nil
}

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
)

const (
	serviceName    = "pricelens-backend"
	serviceVersion = "1.0.0"
)

// Searcher is the search use case as seen by the HTTP layer
type Searcher interface {
	Search(ctx context.Context, query, country string, opts domain.SearchOptions) (*domain.SearchResponse, error)
	SearchSource(ctx context.Context, sourceID, query, country string, opts domain.SearchOptions) (*domain.SearchResponse, error)
	Countries() []domain.Country
	Country(code string) (domain.Country, bool)
	Sources() []domain.SourceInfo
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   Searcher
	defaults domain.SearchOptions
}

// NewHandler creates a new HTTP handler. defaults fill the options a request leaves out.
func NewHandler(search Searcher, defaults domain.SearchOptions) *Handler {
	return &Handler{search: search, defaults: defaults}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Search handles POST /api/v1/search
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	h.runSearch(c, &req)
}

// SearchQuery handles GET /api/v1/search
func (h *Handler) SearchQuery(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	h.runSearch(c, &req)
}

func (h *Handler) runSearch(c *gin.Context, req *SearchRequest) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters", "details": validationDetails(err)})
		return
	}

	resp, err := h.search.Search(c.Request.Context(), req.Query, req.Country, req.Options(h.defaults))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchSource handles GET /api/v1/sources/:id/search
func (h *Handler) SearchSource(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters", "details": validationDetails(err)})
		return
	}

	resp, err := h.search.SearchSource(c.Request.Context(), c.Param("id"), req.Query, req.Country, req.Options(h.defaults))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListCountries handles GET /api/v1/countries
func (h *Handler) ListCountries(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}
	countries := h.search.Countries()
	c.JSON(http.StatusOK, gin.H{"countries": countries, "total": len(countries)})
}

// GetCountry handles GET /api/v1/countries/:code
func (h *Handler) GetCountry(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}
	country, ok := h.search.Country(strings.ToUpper(c.Param("code")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("country %s not supported", c.Param("code"))})
		return
	}
	c.JSON(http.StatusOK, country)
}

// ListSources handles GET /api/v1/sources
func (h *Handler) ListSources(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}
	sources := h.search.Sources()
	c.JSON(http.StatusOK, gin.H{"sources": sources, "total": len(sources)})
}

// writeError maps domain errors to status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupportedCountry):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		logger.Log.Errorf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// validationDetails flattens validator errors into field messages
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			details = append(details, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return details
}

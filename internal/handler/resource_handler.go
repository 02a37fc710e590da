package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/openlearn-hub-api/internal/middleware"
	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/internal/service"
	appErrors "github.com/noah-isme/openlearn-hub-api/pkg/errors"
	"github.com/noah-isme/openlearn-hub-api/pkg/response"
)

type resourceService interface {
	List(ctx context.Context, criteria models.FilterCriteria) ([]models.Resource, bool, error)
	Get(ctx context.Context, id string) (*models.Resource, error)
	Featured(ctx context.Context) ([]models.Resource, error)
	Related(ctx context.Context, id string, limit int) ([]models.Resource, error)
	Taxonomy(ctx context.Context) (models.Taxonomy, error)
	Report(ctx context.Context, id, reason string) (*models.ResourceReport, error)
	Export(ctx context.Context, criteria models.FilterCriteria, format string) (*service.ExportResult, error)
}

// ReportRequest is the optional body of a resource report.
type ReportRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ResourceHandler exposes catalog browsing endpoints.
type ResourceHandler struct {
	service   resourceService
	validator *validator.Validate
}

// NewResourceHandler builds a new handler.
func NewResourceHandler(service resourceService, validate *validator.Validate) *ResourceHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ResourceHandler{service: service, validator: validate}
}

// List godoc
// @Summary List resources
// @Description Filters the catalog by category, level and type, then by a case-insensitive search over title, description and tags.
// @Tags Resources
// @Produce json
// @Param category query string false "Category or all"
// @Param level query string false "Level or all"
// @Param type query string false "Resource type or all"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}
	items, cacheHit, err := h.service.List(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "count", len(items))
	middleware.SetMeta(c, "summary", service.SummarizeCount(len(items)))
	middleware.SetMeta(c, "has_active_filters", criteria.HasActiveFilters())
	middleware.SetMeta(c, "criteria", criteria.Normalize())
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// Featured godoc
// @Summary Featured resources
// @Tags Resources
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /resources/featured [get]
func (h *ResourceHandler) Featured(c *gin.Context) {
	items, err := h.service.Featured(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(items))
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a resource
// @Tags Resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /resources/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Related godoc
// @Summary Resources in the same category
// @Tags Resources
// @Produce json
// @Param id path string true "Resource ID"
// @Param limit query int false "Maximum number of results (default 3)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /resources/{id}/related [get]
func (h *ResourceHandler) Related(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 50"))
			return
		}
		limit = parsed
	}
	items, err := h.service.Related(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Report godoc
// @Summary Report a broken or inappropriate resource
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param payload body ReportRequest false "Report details"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /resources/{id}/reports [post]
func (h *ResourceHandler) Report(c *gin.Context) {
	var req ReportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
			return
		}
		if err := h.validator.Struct(req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "reason must be at most 500 characters"))
			return
		}
	}
	report, err := h.service.Report(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, report)
}

// Export godoc
// @Summary Export a filtered resource list
// @Tags Resources
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param category query string false "Category or all"
// @Param level query string false "Level or all"
// @Param type query string false "Resource type or all"
// @Param search query string false "Search term"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /resources/export [get]
func (h *ResourceHandler) Export(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}
	result, err := h.service.Export(c.Request.Context(), criteria, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Result-Count", strconv.Itoa(result.Count))
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

// Taxonomy godoc
// @Summary Category, level and type lookup tables
// @Tags Resources
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /taxonomy [get]
func (h *ResourceHandler) Taxonomy(c *gin.Context) {
	tax, err := h.service.Taxonomy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tax, nil)
}

func (h *ResourceHandler) bindCriteria(c *gin.Context) (models.FilterCriteria, bool) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter parameters"))
		return criteria, false
	}
	if err := h.validator.Struct(criteria); err != nil {
		response.Error(c, appErrors.WithFields(appErrors.ErrValidation, criteriaFieldErrors(err)))
		return criteria, false
	}
	return criteria, true
}

func criteriaFieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	fields := map[string]string{}
	if !errors.As(err, &verrs) {
		fields["criteria"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			fields[jsonName(fe.Field())] = "must be all or one of: " + fe.Param()
		case "max":
			fields[jsonName(fe.Field())] = "must be at most " + fe.Param() + " characters"
		default:
			fields[jsonName(fe.Field())] = "is invalid"
		}
	}
	return fields
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/internal/service"
	appErrors "github.com/noah-isme/openlearn-hub-api/pkg/errors"
	"github.com/noah-isme/openlearn-hub-api/pkg/response"
)

const (
	fileField = "file"
	// Multipart bodies above twice the ceiling are cut off before parsing.
	multipartSlack = 1 << 20
)

type submissionService interface {
	Policy() models.AttachmentPolicy
	CheckAttachment(file models.AttachedFile) models.AttachmentCheck
	Submit(ctx context.Context, draft models.SubmissionDraft) (*models.SubmissionReceipt, error)
}

// SubmissionHandler exposes the contribution endpoints.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler builds a new handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Policy godoc
// @Summary Attachment limits
// @Description Maximum file size and the advisory list of accepted extensions.
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /submissions/attachment-policy [get]
func (h *SubmissionHandler) Policy(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Policy(), nil)
}

// CheckAttachment godoc
// @Summary Check a file before submitting
// @Description Runs the size check eagerly. The response reports valid=false with the issue instead of failing.
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Attachment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /submissions/attachments/check [post]
func (h *SubmissionHandler) CheckAttachment(c *gin.Context) {
	h.limitBody(c)
	fh, err := c.FormFile(fileField)
	if err != nil {
		response.Error(c, h.multipartError(err, "a file is required"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.CheckAttachment(*attachedFileFromHeader(fh)), nil)
}

// Submit godoc
// @Summary Submit a resource for review
// @Description Accepts JSON or multipart/form-data with an optional "file" part. Either a URL or a file is required.
// @Tags Submissions
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param payload body models.SubmissionDraft true "Submission"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var draft models.SubmissionDraft
	if isMultipart(c) {
		h.limitBody(c)
		if err := c.ShouldBind(&draft); err != nil {
			response.Error(c, h.multipartError(err, "invalid submission form"))
			return
		}
		fh, err := c.FormFile(fileField)
		switch {
		case err == nil:
			draft.AttachedFile = attachedFileFromHeader(fh)
		case !errors.Is(err, http.ErrMissingFile):
			response.Error(c, h.multipartError(err, "invalid attachment"))
			return
		}
	} else if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	receipt, err := h.service.Submit(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, receipt)
}

func (h *SubmissionHandler) limitBody(c *gin.Context) {
	limit := 2*h.service.Policy().MaxSizeBytes + multipartSlack
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

func (h *SubmissionHandler) multipartError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		issue := service.ValidateAttachment(models.AttachedFile{Size: tooLarge.Limit + 1}, h.service.Policy().MaxSizeMB)
		return appErrors.WithFields(appErrors.ErrFileTooLarge, map[string]string{fileField: issue.Message})
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	appErrors "github.com/noah-isme/openlearn-hub-api/pkg/errors"
	"github.com/noah-isme/openlearn-hub-api/pkg/jobs"
)

const (
	submissionThanks = "Thank you for your contribution!"
	submissionDetail = "Your resource has been submitted for review."
)

// Intake accepts validated submissions for asynchronous review.
type Intake interface {
	Enqueue(job jobs.Job[models.SubmissionReceipt]) error
	Stats() jobs.Stats
}

// SubmissionServiceConfig carries upload limits.
type SubmissionServiceConfig struct {
	MaxSizeMB          float64
	AcceptedExtensions []string
}

// SubmissionService validates contributions and hands accepted ones to the intake queue.
type SubmissionService struct {
	intake  Intake
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SubmissionServiceConfig
	policy  *bluemonday.Policy
	now     func() time.Time
	newID   func() string
}

// NewSubmissionService constructs a submission service. intake may be nil, in which case
// accepted submissions are only logged.
func NewSubmissionService(intake Intake, metrics *MetricsService, cfg SubmissionServiceConfig, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = DefaultMaxFileSizeMB
	}
	if len(cfg.AcceptedExtensions) == 0 {
		cfg.AcceptedExtensions = append([]string(nil), DefaultAcceptedExtensions...)
	}
	return &SubmissionService{
		intake:  intake,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		policy:  bluemonday.StrictPolicy(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Policy describes the attachment limits advertised to clients.
func (s *SubmissionService) Policy() models.AttachmentPolicy {
	return models.AttachmentPolicy{
		MaxSizeMB:          s.cfg.MaxSizeMB,
		MaxSizeBytes:       MaxSizeBytes(s.cfg.MaxSizeMB),
		AcceptedExtensions: append([]string(nil), s.cfg.AcceptedExtensions...),
	}
}

// CheckAttachment runs the eager size check performed when a file is picked.
// Extensions outside the accept list only produce an advisory.
func (s *SubmissionService) CheckAttachment(file models.AttachedFile) models.AttachmentCheck {
	check := models.AttachmentCheck{
		File:     file,
		FileSize: FormatFileSize(file.Size),
		Valid:    true,
	}
	if issue := ValidateAttachment(file, s.cfg.MaxSizeMB); issue != nil {
		check.Valid = false
		check.Issue = issue
	}
	if !s.acceptedExtension(file.Name) {
		check.Advisory = fmt.Sprintf("Accepted formats: %s", strings.Join(s.cfg.AcceptedExtensions, ", "))
	}
	return check
}

func (s *SubmissionService) acceptedExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.cfg.AcceptedExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Submit validates a draft and, when it passes, queues it for review.
// Validation failures return ErrMissingSource or ErrValidation carrying the field messages.
func (s *SubmissionService) Submit(ctx context.Context, draft models.SubmissionDraft) (*models.SubmissionReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	validated, fieldErrs := ValidateSubmission(s.stripMarkup(draft), s.cfg.MaxSizeMB)
	if fieldErrs != nil {
		s.metrics.RecordSubmissionRejected(fieldErrs)
		s.logger.Debug("submission rejected", zap.Any("fields", fieldErrs.Messages()))
		template := appErrors.ErrValidation
		if fieldErrs.Has(FieldURL, models.IssueMissingSource) {
			template = appErrors.ErrMissingSource
		}
		return nil, appErrors.WithFields(template, fieldErrs.Messages())
	}

	receipt := &models.SubmissionReceipt{
		ID:          s.newID(),
		Status:      models.SubmissionPendingReview,
		Message:     submissionThanks,
		Detail:      submissionDetail,
		SubmittedAt: s.now().UTC(),
		Submission:  *validated,
	}
	if validated.AttachedFile != nil {
		receipt.FileSize = FormatFileSize(validated.AttachedFile.Size)
	}

	if s.intake != nil {
		job := jobs.Job[models.SubmissionReceipt]{ID: receipt.ID, Payload: *receipt}
		if err := s.intake.Enqueue(job); err != nil {
			s.logger.Error("enqueue submission", zap.String("submission_id", receipt.ID), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "submission intake is busy, please retry")
		}
		s.metrics.SetIntakeQueued(s.intake.Stats().Pending)
	}

	s.metrics.RecordSubmissionAccepted()
	s.logger.Info("submission accepted",
		zap.String("submission_id", receipt.ID),
		zap.String("category", string(validated.Category)),
		zap.Bool("has_file", validated.AttachedFile != nil),
	)
	return receipt, nil
}

// stripMarkup removes tags from free text before the length rules see it.
// Entities produced by the policy are decoded so plain text passes through unchanged.
func (s *SubmissionService) stripMarkup(draft models.SubmissionDraft) models.SubmissionDraft {
	draft.Title = s.plainText(draft.Title)
	draft.Description = s.plainText(draft.Description)
	draft.Contributor = s.plainText(draft.Contributor)
	if draft.AttachedFile != nil {
		file := *draft.AttachedFile
		file.Name = s.plainText(file.Name)
		draft.AttachedFile = &file
	}
	return draft
}

func (s *SubmissionService) plainText(text string) string {
	return html.UnescapeString(s.policy.Sanitize(text))
}

// NewReviewHandler builds the intake worker. It simulates the review hand-off latency,
// logs the accepted submission and refreshes the backlog gauge.
func NewReviewHandler(delay time.Duration, queue func() jobs.Stats, metrics *MetricsService, logger *zap.Logger) jobs.Handler[models.SubmissionReceipt] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job[models.SubmissionReceipt]) error {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		receipt := job.Payload
		logger.Info("submission handed to review",
			zap.String("submission_id", receipt.ID),
			zap.String("title", receipt.Submission.Title),
			zap.String("status", string(receipt.Status)),
			zap.Int("attempt", job.Attempt),
			zap.Duration("waited", time.Since(job.Enqueued)),
		)
		if queue != nil {
			metrics.SetIntakeQueued(queue().Pending)
		}
		return nil
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	appErrors "github.com/noah-isme/openlearn-hub-api/pkg/errors"
	"github.com/noah-isme/openlearn-hub-api/pkg/jobs"
)

type mockIntake struct {
	jobs []jobs.Job[models.SubmissionReceipt]
	err  error
}

func (m *mockIntake) Enqueue(job jobs.Job[models.SubmissionReceipt]) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockIntake) Stats() jobs.Stats {
	return jobs.Stats{Enqueued: uint64(len(m.jobs)), Pending: len(m.jobs)}
}

func newSubmissionService(intake Intake, metrics *MetricsService) *SubmissionService {
	svc := NewSubmissionService(intake, metrics, SubmissionServiceConfig{MaxSizeMB: 10}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "sub-1" }
	return svc
}

func TestSubmissionServiceSubmitAccepted(t *testing.T) {
	intake := &mockIntake{}
	metrics := NewMetricsService()
	svc := newSubmissionService(intake, metrics)

	receipt, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, "sub-1", receipt.ID)
	assert.Equal(t, models.SubmissionPendingReview, receipt.Status)
	assert.Equal(t, "Thank you for your contribution!", receipt.Message)
	assert.Equal(t, "Your resource has been submitted for review.", receipt.Detail)
	assert.Equal(t, models.CategoryTechnology, receipt.Submission.Category)

	require.Len(t, intake.jobs, 1)
	assert.Equal(t, "sub-1", intake.jobs[0].ID)

	stats := metrics.Snapshot()
	assert.Equal(t, uint64(1), stats.SubmissionsAccepted)
	assert.Equal(t, 1, stats.SubmissionsQueued)
}

func TestSubmissionServiceSanitizesText(t *testing.T) {
	svc := newSubmissionService(nil, nil)
	draft := validDraft()
	draft.Title = "<b>Intro</b> to Go<script>alert(1)</script>"
	draft.Contributor = "<i>Ada</i>"

	receipt, err := svc.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", receipt.Submission.Title)
	require.NotNil(t, receipt.Submission.Contributor)
	assert.Equal(t, "Ada", *receipt.Submission.Contributor)
}

func TestSubmissionServiceChecksLengthAfterStrippingMarkup(t *testing.T) {
	svc := newSubmissionService(nil, nil)
	draft := validDraft()
	draft.Title = "<b>Go</b>"

	_, err := svc.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "Title must be at least 5 characters", appErrors.FromError(err).Fields[FieldTitle])

	validated, fieldErrs := ValidateSubmission(svc.stripMarkup(draft), DefaultMaxFileSizeMB)
	assert.Nil(t, validated)
	assert.True(t, fieldErrs.Has(FieldTitle, models.IssueFieldLengthViolation))
}

func TestSubmissionServiceKeepsPlainTextUnchanged(t *testing.T) {
	svc := newSubmissionService(nil, nil)
	for _, title := range []string{"Tom & Jerry's guide", "Tom & Jerry's <3 guide"} {
		t.Run(title, func(t *testing.T) {
			draft := validDraft()
			draft.Title = title
			draft.Contributor = "O'Brien & Co"

			receipt, err := svc.Submit(context.Background(), draft)
			require.NoError(t, err)
			assert.Equal(t, title, receipt.Submission.Title)
			require.NotNil(t, receipt.Submission.Contributor)
			assert.Equal(t, "O'Brien & Co", *receipt.Submission.Contributor)
		})
	}
}

func TestSubmissionServiceMissingSource(t *testing.T) {
	metrics := NewMetricsService()
	svc := newSubmissionService(&mockIntake{}, metrics)

	draft := validDraft()
	draft.URL = ""
	_, err := svc.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrMissingSource)
	appErr := appErrors.FromError(err)
	assert.Equal(t, map[string]string{"url": "Please provide either a URL or upload a file"}, appErr.Fields)
	assert.Equal(t, uint64(1), metrics.Snapshot().SubmissionsRejected)
}

func TestSubmissionServiceValidationFields(t *testing.T) {
	svc := newSubmissionService(&mockIntake{}, nil)
	draft := validDraft()
	draft.Title = "AI"
	draft.URL = "not-a-url"

	_, err := svc.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "Title must be at least 5 characters", fields["title"])
	assert.Equal(t, "Please enter a valid URL", fields["url"])
}

func TestSubmissionServiceIntakeFull(t *testing.T) {
	svc := newSubmissionService(&mockIntake{err: assert.AnError}, nil)
	_, err := svc.Submit(context.Background(), validDraft())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestSubmissionServiceReceiptFileSize(t *testing.T) {
	svc := newSubmissionService(nil, nil)
	draft := validDraft()
	draft.URL = ""
	draft.AttachedFile = &models.AttachedFile{Name: "notes.pdf", Size: 1536 * 1024, MimeType: "application/pdf"}

	receipt, err := svc.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "1.5 MB", receipt.FileSize)
}

func TestSubmissionServiceCheckAttachment(t *testing.T) {
	svc := newSubmissionService(nil, nil)

	ok := svc.CheckAttachment(models.AttachedFile{Name: "Slides.PDF", Size: 2048})
	assert.True(t, ok.Valid)
	assert.Nil(t, ok.Issue)
	assert.Empty(t, ok.Advisory)
	assert.Equal(t, "2.0 KB", ok.FileSize)

	big := svc.CheckAttachment(models.AttachedFile{Name: "video.mp4", Size: 11 * 1024 * 1024})
	assert.False(t, big.Valid)
	require.NotNil(t, big.Issue)
	assert.Equal(t, models.IssueFileTooLarge, big.Issue.Kind)
	assert.Contains(t, big.Advisory, ".pdf")
}

func TestSubmissionServicePolicy(t *testing.T) {
	policy := newSubmissionService(nil, nil).Policy()
	assert.Equal(t, 10.0, policy.MaxSizeMB)
	assert.Equal(t, int64(10*1024*1024), policy.MaxSizeBytes)
	assert.Equal(t, DefaultAcceptedExtensions, policy.AcceptedExtensions)
}

func TestReviewHandlerLogsSubmission(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewReviewHandler(time.Millisecond, nil, nil, zap.New(core))

	err := handler(context.Background(), jobs.Job[models.SubmissionReceipt]{
		ID:       "sub-9",
		Payload:  models.SubmissionReceipt{ID: "sub-9", Status: models.SubmissionPendingReview},
		Enqueued: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "submission handed to review", logs.All()[0].Message)
}

func TestReviewHandlerHonoursCancellation(t *testing.T) {
	handler := NewReviewHandler(time.Hour, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := handler(ctx, jobs.Job[models.SubmissionReceipt]{ID: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

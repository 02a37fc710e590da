package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

func validDraft() models.SubmissionDraft {
	return models.SubmissionDraft{
		Title:       "Complete Python Beginner Course",
		Description: "A free course covering Python fundamentals for new programmers.",
		URL:         "https://example.org/python",
		Category:    "technology",
		Level:       "beginner",
		Type:        "course",
	}
}

func TestValidateSubmissionAcceptsValidDraft(t *testing.T) {
	got, errs := ValidateSubmission(validDraft(), 10)
	require.Nil(t, errs)
	require.NotNil(t, got)
	assert.Equal(t, "Complete Python Beginner Course", got.Title)
	assert.Equal(t, models.CategoryTechnology, got.Category)
	assert.Equal(t, models.LevelBeginner, got.Level)
	assert.Equal(t, models.TypeCourse, got.Type)
	assert.Nil(t, got.Contributor)
	assert.Nil(t, got.AttachedFile)
}

func TestValidateSubmissionKeepsContributor(t *testing.T) {
	draft := validDraft()
	draft.Contributor = "Ada"
	got, errs := ValidateSubmission(draft, 10)
	require.Nil(t, errs)
	require.NotNil(t, got.Contributor)
	assert.Equal(t, "Ada", *got.Contributor)
}

func TestValidateSubmissionMissingSourceIsExclusive(t *testing.T) {
	draft := models.SubmissionDraft{Title: "AI"}
	got, errs := ValidateSubmission(draft, 10)
	assert.Nil(t, got)
	require.Len(t, errs, 1)
	assert.True(t, errs.Has(FieldURL, models.IssueMissingSource))
	assert.Equal(t, "Please provide either a URL or upload a file", errs[FieldURL].Message)
}

func TestValidateSubmissionTitleLength(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		message string
	}{
		{"too short", "AI", "Title must be at least 5 characters"},
		{"too long", strings.Repeat("a", 101), "Title must be less than 100 characters"},
		{"short in code points", "éééé", "Title must be at least 5 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.Title = tt.title
			_, errs := ValidateSubmission(draft, 10)
			require.True(t, errs.Has(FieldTitle, models.IssueFieldLengthViolation))
			assert.Equal(t, tt.message, errs[FieldTitle].Message)
		})
	}

	draft := validDraft()
	draft.Title = strings.Repeat("é", 100)
	_, errs := ValidateSubmission(draft, 10)
	assert.Nil(t, errs)
}

func TestValidateSubmissionDescriptionLength(t *testing.T) {
	draft := validDraft()
	draft.Description = "too short"
	_, errs := ValidateSubmission(draft, 10)
	assert.Equal(t, "Description must be at least 20 characters", errs[FieldDescription].Message)

	draft.Description = strings.Repeat("d", 501)
	_, errs = ValidateSubmission(draft, 10)
	assert.Equal(t, "Description must be less than 500 characters", errs[FieldDescription].Message)
}

func TestValidateSubmissionInvalidURL(t *testing.T) {
	draft := validDraft()
	draft.URL = "not-a-url"
	got, errs := ValidateSubmission(draft, 10)
	assert.Nil(t, got)
	require.True(t, errs.Has(FieldURL, models.IssueInvalidURL))
	assert.Equal(t, "Please enter a valid URL", errs[FieldURL].Message)
}

func TestValidateSubmissionFileWithoutURL(t *testing.T) {
	draft := validDraft()
	draft.URL = ""
	draft.AttachedFile = &models.AttachedFile{Name: "notes.pdf", Size: 2048, MimeType: "application/pdf"}

	got, errs := ValidateSubmission(draft, 10)
	require.Nil(t, errs)
	require.NotNil(t, got.AttachedFile)
	assert.Equal(t, "notes.pdf", got.AttachedFile.Name)
	assert.Empty(t, got.URL)
}

func TestValidateSubmissionOversizedFileJoinsSchemaErrors(t *testing.T) {
	draft := validDraft()
	draft.URL = ""
	draft.Title = "AI"
	draft.AttachedFile = &models.AttachedFile{Name: "big.pdf", Size: 11 * 1024 * 1024}

	_, errs := ValidateSubmission(draft, 10)
	assert.True(t, errs.Has(FieldTitle, models.IssueFieldLengthViolation))
	assert.True(t, errs.Has(FieldFile, models.IssueFileTooLarge))
	assert.Equal(t, "File size must be less than 10MB", errs[FieldFile].Message)
}

func TestValidateSubmissionSelections(t *testing.T) {
	draft := validDraft()
	draft.Category = ""
	draft.Level = ""
	draft.Type = "podcast"

	_, errs := ValidateSubmission(draft, 10)
	assert.Equal(t, "Please select a category", errs[FieldCategory].Message)
	assert.Equal(t, "Please select a level", errs[FieldLevel].Message)
	assert.True(t, errs.Has(FieldType, models.IssueInvalidSelection))
}

func TestValidateSubmissionContributorLength(t *testing.T) {
	draft := validDraft()
	draft.Contributor = strings.Repeat("n", 51)
	_, errs := ValidateSubmission(draft, 10)
	assert.Equal(t, "Name must be less than 50 characters", errs[FieldContributor].Message)

	draft.Contributor = strings.Repeat("n", 50)
	_, errs = ValidateSubmission(draft, 10)
	assert.Nil(t, errs)
}

func TestValidateSubmissionReportsEveryField(t *testing.T) {
	draft := models.SubmissionDraft{Title: "AI", URL: "nope"}
	_, errs := ValidateSubmission(draft, 10)
	assert.Len(t, errs, 6)
	assert.ElementsMatch(t,
		[]string{FieldTitle, FieldDescription, FieldURL, FieldCategory, FieldLevel, FieldType},
		keys(errs.Messages()))
}

func TestValidateAttachment(t *testing.T) {
	assert.Nil(t, ValidateAttachment(models.AttachedFile{Size: 10 * 1024 * 1024}, 10))
	assert.Nil(t, ValidateAttachment(models.AttachedFile{Size: 0}, 10))

	issue := ValidateAttachment(models.AttachedFile{Size: 11 * 1024 * 1024}, 10)
	require.NotNil(t, issue)
	assert.Equal(t, models.IssueFileTooLarge, issue.Kind)
	assert.Equal(t, FieldFile, issue.Field)

	issue = ValidateAttachment(models.AttachedFile{Size: 3 * 1024 * 1024}, 2.5)
	require.NotNil(t, issue)
	assert.Equal(t, "File size must be less than 2.5MB", issue.Message)

	assert.Nil(t, ValidateAttachment(models.AttachedFile{Size: 10 * 1024 * 1024}, 0))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "2.0 KB", FormatFileSize(2048))
	assert.Equal(t, "1.5 MB", FormatFileSize(1536*1024))
	assert.Equal(t, int64(10*1024*1024), MaxSizeBytes(10))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

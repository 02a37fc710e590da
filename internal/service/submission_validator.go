package service

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

const (
	titleMinLength       = 5
	titleMaxLength       = 100
	descriptionMinLength = 20
	descriptionMaxLength = 500
	contributorMaxLength = 50

	// DefaultMaxFileSizeMB is the attachment ceiling when none is configured.
	DefaultMaxFileSizeMB = 10.0

	bytesPerMB = 1024 * 1024
)

// Field keys used in FieldErrors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldURL         = "url"
	FieldCategory    = "category"
	FieldLevel       = "level"
	FieldType        = "type"
	FieldContributor = "contributor"
	FieldFile        = "file"
)

// DefaultAcceptedExtensions is advertised to clients but never enforced.
var DefaultAcceptedExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".png", ".jpg", ".jpeg"}

var urlValidator = validator.New()

// fieldRule inspects a draft and returns an issue for the field it owns, or nil.
type fieldRule func(models.SubmissionDraft) *models.FieldIssue

var submissionRules = []fieldRule{
	lengthRule(FieldTitle, func(d models.SubmissionDraft) string { return d.Title }, titleMinLength, titleMaxLength,
		"Title must be at least 5 characters", "Title must be less than 100 characters"),
	lengthRule(FieldDescription, func(d models.SubmissionDraft) string { return d.Description }, descriptionMinLength, descriptionMaxLength,
		"Description must be at least 20 characters", "Description must be less than 500 characters"),
	urlRule,
	selectionRule(FieldCategory, func(d models.SubmissionDraft) string { return d.Category },
		func(v string) bool { return models.Category(v).Valid() }),
	selectionRule(FieldLevel, func(d models.SubmissionDraft) string { return d.Level },
		func(v string) bool { return models.Level(v).Valid() }),
	selectionRule(FieldType, func(d models.SubmissionDraft) string { return d.Type },
		func(v string) bool { return models.ResourceType(v).Valid() }),
	lengthRule(FieldContributor, func(d models.SubmissionDraft) string { return d.Contributor }, 0, contributorMaxLength,
		"", "Name must be less than 50 characters"),
}

// ValidateSubmission checks a draft against every submission rule.
//
// A draft with neither a URL nor an attached file fails only with MissingSource on "url".
// Otherwise every rule runs and the first violation per field is kept; the attachment
// check is reported under "file". Exactly one of the return values is non-nil.
func ValidateSubmission(draft models.SubmissionDraft, maxFileSizeMB float64) (*models.ValidatedSubmission, models.FieldErrors) {
	errs := models.FieldErrors{}

	if draft.URL == "" && draft.AttachedFile == nil {
		errs.Add(models.FieldIssue{
			Field:   FieldURL,
			Kind:    models.IssueMissingSource,
			Message: "Please provide either a URL or upload a file",
		})
		return nil, errs
	}

	for _, rule := range submissionRules {
		if issue := rule(draft); issue != nil {
			errs.Add(*issue)
		}
	}

	if draft.AttachedFile != nil {
		if issue := ValidateAttachment(*draft.AttachedFile, maxFileSizeMB); issue != nil {
			errs.Add(*issue)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	validated := &models.ValidatedSubmission{
		Title:       draft.Title,
		Description: draft.Description,
		URL:         draft.URL,
		Category:    models.Category(draft.Category),
		Level:       models.Level(draft.Level),
		Type:        models.ResourceType(draft.Type),
	}
	if draft.Contributor != "" {
		contributor := draft.Contributor
		validated.Contributor = &contributor
	}
	if draft.AttachedFile != nil {
		file := *draft.AttachedFile
		validated.AttachedFile = &file
	}
	return validated, nil
}

// ValidateAttachment fails when the file is strictly larger than maxSizeMB binary megabytes.
// A non-positive limit falls back to DefaultMaxFileSizeMB.
func ValidateAttachment(file models.AttachedFile, maxSizeMB float64) *models.FieldIssue {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxFileSizeMB
	}
	if float64(file.Size) <= maxSizeMB*bytesPerMB {
		return nil
	}
	return &models.FieldIssue{
		Field:   FieldFile,
		Kind:    models.IssueFileTooLarge,
		Message: fmt.Sprintf("File size must be less than %sMB", strconv.FormatFloat(maxSizeMB, 'f', -1, 64)),
	}
}

// MaxSizeBytes converts a megabyte ceiling to bytes.
func MaxSizeBytes(maxSizeMB float64) int64 {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxFileSizeMB
	}
	return int64(maxSizeMB * bytesPerMB)
}

// FormatFileSize renders a byte count as B, KB or MB with one decimal.
func FormatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < bytesPerMB:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/bytesPerMB)
	}
}

func lengthRule(field string, get func(models.SubmissionDraft) string, minLen, maxLen int, tooShort, tooLong string) fieldRule {
	return func(d models.SubmissionDraft) *models.FieldIssue {
		n := utf8.RuneCountInString(get(d))
		switch {
		case n < minLen:
			return &models.FieldIssue{Field: field, Kind: models.IssueFieldLengthViolation, Message: tooShort}
		case n > maxLen:
			return &models.FieldIssue{Field: field, Kind: models.IssueFieldLengthViolation, Message: tooLong}
		}
		return nil
	}
}

func urlRule(d models.SubmissionDraft) *models.FieldIssue {
	if d.URL == "" {
		return nil
	}
	if err := urlValidator.Var(d.URL, "url"); err != nil {
		return &models.FieldIssue{Field: FieldURL, Kind: models.IssueInvalidURL, Message: "Please enter a valid URL"}
	}
	return nil
}

func selectionRule(field string, get func(models.SubmissionDraft) string, valid func(string) bool) fieldRule {
	return func(d models.SubmissionDraft) *models.FieldIssue {
		value := get(d)
		if value == "" {
			return &models.FieldIssue{
				Field:   field,
				Kind:    models.IssueRequiredSelectionMissing,
				Message: "Please select a " + field,
			}
		}
		if !valid(value) {
			return &models.FieldIssue{
				Field:   field,
				Kind:    models.IssueInvalidSelection,
				Message: "Please select a valid " + field,
			}
		}
		return nil
	}
}

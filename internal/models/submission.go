package models

import "time"

// AttachedFile describes an uploaded contribution file. Only metadata is retained.
type AttachedFile struct {
	Name     string `json:"name" yaml:"name"`
	Size     int64  `json:"size" yaml:"size"`
	MimeType string `json:"mimeType" yaml:"mimeType"`
}

// SubmissionDraft is the raw contribution form as received.
type SubmissionDraft struct {
	Title        string        `json:"title" form:"title" yaml:"title"`
	Description  string        `json:"description" form:"description" yaml:"description"`
	URL          string        `json:"url" form:"url" yaml:"url"`
	Category     string        `json:"category" form:"category" yaml:"category"`
	Level        string        `json:"level" form:"level" yaml:"level"`
	Type         string        `json:"type" form:"type" yaml:"type"`
	Contributor  string        `json:"contributor" form:"contributor" yaml:"contributor"`
	AttachedFile *AttachedFile `json:"-" form:"-" yaml:"attachedFile,omitempty"`
}

// ValidatedSubmission is a draft that passed every rule, with typed fields.
type ValidatedSubmission struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	URL          string        `json:"url,omitempty"`
	Category     Category      `json:"category"`
	Level        Level         `json:"level"`
	Type         ResourceType  `json:"type"`
	Contributor  *string       `json:"contributor,omitempty"`
	AttachedFile *AttachedFile `json:"attachedFile,omitempty"`
}

// SubmissionStatus tracks where an accepted contribution is.
type SubmissionStatus string

const (
	SubmissionPendingReview SubmissionStatus = "pending_review"
)

// SubmissionReceipt confirms an accepted contribution.
type SubmissionReceipt struct {
	ID          string              `json:"id"`
	Status      SubmissionStatus    `json:"status"`
	Message     string              `json:"message"`
	Detail      string              `json:"detail"`
	SubmittedAt time.Time           `json:"submitted_at"`
	Submission  ValidatedSubmission `json:"submission"`
	FileSize    string              `json:"file_size,omitempty"`
}

// IssueKind classifies a validation failure.
type IssueKind string

const (
	IssueMissingSource            IssueKind = "MissingSource"
	IssueFieldLengthViolation     IssueKind = "FieldLengthViolation"
	IssueInvalidURL               IssueKind = "InvalidURL"
	IssueRequiredSelectionMissing IssueKind = "RequiredSelectionMissing"
	IssueInvalidSelection         IssueKind = "InvalidSelection"
	IssueFileTooLarge             IssueKind = "FileTooLarge"
)

// FieldIssue is one field-scoped validation failure.
type FieldIssue struct {
	Field   string    `json:"field"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// FieldErrors maps a field name to its first violation.
type FieldErrors map[string]FieldIssue

// Add records issue unless the field already has one.
func (fe FieldErrors) Add(issue FieldIssue) {
	if _, exists := fe[issue.Field]; exists {
		return
	}
	fe[issue.Field] = issue
}

// Messages flattens the mapping to field -> message.
func (fe FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(fe))
	for field, issue := range fe {
		out[field] = issue.Message
	}
	return out
}

// Has reports whether field failed with the given kind.
func (fe FieldErrors) Has(field string, kind IssueKind) bool {
	issue, ok := fe[field]
	return ok && issue.Kind == kind
}

// AttachmentPolicy is advertised to clients before they pick a file.
type AttachmentPolicy struct {
	MaxSizeMB          float64  `json:"max_size_mb"`
	MaxSizeBytes       int64    `json:"max_size_bytes"`
	AcceptedExtensions []string `json:"accepted_extensions"`
}

// AttachmentCheck is the outcome of an eager attachment check.
type AttachmentCheck struct {
	File     AttachedFile `json:"file"`
	FileSize string       `json:"file_size"`
	Valid    bool         `json:"valid"`
	Issue    *FieldIssue  `json:"issue,omitempty"`
	Advisory string       `json:"advisory,omitempty"`
}

// ResourceReport acknowledges a viewer report about a resource.
type ResourceReport struct {
	ResourceID string    `json:"resource_id"`
	Reason     string    `json:"reason,omitempty"`
	Message    string    `json:"message"`
	ReportedAt time.Time `json:"reported_at"`
}

// ServiceStats is a lightweight snapshot of service counters.
type ServiceStats struct {
	CatalogSize              int       `json:"catalog_size"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	FilterEvaluations        uint64    `json:"filter_evaluations"`
	AverageFilterDurationMs  float64   `json:"average_filter_duration_ms"`
	SubmissionsAccepted      uint64    `json:"submissions_accepted"`
	SubmissionsRejected      uint64    `json:"submissions_rejected"`
	SubmissionsQueued        int       `json:"submissions_queued"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

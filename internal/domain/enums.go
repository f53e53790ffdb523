package domain

// FileType represents the allowed file types for bill upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// Severity is the severity class of a red flag.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Rank orders severities for sorting: HIGH > MEDIUM > LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// Tier is a rule's confidence class: 1 = always-flag, 2 = cautious-flag,
// 3 = informational only.
type Tier int

const (
	TierHighConfidence   Tier = 1
	TierMediumConfidence Tier = 2
	TierInformational    Tier = 3
)

// AuditStatus is the terminal status of a successful audit.
type AuditStatus string

const (
	AuditStatusFlagged AuditStatus = "flagged"
	AuditStatusClean   AuditStatus = "clean"
)

// AuditErrorCode identifies a terminal audit failure.
type AuditErrorCode string

const (
	ErrCodeLowOCRConfidence AuditErrorCode = "low_ocr_confidence"
	ErrCodeUnableToParse    AuditErrorCode = "unable_to_parse"
)

// Urgency classifies an appeal request.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyPlanned   Urgency = "planned"
)

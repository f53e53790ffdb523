package domain

// BillDocument is the engine input: extracted bill text plus the extractor's
// OCR confidence (0-100). It is request-scoped and never persisted.
type BillDocument struct {
	Text          string `json:"text"`
	OCRConfidence int    `json:"ocr_confidence"`
}

// Candidate is a provisional rule match pending confidence-threshold review.
// Evidence must be a verbatim substring of the source text (whitespace
// normalization aside); SuspiciousCode must appear verbatim or be nil.
type Candidate struct {
	RuleID                 string
	ErrorType              string
	ChargeItem             string
	Evidence               string
	SuspiciousCode         *string
	Severity               Severity
	EstimatedOverchargeUSD *float64
	Confidence             int
	Summary                string
	Justification          string
}

// Finding is a Candidate promoted to final output (confidence >= publish
// threshold).
type Finding struct {
	RuleID                 string   `json:"rule_id"`
	ErrorType              string   `json:"error_type"`
	ChargeItem             string   `json:"charge_item"`
	Evidence               string   `json:"evidence"`
	SuspiciousCode         *string  `json:"suspicious_code"`
	Severity               Severity `json:"severity"`
	EstimatedOverchargeUSD *float64 `json:"estimated_overcharge_usd"`
	Confidence             int      `json:"confidence"`
	Summary                string   `json:"summary"`
	Justification          string   `json:"justification"`
}

// AuditSummary aggregates the audit outcome.
type AuditSummary struct {
	Status           string   `json:"status"`
	TotalBillAmount  *float64 `json:"total_bill_amount"`
	EstimatedSavings float64  `json:"estimated_savings"`
	ConfidenceLevel  int      `json:"confidence_level"`
}

// ActionPlan tells the user what to do about the findings.
type ActionPlan struct {
	PrioritySteps []string `json:"priority_steps"`
	NextStepFocus string   `json:"next_step_focus"`
}

// AuditResult is the terminal success output of the audit engine.
type AuditResult struct {
	Summary           AuditSummary `json:"audit_summary"`
	Findings          []Finding    `json:"findings"`
	ActionPlan        ActionPlan   `json:"action_plan"`
	PhoneScript       string       `json:"phone_script"`
	DisputeLetterText string       `json:"dispute_letter_text"`
	Notes             *string      `json:"notes"`
}

// AuditError is the terminal failure output, mutually exclusive with
// AuditResult. It is a policy outcome, not an infrastructure error.
type AuditError struct {
	ErrorCode AuditErrorCode `json:"error_code"`
	Message   string         `json:"message"`
}

// AppealInput carries the fields needed to generate an appeal.
type AppealInput struct {
	Service        string  `json:"service"`
	DenialReason   string  `json:"denial_reason"`
	Urgency        Urgency `json:"urgency"`
	DesiredOutcome string  `json:"desired_outcome"`
}

// AppealContent is the generated appeal letter and phone script.
type AppealContent struct {
	Letter string `json:"letter"`
	Script string `json:"script"`
}

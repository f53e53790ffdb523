package audit

import (
	"fmt"
	"log"
	"math"
	"sort"

	"verity/internal/audit/redflag"
	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
	"verity/internal/generate"
)

// Thresholds are the engine's decision boundaries. Zero values are never
// meaningful; build from DefaultThresholds or config.
type Thresholds struct {
	// OCRMin is the minimum OCR confidence to attempt an audit at all.
	OCRMin int
	// Publish is the minimum candidate confidence for a published finding.
	Publish int
	// NotesMin is the minimum candidate confidence to surface in notes.
	NotesMin int
	// MaxFindings caps the published findings per audit.
	MaxFindings int
	// HighValueCents is the bill total above which the low-adjustment
	// escalation applies.
	HighValueCents int64
	// AdjustmentMinPct is the adjustment percentage below which a high-value
	// bill is escalated.
	AdjustmentMinPct float64
}

// DefaultThresholds returns the production decision boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OCRMin:           60,
		Publish:          85,
		NotesMin:         75,
		MaxFindings:      3,
		HighValueCents:   10_000_000,
		AdjustmentMinPct: 2,
	}
}

// Engine runs the deterministic audit pipeline: quality gate, structural gate,
// rule evaluation with preemption, confidence filtering, ranking, savings
// aggregation, and output composition. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	catalog    *catalog.Catalog
	detectors  []*redflag.Detector
	thresholds Thresholds
}

// NewEngine builds an engine over a validated catalog. Detectors run in the
// catalog's declaration order.
func NewEngine(cat *catalog.Catalog, detectors []*redflag.Detector, t Thresholds) *Engine {
	return &Engine{catalog: cat, detectors: detectors, thresholds: t}
}

// Audit evaluates one bill document. Exactly one of the returns is non-nil:
// an AuditError is a policy outcome (unreadable or unparseable input), not an
// infrastructure failure, so it is not a Go error. The same document always
// produces the same output.
func (e *Engine) Audit(doc *domain.BillDocument) (*domain.AuditResult, *domain.AuditError) {
	if doc.OCRConfidence < e.thresholds.OCRMin {
		log.Printf("audit.Engine: rejecting document, ocr confidence %d below %d", doc.OCRConfidence, e.thresholds.OCRMin)
		return nil, &domain.AuditError{
			ErrorCode: domain.ErrCodeLowOCRConfidence,
			Message: fmt.Sprintf(
				"The document scan quality is too low to audit reliably (confidence %d). Please upload a clearer copy of the bill.",
				doc.OCRConfidence),
		}
	}
	if !billtext.HasChargeContent(doc.Text) {
		log.Printf("audit.Engine: rejecting document, no parseable charges")
		return nil, &domain.AuditError{
			ErrorCode: domain.ErrCodeUnableToParse,
			Message:   "No readable charge lines were found on the document. Please upload an itemized bill.",
		}
	}

	candidates := e.evaluate(doc)
	candidates = e.validate(doc, candidates)
	candidates = e.capInstances(candidates)

	findings, notes := e.filterAndRank(candidates)

	savingsCents := sumOverchargeCents(findings)
	highValue := e.isHighValue(doc.Text)
	if highValue {
		notes = append(notes, "This bill exceeds the high-value review threshold with minimal insurance adjustment; the totals deserve a manual line-by-line check.")
	}

	log.Printf("audit.Engine: completed, findings=%d notes=%d savings_cents=%d", len(findings), len(notes), savingsCents)
	return e.compose(doc, findings, notes, savingsCents, highValue), nil
}

// evaluate runs the detectors in declaration order, honoring the catalog's
// preemption relation: once a rule fires, every rule it preempts is skipped
// for this bill, and any candidates such a rule already produced are dropped.
func (e *Engine) evaluate(doc *domain.BillDocument) []domain.Candidate {
	suppressed := make(map[string]bool)
	var out []domain.Candidate

	for _, d := range e.detectors {
		if suppressed[d.RuleID()] {
			log.Printf("audit.Engine: rule %s suppressed by preemption", d.RuleID())
			continue
		}
		cands := d.Detect(doc)
		if len(cands) == 0 {
			continue
		}
		out = append(out, cands...)
		for _, target := range d.Rule().Preempts {
			suppressed[target] = true
		}
	}

	// A preempting rule may be declared after its target; purge retroactively.
	kept := out[:0]
	for _, c := range out {
		if !suppressed[c.RuleID] {
			kept = append(kept, c)
		}
	}
	return kept
}

// validate enforces the evidence contract on every candidate: each evidence
// snippet must appear verbatim in the source text or the candidate is
// discarded, a suspicious code that does not appear verbatim is nulled out,
// and confidence may only sit at or below the rule's base.
func (e *Engine) validate(doc *domain.BillDocument, cands []domain.Candidate) []domain.Candidate {
	kept := cands[:0]
	for _, c := range cands {
		if !billtext.ContainsVerbatimLines(doc.Text, c.Evidence) {
			log.Printf("audit.Engine: dropping %s candidate, evidence not verbatim", c.RuleID)
			continue
		}
		if c.SuspiciousCode != nil && !billtext.ContainsVerbatim(doc.Text, *c.SuspiciousCode) {
			c.SuspiciousCode = nil
		}
		if rule := e.catalog.Get(c.RuleID); rule != nil && c.Confidence > rule.BaseConfidence {
			c.Confidence = rule.BaseConfidence
		}
		if c.Confidence < 0 {
			c.Confidence = 0
		}
		kept = append(kept, c)
	}
	return kept
}

// capInstances enforces each rule's per-bill instance cap, keeping the
// highest-confidence candidates (stable on ties).
func (e *Engine) capInstances(cands []domain.Candidate) []domain.Candidate {
	var out []domain.Candidate
	for _, rule := range e.catalog.Rules() {
		var group []domain.Candidate
		for _, c := range cands {
			if c.RuleID == rule.ID {
				group = append(group, c)
			}
		}
		if rule.MaxInstances > 0 && len(group) > rule.MaxInstances {
			log.Printf("audit.Engine: rule %s produced %d candidates, capping at %d", rule.ID, len(group), rule.MaxInstances)
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Confidence > group[j].Confidence
			})
			group = group[:rule.MaxInstances]
		}
		out = append(out, group...)
	}
	return out
}

// filterAndRank splits candidates into published findings and note lines.
// Notes-only rules never publish regardless of confidence. Published findings
// are ordered by severity, then confidence, then catalog declaration order,
// and capped at MaxFindings; the notes channel carries only the 75-84 band,
// so candidates past the cap are dropped.
func (e *Engine) filterAndRank(cands []domain.Candidate) ([]domain.Finding, []string) {
	var publishable []domain.Candidate
	var notes []string

	for _, c := range cands {
		rule := e.catalog.Get(c.RuleID)
		notesOnly := rule != nil && rule.NotesOnly
		switch {
		case !notesOnly && c.Confidence >= e.thresholds.Publish:
			publishable = append(publishable, c)
		case c.Confidence >= e.thresholds.NotesMin:
			notes = append(notes, noteLine(c))
		default:
			log.Printf("audit.Engine: dropping %s candidate, confidence %d below notes threshold", c.RuleID, c.Confidence)
		}
	}

	sort.SliceStable(publishable, func(i, j int) bool {
		a, b := publishable[i], publishable[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return e.catalog.DeclarationIndex(a.RuleID) < e.catalog.DeclarationIndex(b.RuleID)
	})
	if len(publishable) > e.thresholds.MaxFindings {
		log.Printf("audit.Engine: dropping %d findings past the cap of %d", len(publishable)-e.thresholds.MaxFindings, e.thresholds.MaxFindings)
		publishable = publishable[:e.thresholds.MaxFindings]
	}

	findings := make([]domain.Finding, 0, len(publishable))
	for _, c := range publishable {
		findings = append(findings, domain.Finding{
			RuleID:                 c.RuleID,
			ErrorType:              c.ErrorType,
			ChargeItem:             c.ChargeItem,
			Evidence:               c.Evidence,
			SuspiciousCode:         c.SuspiciousCode,
			Severity:               c.Severity,
			EstimatedOverchargeUSD: c.EstimatedOverchargeUSD,
			Confidence:             c.Confidence,
			Summary:                c.Summary,
			Justification:          c.Justification,
		})
	}
	return findings, notes
}

func noteLine(c domain.Candidate) string {
	return fmt.Sprintf("%s (confidence %d): %s", c.ErrorType, c.Confidence, c.Summary)
}

// sumOverchargeCents totals the published findings' overcharges; findings
// without a calculable overcharge contribute zero.
func sumOverchargeCents(findings []domain.Finding) int64 {
	var sum int64
	for i := range findings {
		if v := findings[i].EstimatedOverchargeUSD; v != nil {
			sum += int64(math.Round(*v * 100))
		}
	}
	return sum
}

// isHighValue reports whether the bill states a total above the high-value
// threshold while adjustments cover less than the minimum percentage of it.
func (e *Engine) isHighValue(text string) bool {
	total, ok := billtext.TotalBillCents(text)
	if !ok || total <= e.thresholds.HighValueCents {
		return false
	}
	adj := billtext.AdjustmentCents(text)
	return float64(adj) < float64(total)*e.thresholds.AdjustmentMinPct/100
}

// compose assembles the terminal result. A clean bill reports full confidence
// and zero savings; a flagged bill's confidence is the extraction confidence.
func (e *Engine) compose(doc *domain.BillDocument, findings []domain.Finding, notes []string, savingsCents int64, highValue bool) *domain.AuditResult {
	var totalUSD *float64
	if cents, ok := billtext.TotalBillCents(doc.Text); ok {
		v := float64(cents) / 100
		totalUSD = &v
	}

	var notesPtr *string
	if len(notes) > 0 {
		joined := joinNotes(notes)
		notesPtr = &joined
	}

	if len(findings) == 0 {
		return &domain.AuditResult{
			Summary: domain.AuditSummary{
				Status:           string(domain.AuditStatusClean),
				TotalBillAmount:  totalUSD,
				EstimatedSavings: 0,
				ConfidenceLevel:  100,
			},
			Findings:          []domain.Finding{},
			ActionPlan:        generate.ActionPlan(nil, highValue),
			PhoneScript:       generate.CleanPhoneScript,
			DisputeLetterText: generate.CleanLetter,
			Notes:             notesPtr,
		}
	}

	return &domain.AuditResult{
		Summary: domain.AuditSummary{
			Status:           string(domain.AuditStatusFlagged),
			TotalBillAmount:  totalUSD,
			EstimatedSavings: float64(savingsCents) / 100,
			ConfidenceLevel:  doc.OCRConfidence,
		},
		Findings:          findings,
		ActionPlan:        generate.ActionPlan(findings, highValue),
		PhoneScript:       generate.PhoneScript(findings),
		DisputeLetterText: generate.DisputeLetter(findings),
		Notes:             notesPtr,
	}
}

func joinNotes(notes []string) string {
	out := notes[0]
	for _, n := range notes[1:] {
		out += "\n" + n
	}
	return out
}

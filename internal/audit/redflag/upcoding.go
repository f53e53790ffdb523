package redflag

import (
	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
)

// detectSevereUpcoding flags an ER visit billed at level 4 or 5 while the bill
// itself documents simple treatment (RF006). The overcharge must be calculable
// from explicit amounts: the bill has to show both the billed high-level
// charge and a lower-level price. Without both amounts the rule does not fire
// at all; an uncomputable severity gap is ambiguity, not a weaker flag.
func detectSevereUpcoding(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	if !simpleCareRe.MatchString(doc.Text) {
		return nil
	}

	highLine, hasHigh := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		return l.HasAmount && highLevelRe.MatchString(l.Raw)
	})
	if !hasHigh {
		return nil
	}
	lowLine, hasLow := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		return l.HasAmount && lowLevelRe.MatchString(l.Raw)
	})
	if !hasLow || highLine.AmountCents <= lowLine.AmountCents {
		return nil
	}

	return []domain.Candidate{{
		RuleID:                 rule.ID,
		ErrorType:              rule.ErrorType,
		ChargeItem:             highLine.Description,
		Evidence:               snippet(highLine.Raw, lowLine.Raw),
		SuspiciousCode:         codeOrNil(highLine),
		Severity:               rule.Severity,
		EstimatedOverchargeUSD: usd(highLine.AmountCents - lowLine.AmountCents),
		Confidence:             rule.BaseConfidence,
		Summary:                "The hospital charged for a complicated visit but you only got a basic check-up.",
		Justification:          "The bill shows a level 4-5 ER charge alongside documentation of simple treatment, with a lower-level price stated on the same bill. The difference between the two stated amounts is the overcharge.",
	}}
}

// detectPotentialUpcoding notes a possible one-level upcoding gap (RF007).
// Informational only: the catalog marks the rule notes-only, so a match never
// becomes a published finding.
func detectPotentialUpcoding(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	if !simpleCareRe.MatchString(doc.Text) {
		return nil
	}
	line, ok := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		return midLevelRe.MatchString(l.Raw)
	})
	if !ok {
		return nil
	}

	return []domain.Candidate{{
		RuleID:         rule.ID,
		ErrorType:      rule.ErrorType,
		ChargeItem:     line.Description,
		Evidence:       snippet(line.Raw),
		SuspiciousCode: codeOrNil(line),
		Severity:       rule.Severity,
		Confidence:     rule.BaseConfidence,
		Summary:        "The visit may be billed one complexity level higher than the treatment suggests.",
		Justification:  "A level 2-3 ER charge appears for what the bill describes as a simple procedure. Informational observation only.",
	}}
}

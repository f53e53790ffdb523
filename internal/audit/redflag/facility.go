package redflag

import (
	"strings"

	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
)

// detectOutpatientFacilityFee flags a facility fee charged for an outpatient
// visit where the patient was treated and released the same day (RF002). The
// predicate needs all three markers: a facility fee, an emergency-visit
// context, and a same-day-discharge notation. An explicit inpatient notation
// overrides the flag entirely.
func detectOutpatientFacilityFee(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	if _, inpatient := billtext.ContainsAny(doc.Text, inpatientMarkers); inpatient {
		return nil
	}

	feeLine, hasFee := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		_, ok := billtext.ContainsAny(l.Raw, facilityFeeMarkers)
		return ok
	})
	if !hasFee || !hasERContext(doc.Text) {
		return nil
	}
	dischargeLine, hasDischarge := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		_, ok := billtext.ContainsAny(l.Raw, dischargeMarkers)
		return ok
	})
	if !hasDischarge {
		return nil
	}

	evidence := feeLine.Raw
	if strings.TrimSpace(dischargeLine.Raw) != strings.TrimSpace(feeLine.Raw) {
		evidence = snippet(feeLine.Raw, dischargeLine.Raw)
	} else {
		evidence = snippet(feeLine.Raw)
	}

	cand := domain.Candidate{
		RuleID:         rule.ID,
		ErrorType:      rule.ErrorType,
		ChargeItem:     feeLine.Description,
		Evidence:       evidence,
		SuspiciousCode: codeOrNil(feeLine),
		Severity:       rule.Severity,
		Confidence:     rule.BaseConfidence,
		Summary:        "You're being charged for a hospital room you never stayed in.",
		Justification:  "A facility fee was billed for an emergency visit documented as treated and released the same day. This violates standard billing guidelines for outpatient encounters.",
	}
	if feeLine.HasAmount {
		cand.EstimatedOverchargeUSD = usd(feeLine.AmountCents)
	}
	return []domain.Candidate{cand}
}

// detectDuplicateFacilityFee flags two separate line items with identical
// facility-fee names on the same bill (RF004). An outpatient ER context is
// the outpatient rule's territory; the catalog gate suppresses this rule when
// RF002 fires, and the same condition is checked here so the two flags can
// never share evidence.
func detectDuplicateFacilityFee(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	if hasERContext(doc.Text) {
		if _, discharged := billtext.ContainsAny(doc.Text, dischargeMarkers); discharged {
			return nil
		}
	}

	var feeLines []billtext.ChargeLine
	for _, line := range billtext.ParseLines(doc.Text) {
		if _, ok := billtext.ContainsAny(line.Raw, facilityFeeMarkers); ok {
			feeLines = append(feeLines, line)
		}
	}

	for i := 0; i < len(feeLines); i++ {
		for j := i + 1; j < len(feeLines); j++ {
			a, b := feeLines[i], feeLines[j]
			if a.Description == "" || !strings.EqualFold(a.Description, b.Description) {
				continue
			}

			cand := domain.Candidate{
				RuleID:         rule.ID,
				ErrorType:      rule.ErrorType,
				ChargeItem:     a.Description,
				Evidence:       snippet(a.Raw, b.Raw),
				SuspiciousCode: codeOrNil(a),
				Severity:       rule.Severity,
				Confidence:     rule.BaseConfidence,
				Summary:        "You're being charged twice for using the hospital.",
				Justification:  "Two identical facility fee line items appear as separate charges on the same statement. A facility fee should appear once per encounter.",
			}
			if a.HasAmount && b.HasAmount && a.AmountCents == b.AmountCents {
				cand.EstimatedOverchargeUSD = usd(a.AmountCents)
			}
			return []domain.Candidate{cand}
		}
	}
	return nil
}

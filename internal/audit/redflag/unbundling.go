package redflag

import (
	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
)

// detectUnbundledSupplies flags routine supplies billed separately from a
// procedure they should be bundled into (RF005). Both halves must be present:
// a routine-supply charge line and a corresponding procedure charge. Implants
// and prosthetics are legitimately billed separately and block the flag.
func detectUnbundledSupplies(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	supplyLine, hasSupply := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		_, ok := billtext.ContainsAny(l.Raw, routineSupplyMarkers)
		if !ok {
			return false
		}
		_, implant := billtext.ContainsAny(l.Raw, implantMarkers)
		return !implant
	})
	if !hasSupply {
		return nil
	}

	procLine, hasProc := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		if l.Raw == supplyLine.Raw {
			return false
		}
		return l.Code != "" || procedureRe.MatchString(l.Raw)
	})
	if !hasProc {
		return nil
	}

	cand := domain.Candidate{
		RuleID:         rule.ID,
		ErrorType:      rule.ErrorType,
		ChargeItem:     supplyLine.Description,
		Evidence:       snippet(supplyLine.Raw, procLine.Raw),
		SuspiciousCode: codeOrNil(procLine),
		Severity:       rule.Severity,
		Confidence:     rule.BaseConfidence,
		Summary:        "Regular supplies are already included in your visit charge, so you shouldn't pay twice.",
		Justification:  "Routine supplies are billed as a separate line item alongside the procedure charge that should already include them under standard bundling guidelines.",
	}
	if supplyLine.HasAmount {
		cand.EstimatedOverchargeUSD = usd(supplyLine.AmountCents)
	}
	return []domain.Candidate{cand}
}

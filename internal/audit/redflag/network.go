package redflag

import (
	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
)

// detectOutOfNetwork flags a line item explicitly marked out-of-network or
// non-participating (RF003). A documented patient consent or No Surprises Act
// notation anywhere on the bill blocks the flag.
func detectOutOfNetwork(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	if _, consented := billtext.ContainsAny(doc.Text, consentMarkers); consented {
		return nil
	}

	line, ok := firstLineWith(doc, func(l billtext.ChargeLine) bool {
		_, hit := billtext.ContainsAny(l.Raw, outOfNetworkMarkers)
		return hit
	})
	if !ok {
		return nil
	}

	cand := domain.Candidate{
		RuleID:         rule.ID,
		ErrorType:      rule.ErrorType,
		ChargeItem:     line.Description,
		Evidence:       snippet(line.Raw),
		SuspiciousCode: codeOrNil(line),
		Severity:       rule.Severity,
		Confidence:     rule.BaseConfidence,
		Summary:        "A doctor you didn't choose was out-of-network, and you shouldn't have to pay extra.",
		Justification:  "The line item is explicitly marked out-of-network with no documented patient consent. This violates standard billing guidelines under surprise-billing protections.",
	}
	if line.HasAmount {
		cand.EstimatedOverchargeUSD = usd(line.AmountCents)
	}
	return []domain.Candidate{cand}
}

package redflag

import (
	"fmt"
	"strings"

	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
)

// Detection methods for duplicate charges, strongest evidence first. A pair is
// scored by the first method that matches; methods never combine, and a weaker
// method can only lower the confidence relative to the rule's base.
const (
	dupMethodCPT         = 98 // same CPT code, two line items, same date
	dupMethodDescription = 92 // identical description, identical amount, same date
	dupMethodRelated     = 90 // related descriptions, identical amount, same date
)

// detectDuplicateCharge flags identical services billed twice on the same
// statement (RF001). Facility-fee lines are excluded: duplicated facility fees
// belong to the dedicated facility rules, and one piece of evidence must not
// feed two overlapping flags.
func detectDuplicateCharge(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate {
	lines := billtext.ParseLines(doc.Text)

	var charges []billtext.ChargeLine
	for _, line := range lines {
		if !line.HasAmount {
			continue
		}
		if _, facility := billtext.ContainsAny(line.Raw, facilityFeeMarkers); facility {
			continue
		}
		charges = append(charges, line)
	}

	var out []domain.Candidate
	used := make(map[int]bool)

	for i := 0; i < len(charges); i++ {
		if used[i] {
			continue
		}
		for j := i + 1; j < len(charges); j++ {
			if used[j] {
				continue
			}
			conf, ok := duplicateMethod(charges[i], charges[j])
			if !ok {
				continue
			}
			if conf > rule.BaseConfidence {
				conf = rule.BaseConfidence
			}

			cand := domain.Candidate{
				RuleID:                 rule.ID,
				ErrorType:              rule.ErrorType,
				ChargeItem:             charges[i].Description,
				Evidence:               snippet(charges[i].Raw, charges[j].Raw),
				Severity:               rule.Severity,
				EstimatedOverchargeUSD: usd(charges[i].AmountCents),
				Confidence:             conf,
				Summary:                "You're being charged twice for the same thing.",
				Justification: fmt.Sprintf(
					"Two line items for the same service appear on the same statement for %s, indicating a duplicate charge.",
					charges[i].Date,
				),
			}
			if conf == dupMethodCPT {
				cand.SuspiciousCode = codeOrNil(charges[i])
			}
			out = append(out, cand)
			used[i] = true
			used[j] = true
			break
		}
	}
	return out
}

// duplicateMethod decides whether two charge lines evidence a duplicate and
// returns the method confidence. Requirements common to every method: same
// explicit date of service and identical explicit amounts. Different codes,
// amounts, or dates mean genuinely different services and produce no flag.
func duplicateMethod(a, b billtext.ChargeLine) (int, bool) {
	if a.Date == "" || a.Date != b.Date {
		return 0, false
	}
	if a.AmountCents != b.AmountCents {
		return 0, false
	}

	if a.Code != "" && b.Code != "" {
		if a.Code == b.Code {
			return dupMethodCPT, true
		}
		return 0, false
	}

	descA := strings.ToLower(a.Description)
	descB := strings.ToLower(b.Description)
	if descA == "" || descB == "" {
		return 0, false
	}
	if descA == descB {
		return dupMethodDescription, true
	}
	if relatedDescriptions(descA, descB) {
		return dupMethodRelated, true
	}
	return 0, false
}

// relatedDescriptions reports whether two differing descriptions plausibly
// name the same service under different labels (e.g. "ER Visit" and
// "ER Evaluation Fee"): they must share at least one substantive token.
func relatedDescriptions(a, b string) bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(a) {
		if substantiveToken(t) {
			tokens[t] = true
		}
	}
	for _, t := range strings.Fields(b) {
		if substantiveToken(t) && tokens[t] {
			return true
		}
	}
	return false
}

var fillerTokens = map[string]bool{
	"fee": true, "charge": true, "item": true, "line": true,
	"the": true, "and": true, "for": true, "of": true,
}

func substantiveToken(t string) bool {
	return len(t) >= 2 && !fillerTokens[t]
}

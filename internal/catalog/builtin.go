package catalog

import "verity/internal/domain"

// Builtin rule IDs.
const (
	RuleDuplicateCharge       = "RF001"
	RuleOutpatientFacilityFee = "RF002"
	RuleOutOfNetwork          = "RF003"
	RuleDuplicateFacilityFee  = "RF004"
	RuleUnbundledSupplies     = "RF005"
	RuleSevereUpcoding        = "RF006"
	RulePotentialUpcoding     = "RF007"
)

// BuiltinRules returns the approved red-flag definitions in declaration order.
// The set is closed: detectors exist only for these rules, and nothing may be
// added at runtime.
func BuiltinRules() []RuleDefinition {
	return []RuleDefinition{
		{
			ID:             RuleDuplicateCharge,
			Name:           "Duplicate Charge",
			ErrorType:      "Duplicate Charge",
			Tier:           domain.TierHighConfidence,
			Severity:       domain.SeverityHigh,
			BaseConfidence: 98,
			MaxInstances:   0, // explicitly multi-instance
		},
		{
			ID:             RuleOutpatientFacilityFee,
			Name:           "Facility Fee on Outpatient",
			ErrorType:      "Facility Fee on Outpatient Visit",
			Tier:           domain.TierHighConfidence,
			Severity:       domain.SeverityHigh,
			BaseConfidence: 97,
			MaxInstances:   1,
			Preempts:       []string{RuleDuplicateFacilityFee},
		},
		{
			ID:             RuleOutOfNetwork,
			Name:           "Out-of-Network Marked",
			ErrorType:      "Out-of-Network Surprise",
			Tier:           domain.TierHighConfidence,
			Severity:       domain.SeverityHigh,
			BaseConfidence: 99,
			MaxInstances:   1,
		},
		{
			ID:             RuleDuplicateFacilityFee,
			Name:           "Duplicate Facility Fees",
			ErrorType:      "Duplicate Facility Charge",
			Tier:           domain.TierHighConfidence,
			Severity:       domain.SeverityHigh,
			BaseConfidence: 92,
			MaxInstances:   1,
		},
		{
			ID:             RuleUnbundledSupplies,
			Name:           "Obvious Unbundling",
			ErrorType:      "Unbundled Routine Supplies",
			Tier:           domain.TierMediumConfidence,
			Severity:       domain.SeverityMedium,
			BaseConfidence: 90,
			MaxInstances:   1,
		},
		{
			ID:             RuleSevereUpcoding,
			Name:           "Severe Upcoding",
			ErrorType:      "Severe Upcoding",
			Tier:           domain.TierMediumConfidence,
			Severity:       domain.SeverityMedium,
			BaseConfidence: 85,
			MaxInstances:   1,
			Preempts:       []string{RulePotentialUpcoding},
		},
		{
			ID:             RulePotentialUpcoding,
			Name:           "Potential Upcoding",
			ErrorType:      "Potential Upcoding",
			Tier:           domain.TierInformational,
			Severity:       domain.SeverityLow,
			BaseConfidence: 75,
			MaxInstances:   1,
			NotesOnly:      true,
		},
	}
}

// MustBuiltin builds the builtin catalog and panics on a definition error.
// Intended for main wiring and tests; the builtin set is validated by its own
// tests, so a failure here is a programming error.
func MustBuiltin() *Catalog {
	c, err := New(BuiltinRules())
	if err != nil {
		panic(err)
	}
	return c
}

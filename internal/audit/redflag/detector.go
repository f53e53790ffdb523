package redflag

import (
	"verity/internal/catalog"
	"verity/internal/domain"
)

// Detector evaluates one approved rule's detection predicate against bill
// text. Detectors consult nothing beyond the text itself: no insurance plans,
// negotiated rates, or benchmarks.
type Detector struct {
	rule catalog.RuleDefinition
	fn   func(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate
}

// RuleID returns the catalog ID of the rule this detector implements.
func (d *Detector) RuleID() string { return d.rule.ID }

// Rule returns the rule definition the detector was built from.
func (d *Detector) Rule() catalog.RuleDefinition { return d.rule }

// Detect runs the predicate and returns zero or more candidates. A returned
// candidate always carries verbatim evidence; when the predicate is satisfied
// but no exact snippet supports it, nothing is returned.
func (d *Detector) Detect(doc *domain.BillDocument) []domain.Candidate {
	return d.fn(&d.rule, doc)
}

// AllBuiltinDetectors returns one detector per builtin catalog rule, in
// catalog declaration order. Rules without a detector here cannot fire.
func AllBuiltinDetectors(cat *catalog.Catalog) []*Detector {
	builders := map[string]func(rule *catalog.RuleDefinition, doc *domain.BillDocument) []domain.Candidate{
		catalog.RuleDuplicateCharge:       detectDuplicateCharge,
		catalog.RuleOutpatientFacilityFee: detectOutpatientFacilityFee,
		catalog.RuleOutOfNetwork:          detectOutOfNetwork,
		catalog.RuleDuplicateFacilityFee:  detectDuplicateFacilityFee,
		catalog.RuleUnbundledSupplies:     detectUnbundledSupplies,
		catalog.RuleSevereUpcoding:        detectSevereUpcoding,
		catalog.RulePotentialUpcoding:     detectPotentialUpcoding,
	}

	var out []*Detector
	for _, rule := range cat.Rules() {
		fn, ok := builders[rule.ID]
		if !ok {
			continue
		}
		out = append(out, &Detector{rule: rule, fn: fn})
	}
	return out
}

package redflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verity/internal/billtext"
	"verity/internal/catalog"
	"verity/internal/domain"
)

var cat = catalog.MustBuiltin()

func doc(text string) *domain.BillDocument {
	return &domain.BillDocument{Text: text, OCRConfidence: 95}
}

func TestDetectDuplicateCharge_SameCPTCode(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("OFFICE VISIT (99213) 01/15/2024 $150.00\nOFFICE VISIT (99213) 01/15/2024 $150.00")

	cands := detectDuplicateCharge(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 98, cands[0].Confidence)
	require.NotNil(t, cands[0].SuspiciousCode)
	assert.Equal(t, "99213", *cands[0].SuspiciousCode)
	require.NotNil(t, cands[0].EstimatedOverchargeUSD)
	assert.Equal(t, 150.00, *cands[0].EstimatedOverchargeUSD)
	assert.True(t, billtext.ContainsVerbatim(d.Text, cands[0].Evidence))
}

func TestDetectDuplicateCharge_DifferentCodesNoFlag(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("OFFICE VISIT (99213) 01/15/2024 $150.00\nOFFICE VISIT (99214) 01/15/2024 $150.00")

	assert.Empty(t, detectDuplicateCharge(rule, d), "differing codes are different services")
}

func TestDetectDuplicateCharge_IdenticalDescription(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("IV FLUIDS 01/15/2024 $85.00\nIV FLUIDS 01/15/2024 $85.00")

	cands := detectDuplicateCharge(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 92, cands[0].Confidence)
	assert.Nil(t, cands[0].SuspiciousCode, "no code on the bill means no code in the flag")
}

func TestDetectDuplicateCharge_RelatedDescriptions(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("ER VISIT 01/15/2024 $500.00\nER EVALUATION 01/15/2024 $500.00")

	cands := detectDuplicateCharge(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 90, cands[0].Confidence)
}

func TestDetectDuplicateCharge_RequiresMatchingDates(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)

	assert.Empty(t, detectDuplicateCharge(rule,
		doc("IV FLUIDS 01/15/2024 $85.00\nIV FLUIDS 01/16/2024 $85.00")))
	assert.Empty(t, detectDuplicateCharge(rule,
		doc("IV FLUIDS $85.00\nIV FLUIDS $85.00")), "no dates, no duplicate call")
}

func TestDetectDuplicateCharge_DifferentAmountsNoFlag(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("IV FLUIDS 01/15/2024 $85.00\nIV FLUIDS 01/15/2024 $95.00")

	assert.Empty(t, detectDuplicateCharge(rule, d))
}

func TestDetectDuplicateCharge_SkipsFacilityFeeLines(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("FACILITY FEE 01/15/2024 $350.00\nFACILITY FEE 01/15/2024 $350.00")

	assert.Empty(t, detectDuplicateCharge(rule, d), "facility fees belong to the facility rules")
}

func TestDetectDuplicateCharge_MultipleInstances(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateCharge)
	d := doc("IV FLUIDS 01/15/2024 $85.00\nIV FLUIDS 01/15/2024 $85.00\n" +
		"CHEST X-RAY (71046) 01/15/2024 $220.00\nCHEST X-RAY (71046) 01/15/2024 $220.00")

	cands := detectDuplicateCharge(rule, d)
	assert.Len(t, cands, 2)
}

func TestDetectOutpatientFacilityFee(t *testing.T) {
	rule := cat.Get(catalog.RuleOutpatientFacilityFee)
	d := doc("FACILITY FEE - ER $500.00\nPatient treated and released same day")

	cands := detectOutpatientFacilityFee(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 97, cands[0].Confidence)
	assert.Equal(t, domain.SeverityHigh, cands[0].Severity)
	require.NotNil(t, cands[0].EstimatedOverchargeUSD)
	assert.Equal(t, 500.00, *cands[0].EstimatedOverchargeUSD)
	assert.True(t, billtext.ContainsVerbatim(d.Text, cands[0].Evidence))
}

func TestDetectOutpatientFacilityFee_InpatientOverride(t *testing.T) {
	rule := cat.Get(catalog.RuleOutpatientFacilityFee)
	d := doc("FACILITY FEE - ER $500.00\nPatient admitted, released same day")

	assert.Empty(t, detectOutpatientFacilityFee(rule, d))
}

func TestDetectOutpatientFacilityFee_NeedsDischargeMarker(t *testing.T) {
	rule := cat.Get(catalog.RuleOutpatientFacilityFee)
	d := doc("FACILITY FEE - ER $500.00\nLAB PANEL $120.00")

	assert.Empty(t, detectOutpatientFacilityFee(rule, d))
}

func TestDetectOutOfNetwork(t *testing.T) {
	rule := cat.Get(catalog.RuleOutOfNetwork)
	d := doc("ANESTHESIOLOGIST (OUT-OF-NETWORK) $1,200.00")

	cands := detectOutOfNetwork(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 99, cands[0].Confidence)
	require.NotNil(t, cands[0].EstimatedOverchargeUSD)
	assert.Equal(t, 1200.00, *cands[0].EstimatedOverchargeUSD)
}

func TestDetectOutOfNetwork_ConsentBlocks(t *testing.T) {
	rule := cat.Get(catalog.RuleOutOfNetwork)
	d := doc("ANESTHESIOLOGIST (OUT-OF-NETWORK) $1,200.00\nPatient consent obtained for out-of-network care")

	assert.Empty(t, detectOutOfNetwork(rule, d))
}

func TestDetectDuplicateFacilityFee(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateFacilityFee)
	d := doc("FACILITY FEE $350.00\nLAB PANEL $120.00\nFACILITY FEE $350.00")

	cands := detectDuplicateFacilityFee(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 92, cands[0].Confidence)
	require.NotNil(t, cands[0].EstimatedOverchargeUSD)
	assert.Equal(t, 350.00, *cands[0].EstimatedOverchargeUSD)
}

func TestDetectDuplicateFacilityFee_DifferentAmountsNullOvercharge(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateFacilityFee)
	d := doc("FACILITY FEE $350.00\nFACILITY FEE $420.00")

	cands := detectDuplicateFacilityFee(rule, d)
	require.Len(t, cands, 1)
	assert.Nil(t, cands[0].EstimatedOverchargeUSD, "differing amounts leave no explicit arithmetic")
}

func TestDetectDuplicateFacilityFee_OutpatientERContextSkips(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateFacilityFee)
	d := doc("FACILITY FEE - ER $350.00\nFACILITY FEE - ER $350.00\nTreated and released same day")

	assert.Empty(t, detectDuplicateFacilityFee(rule, d))
}

func TestDetectUnbundledSupplies(t *testing.T) {
	rule := cat.Get(catalog.RuleUnbundledSupplies)
	d := doc("SURGICAL GLOVES $45.00\nLACERATION REPAIR (12001) $500.00")

	cands := detectUnbundledSupplies(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 90, cands[0].Confidence)
	require.NotNil(t, cands[0].EstimatedOverchargeUSD)
	assert.Equal(t, 45.00, *cands[0].EstimatedOverchargeUSD)
}

func TestDetectUnbundledSupplies_ImplantBlocks(t *testing.T) {
	rule := cat.Get(catalog.RuleUnbundledSupplies)
	d := doc("GLOVES FOR IMPLANT PLACEMENT $45.00\nKNEE PROCEDURE (27447) $30,000.00")

	assert.Empty(t, detectUnbundledSupplies(rule, d))
}

func TestDetectUnbundledSupplies_NeedsProcedureLine(t *testing.T) {
	rule := cat.Get(catalog.RuleUnbundledSupplies)
	d := doc("SURGICAL GLOVES $45.00\nGAUZE $12.00")

	assert.Empty(t, detectUnbundledSupplies(rule, d))
}

func TestDetectSevereUpcoding(t *testing.T) {
	rule := cat.Get(catalog.RuleSevereUpcoding)
	d := doc("ER LEVEL 5 VISIT (99285) $2,500.00\nER LEVEL 2 VISIT RATE $800.00\nTreatment: simple x-ray, treated and released")

	cands := detectSevereUpcoding(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 85, cands[0].Confidence)
	require.NotNil(t, cands[0].EstimatedOverchargeUSD)
	assert.Equal(t, 1700.00, *cands[0].EstimatedOverchargeUSD, "overcharge is the explicit difference")
}

func TestDetectSevereUpcoding_NoLowerLevelPriceNoFlag(t *testing.T) {
	rule := cat.Get(catalog.RuleSevereUpcoding)
	d := doc("ER LEVEL 5 VISIT (99285) $2,500.00\nTreatment: simple x-ray, treated and released")

	assert.Empty(t, detectSevereUpcoding(rule, d), "an uncomputable overcharge is ambiguity, not a weaker flag")
}

func TestDetectSevereUpcoding_NoSimpleCareDocumentationNoFlag(t *testing.T) {
	rule := cat.Get(catalog.RuleSevereUpcoding)
	d := doc("ER LEVEL 5 VISIT (99285) $2,500.00\nER LEVEL 2 VISIT RATE $800.00")

	assert.Empty(t, detectSevereUpcoding(rule, d))
}

func TestDetectPotentialUpcoding(t *testing.T) {
	rule := cat.Get(catalog.RulePotentialUpcoding)
	d := doc("ER LEVEL 3 VISIT $900.00\nTreatment: simple laceration, x-ray taken")

	cands := detectPotentialUpcoding(rule, d)
	require.Len(t, cands, 1)
	assert.Equal(t, 75, cands[0].Confidence)
	assert.Equal(t, domain.SeverityLow, cands[0].Severity)
}

func TestAllBuiltinDetectors_DeclarationOrder(t *testing.T) {
	detectors := AllBuiltinDetectors(cat)
	require.Len(t, detectors, 7)

	for i, d := range detectors {
		assert.Equal(t, i, cat.DeclarationIndex(d.RuleID()))
	}
}

func TestDetectors_EvidenceAlwaysVerbatim(t *testing.T) {
	text := "OFFICE VISIT (99213) 01/15/2024 $150.00\n" +
		"OFFICE VISIT (99213) 01/15/2024 $150.00\n" +
		"ANESTHESIOLOGIST (OUT-OF-NETWORK) $1,200.00\n" +
		"SURGICAL GLOVES $45.00\n" +
		"LACERATION REPAIR (12001) $500.00\n"
	d := doc(text)

	for _, det := range AllBuiltinDetectors(cat) {
		for _, cand := range det.Detect(d) {
			assert.True(t, billtext.ContainsVerbatimLines(text, cand.Evidence),
				"rule %s produced non-verbatim evidence %q", cand.RuleID, cand.Evidence)
		}
	}
}

func TestDetectDuplicateFacilityFee_NonAdjacentLines(t *testing.T) {
	rule := cat.Get(catalog.RuleDuplicateFacilityFee)
	d := doc("FACILITY FEE $350.00\nLAB PANEL (80053) 01/15/2024 $85.00\nFACILITY FEE $350.00")

	cands := detectDuplicateFacilityFee(rule, d)
	require.Len(t, cands, 1)
	assert.True(t, billtext.ContainsVerbatimLines(d.Text, cands[0].Evidence),
		"each evidence line is verbatim even with a line between them")
}

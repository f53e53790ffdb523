package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verity/internal/domain"
)

func validRule(id string) RuleDefinition {
	return RuleDefinition{
		ID:             id,
		Name:           "Rule " + id,
		ErrorType:      "Some Error",
		Tier:           domain.TierHighConfidence,
		Severity:       domain.SeverityHigh,
		BaseConfidence: 90,
		MaxInstances:   1,
	}
}

func TestNew_BuiltinRulesAreValid(t *testing.T) {
	c, err := New(BuiltinRules())
	require.NoError(t, err)
	assert.Len(t, c.Rules(), 7)
}

func TestNew_RejectsEmptyID(t *testing.T) {
	_, err := New([]RuleDefinition{validRule("")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_RejectsDuplicateID(t *testing.T) {
	_, err := New([]RuleDefinition{validRule("R1"), validRule("R1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_RejectsUnknownSeverity(t *testing.T) {
	r := validRule("R1")
	r.Severity = "CRITICAL"
	_, err := New([]RuleDefinition{r})
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_RejectsConfidenceOutOfRange(t *testing.T) {
	r := validRule("R1")
	r.BaseConfidence = 101
	_, err := New([]RuleDefinition{r})
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_RejectsUnknownPreemptTarget(t *testing.T) {
	r := validRule("R1")
	r.Preempts = []string{"R9"}
	_, err := New([]RuleDefinition{r})
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_RejectsSelfPreemption(t *testing.T) {
	r := validRule("R1")
	r.Preempts = []string{"R1"}
	_, err := New([]RuleDefinition{r})
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_RejectsPreemptionCycle(t *testing.T) {
	a := validRule("R1")
	a.Preempts = []string{"R2"}
	b := validRule("R2")
	b.Preempts = []string{"R3"}
	c := validRule("R3")
	c.Preempts = []string{"R1"}

	_, err := New([]RuleDefinition{a, b, c})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}

func TestNew_AcceptsAcyclicPreemptionChain(t *testing.T) {
	a := validRule("R1")
	a.Preempts = []string{"R2", "R3"}
	b := validRule("R2")
	b.Preempts = []string{"R3"}
	c := validRule("R3")

	cat, err := New([]RuleDefinition{a, b, c})
	require.NoError(t, err)
	assert.NotNil(t, cat.Get("R2"))
}

func TestDeclarationIndex(t *testing.T) {
	c, err := New(BuiltinRules())
	require.NoError(t, err)

	assert.Equal(t, 0, c.DeclarationIndex(RuleDuplicateCharge))
	assert.Equal(t, 6, c.DeclarationIndex(RulePotentialUpcoding))
	assert.Equal(t, 7, c.DeclarationIndex("RF999"), "unknown IDs sort last")
}

func TestBuiltin_GateTargetsDeclaredAfterSource(t *testing.T) {
	c := MustBuiltin()
	for _, rule := range c.Rules() {
		for _, target := range rule.Preempts {
			assert.Greater(t, c.DeclarationIndex(target), c.DeclarationIndex(rule.ID),
				"rule %s preempts %s which is declared before it", rule.ID, target)
		}
	}
}

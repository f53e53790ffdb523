package catalog

import (
	"fmt"

	"verity/internal/domain"
)

// RuleDefinition is the immutable metadata for one approved red flag.
type RuleDefinition struct {
	ID             string
	Name           string
	ErrorType      string
	Tier           domain.Tier
	Severity       domain.Severity
	BaseConfidence int
	// MaxInstances caps how many candidates the rule may produce per bill.
	// 0 means unlimited (explicitly multi-instance rules only).
	MaxInstances int
	// Preempts lists rule IDs that must not be evaluated for a bill once this
	// rule's full predicate is satisfied.
	Preempts []string
	// NotesOnly rules never publish findings; matches land in the notes
	// channel when they clear the notes threshold.
	NotesOnly bool
}

// Catalog is the approved, versioned rule set. It is built once at startup and
// never modified afterwards.
type Catalog struct {
	rules []RuleDefinition
	byID  map[string]*RuleDefinition
}

// New validates the definitions and builds a Catalog. Declaration order is
// preserved; it breaks ranking ties downstream. Any structural problem,
// including a cycle in the preemption relation, is fatal.
func New(defs []RuleDefinition) (*Catalog, error) {
	c := &Catalog{
		rules: make([]RuleDefinition, len(defs)),
		byID:  make(map[string]*RuleDefinition, len(defs)),
	}
	copy(c.rules, defs)

	for i := range c.rules {
		r := &c.rules[i]
		if r.ID == "" {
			return nil, fmt.Errorf("%w: rule %d has empty id", domain.ErrCatalogInvalid, i)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rule id %s", domain.ErrCatalogInvalid, r.ID)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("%w: rule %s has unknown severity %q", domain.ErrCatalogInvalid, r.ID, r.Severity)
		}
		if r.Tier < domain.TierHighConfidence || r.Tier > domain.TierInformational {
			return nil, fmt.Errorf("%w: rule %s has invalid tier %d", domain.ErrCatalogInvalid, r.ID, r.Tier)
		}
		if r.BaseConfidence < 0 || r.BaseConfidence > 100 {
			return nil, fmt.Errorf("%w: rule %s has confidence %d outside 0-100", domain.ErrCatalogInvalid, r.ID, r.BaseConfidence)
		}
		if r.MaxInstances < 0 {
			return nil, fmt.Errorf("%w: rule %s has negative instance cap", domain.ErrCatalogInvalid, r.ID)
		}
		c.byID[r.ID] = r
	}

	for i := range c.rules {
		r := &c.rules[i]
		for _, target := range r.Preempts {
			if target == r.ID {
				return nil, fmt.Errorf("%w: rule %s preempts itself", domain.ErrCatalogInvalid, r.ID)
			}
			if _, ok := c.byID[target]; !ok {
				return nil, fmt.Errorf("%w: rule %s preempts unknown rule %s", domain.ErrCatalogInvalid, r.ID, target)
			}
		}
	}

	if cycle := c.findPreemptionCycle(); cycle != "" {
		return nil, fmt.Errorf("%w: preemption cycle through %s", domain.ErrCatalogInvalid, cycle)
	}

	return c, nil
}

// Rules returns the definitions in declaration order.
func (c *Catalog) Rules() []RuleDefinition {
	out := make([]RuleDefinition, len(c.rules))
	copy(out, c.rules)
	return out
}

// Get returns the definition for a rule ID, or nil if unknown.
func (c *Catalog) Get(id string) *RuleDefinition {
	return c.byID[id]
}

// DeclarationIndex returns the declaration position of a rule ID. Unknown IDs
// sort last.
func (c *Catalog) DeclarationIndex(id string) int {
	for i := range c.rules {
		if c.rules[i].ID == id {
			return i
		}
	}
	return len(c.rules)
}

// findPreemptionCycle runs a three-color DFS over the preempts relation and
// returns the ID of a rule on a cycle, or "" if the relation is acyclic.
func (c *Catalog) findPreemptionCycle() string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(c.rules))

	var visit func(id string) string
	visit = func(id string) string {
		color[id] = gray
		for _, next := range c.byID[id].Preempts {
			switch color[next] {
			case gray:
				return next
			case white:
				if hit := visit(next); hit != "" {
					return hit
				}
			}
		}
		color[id] = black
		return ""
	}

	for i := range c.rules {
		id := c.rules[i].ID
		if color[id] == white {
			if hit := visit(id); hit != "" {
				return hit
			}
		}
	}
	return ""
}

package generate

import (
	"fmt"
	"strings"
	"text/template"

	"verity/internal/domain"
)

var appealLetterTmpl = template.Must(template.New("appeal_letter").Parse(strings.TrimSpace(`
Dear Appeals Department,

I am writing to formally appeal the denial of coverage for {{.Service}}.

Your stated reason for denial was: "{{.DenialReason}}". I dispute this determination.

{{.NecessityClause}} Denying coverage in these circumstances is inconsistent with the terms of my plan.

I am requesting that you {{.DesiredOutcome}}. Please reprocess this claim and provide a written response within 30 days, as required by my plan's appeal procedures.

If this appeal is denied, please provide the specific plan language relied upon, the credentials of the reviewer, and instructions for an external review.

Sincerely,
[Member Name]
[Member ID]
`)))

var appealScriptTmpl = template.Must(template.New("appeal_script").Parse(strings.TrimSpace(`
Hi, I'm calling to appeal a denied claim on my account, member ID [MEMBER ID].

The denied service was {{.Service}}, and the denial reason given was "{{.DenialReason}}".

{{.NecessityClause}}

I'd like to start a formal appeal today. What I'm asking for is that you {{.DesiredOutcome}}. Can you confirm the appeal has been opened and give me a reference number?
`)))

type appealVars struct {
	Service         string
	DenialReason    string
	DesiredOutcome  string
	NecessityClause string
}

func necessityClause(u domain.Urgency) string {
	if u == domain.UrgencyEmergency {
		return "This was an emergency situation: I had no reasonable opportunity to choose a provider or obtain prior authorization, and federal surprise-billing protections apply."
	}
	return "The service was medically necessary and was ordered by my treating physician, whose documentation supports this determination."
}

// Appeal renders the appeal letter and phone script for a denied claim.
func Appeal(in *domain.AppealInput) (*domain.AppealContent, error) {
	vars := appealVars{
		Service:         in.Service,
		DenialReason:    in.DenialReason,
		DesiredOutcome:  in.DesiredOutcome,
		NecessityClause: necessityClause(in.Urgency),
	}

	var letter, script strings.Builder
	if err := appealLetterTmpl.Execute(&letter, vars); err != nil {
		return nil, fmt.Errorf("rendering appeal letter: %w", err)
	}
	if err := appealScriptTmpl.Execute(&script, vars); err != nil {
		return nil, fmt.Errorf("rendering appeal script: %w", err)
	}
	return &domain.AppealContent{Letter: letter.String(), Script: script.String()}, nil
}

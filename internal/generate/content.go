package generate

import (
	"fmt"
	"strings"

	"verity/internal/domain"
)

// Fixed texts for a clean bill.
const (
	CleanPriorityStep = "No action required. This bill appears accurate."
	CleanNextStep     = "Payment is due as listed."
	CleanPhoneScript  = "No dispute needed."
	CleanLetter       = "No dispute letter needed."
)

// HighValueWarning is the escalated step injected into the action plan when a
// high-value bill shows almost no insurance adjustment.
const HighValueWarning = "CRITICAL WARNING: This bill exceeds the high-value threshold with minimal insurance adjustment. Do not pay until you have requested a full itemized statement and confirmed your insurance has processed the claim."

// FormatUSD renders a dollar amount with thousands separators, e.g. $2,847.50.
func FormatUSD(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "$" + b.String() + frac
}

// overchargeLabel renders a finding's overcharge, or a neutral label when the
// amount could not be derived from the bill.
func overchargeLabel(f *domain.Finding) string {
	if f.EstimatedOverchargeUSD == nil {
		return "amount shown on the bill"
	}
	return FormatUSD(*f.EstimatedOverchargeUSD)
}

// ActionPlan builds the dispute steps for a flagged bill. highValue prepends
// the escalated warning as the first priority step.
func ActionPlan(findings []domain.Finding, highValue bool) domain.ActionPlan {
	if len(findings) == 0 {
		plan := domain.ActionPlan{
			PrioritySteps: []string{CleanPriorityStep},
			NextStepFocus: CleanNextStep,
		}
		if highValue {
			plan.PrioritySteps = append([]string{HighValueWarning}, plan.PrioritySteps...)
		}
		return plan
	}

	steps := make([]string, 0, len(findings)+2)
	if highValue {
		steps = append(steps, HighValueWarning)
	}
	steps = append(steps, fmt.Sprintf(
		"Contact the billing department within 30 days and reference the %d identified issue(s)", len(findings)))
	for i := range findings {
		f := &findings[i]
		steps = append(steps, fmt.Sprintf(
			"Request a corrected bill for the %s (%s)", strings.ToLower(f.ErrorType), overchargeLabel(f)))
	}

	top := &findings[0]
	return domain.ActionPlan{
		PrioritySteps: steps,
		NextStepFocus: fmt.Sprintf(
			"Call the billing department and address the %s first", strings.ToLower(top.ErrorType)),
	}
}

var ordinals = []string{"First", "Second", "Third"}

func ordinal(i int) string {
	if i < len(ordinals) {
		return ordinals[i]
	}
	return "Next"
}

// totalOvercharge sums the calculable overcharges; nil amounts count as zero.
func totalOvercharge(findings []domain.Finding) float64 {
	var sum float64
	for i := range findings {
		if findings[i].EstimatedOverchargeUSD != nil {
			sum += *findings[i].EstimatedOverchargeUSD
		}
	}
	return sum
}

// PhoneScript builds a ready-to-read script for calling the billing
// department about the findings.
func PhoneScript(findings []domain.Finding) string {
	if len(findings) == 0 {
		return CleanPhoneScript
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"Hi, I'm calling about my bill, account [ACCOUNT NUMBER]. I have %d charge(s) I need to dispute, and I have a summary here. Can I walk you through them?\n\n",
		len(findings))
	for i := range findings {
		f := &findings[i]
		amount := "the charge"
		if f.EstimatedOverchargeUSD != nil {
			amount = FormatUSD(*f.EstimatedOverchargeUSD)
		}
		fmt.Fprintf(&b, "%s issue: %s for %s. %s\n\n", ordinal(i), amount, strings.ToLower(f.ErrorType), f.Summary)
	}
	fmt.Fprintf(&b, "Total I'm disputing: %s. Can you help me get these corrected?", FormatUSD(totalOvercharge(findings)))
	return b.String()
}

// DisputeLetter builds a ready-to-send dispute letter from the findings.
func DisputeLetter(findings []domain.Finding) string {
	if len(findings) == 0 {
		return CleanLetter
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear [Hospital/Provider Name] Billing,\n\n")
	fmt.Fprintf(&b, "I'm writing about my bill from [DATE RANGE] (Account: [ACCOUNT NUMBER]).\n\n")
	fmt.Fprintf(&b, "I found %d charge(s) that need to be corrected:\n\n", len(findings))
	for i := range findings {
		f := &findings[i]
		amount := "Unknown Amount"
		if f.EstimatedOverchargeUSD != nil {
			amount = FormatUSD(*f.EstimatedOverchargeUSD)
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n   %s\n   Evidence from the bill: %s\n\n", i+1, f.ErrorType, amount, f.Summary, f.Evidence)
	}
	fmt.Fprintf(&b, "Total to remove: %s\n\n", FormatUSD(totalOvercharge(findings)))
	fmt.Fprintf(&b, "Please send me a corrected bill. If you believe any of these charges are correct, please explain why in writing.\n\n")
	fmt.Fprintf(&b, "Thank you,\n[Patient Name]\n[ACCOUNT NUMBER]")
	return b.String()
}

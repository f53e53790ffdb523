package redflag

import (
	"regexp"
	"strings"

	"verity/internal/billtext"
	"verity/internal/domain"
)

// Marker sets are the exact textual conditions from the approved rule
// definitions. Matching is case-insensitive; short markers like "ER" match on
// word boundaries only.
var (
	facilityFeeMarkers = []string{"facility fee", "facility charge"}
	erMarkers          = []string{"emergency room", "emergency department"}
	dischargeMarkers   = []string{"treated and released", "same day", "same-day", "outpatient"}
	inpatientMarkers   = []string{"admitted", "inpatient", "hospital stay"}

	outOfNetworkMarkers = []string{"out-of-network", "out of network", "non-participating", "non-par"}
	consentMarkers      = []string{"patient consent obtained", "no surprises act protection applies"}

	routineSupplyMarkers = []string{"gloves", "gauze", "dressing", "gown", "saline", "alcohol wipe", "tape"}
	implantMarkers       = []string{"implant", "prosthetic"}

	highLevelRe   = regexp.MustCompile(`(?i)\b(?:er\s+)?level\s*[45]\b`)
	lowLevelRe    = regexp.MustCompile(`(?i)\b(?:er\s+)?level\s*[123]\b`)
	midLevelRe    = regexp.MustCompile(`(?i)\b(?:er\s+)?level\s*[23]\b`)
	erWordRe      = regexp.MustCompile(`(?i)\bER\b`)
	procedureRe   = regexp.MustCompile(`(?i)\b(procedure|visit|exam|repair|suture|injection|x-ray|cpt)\b`)
	simpleCareRe  = regexp.MustCompile(`(?i)\b(x-ray|blood pressure|released same day|treated and released|basic check|simple)\b`)
)

// hasERContext reports whether the text mentions an emergency visit, either by
// full phrase or by the standalone token "ER".
func hasERContext(text string) bool {
	if _, ok := billtext.ContainsAny(text, erMarkers); ok {
		return true
	}
	return erWordRe.MatchString(text)
}

// snippet trims a raw line for use as evidence. Trimming is whitespace-only,
// keeping the verbatim-substring invariant intact.
func snippet(lines ...string) string {
	trimmed := make([]string, 0, len(lines))
	for _, l := range lines {
		trimmed = append(trimmed, strings.TrimSpace(l))
	}
	return strings.Join(trimmed, "\n")
}

// codeOrNil returns a pointer to the CPT-shaped code found on the evidence
// line, or nil. Codes are only ever taken from the text itself.
func codeOrNil(line billtext.ChargeLine) *string {
	if line.Code == "" {
		return nil
	}
	c := line.Code
	return &c
}

// usd converts explicit cents into the wire dollar amount.
func usd(cents int64) *float64 {
	v := float64(cents) / 100
	return &v
}

// firstLineWith returns the first parsed line matching pred.
func firstLineWith(doc *domain.BillDocument, pred func(billtext.ChargeLine) bool) (billtext.ChargeLine, bool) {
	for _, line := range billtext.ParseLines(doc.Text) {
		if pred(line) {
			return line, true
		}
	}
	return billtext.ChargeLine{}, false
}

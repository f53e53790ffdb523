package billtext

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	amountRe = regexp.MustCompile(`\$\s*([0-9][0-9,]*)\.([0-9]{2})`)
	cptRe    = regexp.MustCompile(`\b[0-9]{5}\b`)
	dateRe   = regexp.MustCompile(`\b([0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4}|[0-9]{4}-[0-9]{2}-[0-9]{2})\b`)
	leaderRe = regexp.MustCompile(`\.{2,}`)
)

// ChargeLine is one parsed line of bill text. Only values written explicitly
// on the line are populated; a line without a dollar amount has HasAmount
// false, never an estimate.
type ChargeLine struct {
	Raw         string
	Description string
	Code        string
	Date        string
	AmountCents int64
	HasAmount   bool
}

// ParseAmountCents parses the first explicit "$d,ddd.dd" amount in s.
func ParseAmountCents(s string) (int64, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	dollars, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	cents, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, false
	}
	return dollars*100 + cents, true
}

// ParseLines splits bill text into charge lines, skipping blank lines. Raw is
// the untrimmed original line so snippets built from it stay verbatim.
func ParseLines(text string) []ChargeLine {
	var out []ChargeLine
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line := ChargeLine{Raw: raw}
		if cents, ok := ParseAmountCents(raw); ok {
			line.AmountCents = cents
			line.HasAmount = true
		}
		line.Code = cptRe.FindString(raw)
		line.Date = dateRe.FindString(raw)
		line.Description = describe(raw)
		out = append(out, line)
	}
	return out
}

// describe trims dot leaders, amounts, dates, codes, and parentheticals off a
// line to recover the human-readable charge description.
func describe(raw string) string {
	s := amountRe.ReplaceAllString(raw, " ")
	s = leaderRe.ReplaceAllString(s, " ")
	s = dateRe.ReplaceAllString(s, " ")
	s = cptRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("(", " ", ")", " ").Replace(s)
	return Normalize(s)
}

// HasChargeContent reports whether the text contains anything interpretable as
// a billed charge: at least one line with an explicit dollar amount. Texts
// that fail this check cannot be audited and short-circuit to a parse error.
func HasChargeContent(text string) bool {
	for _, line := range ParseLines(text) {
		if line.HasAmount {
			return true
		}
	}
	return false
}

// totalMarkers identify lines that state the bill total.
var totalMarkers = []string{"total bill", "total billed", "total amount", "amount due", "balance due", "total charges", "grand total"}

// adjustmentMarkers identify lines that state insurance adjustments/payments.
var adjustmentMarkers = []string{"adjustment", "insurance payment", "insurance paid", "plan paid", "contractual"}

// TotalBillCents scans for an explicitly stated bill total. When several total
// lines appear, the largest wins (subtotals are smaller than the grand total).
func TotalBillCents(text string) (int64, bool) {
	var best int64
	found := false
	for _, line := range ParseLines(text) {
		if !line.HasAmount {
			continue
		}
		if _, ok := ContainsAny(line.Raw, totalMarkers); !ok {
			continue
		}
		if !found || line.AmountCents > best {
			best = line.AmountCents
			found = true
		}
	}
	return best, found
}

// AdjustmentCents sums the explicitly stated adjustment and insurance-payment
// amounts.
func AdjustmentCents(text string) int64 {
	var sum int64
	for _, line := range ParseLines(text) {
		if !line.HasAmount {
			continue
		}
		if _, ok := ContainsAny(line.Raw, adjustmentMarkers); ok {
			sum += line.AmountCents
		}
	}
	return sum
}

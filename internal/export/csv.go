package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"verity/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for an audit report.
var columns = []string{
	"Rule ID",
	"Error Type",
	"Charge Item",
	"Severity",
	"Confidence",
	"Estimated Overcharge (USD)",
	"Suspicious Code",
	"Summary",
	"Evidence",
}

// CSVWriter wraps csv.Writer for exporting audit findings.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteFindings converts findings to CSV rows and writes them.
func (w *CSVWriter) WriteFindings(findings []domain.Finding) error {
	for i := range findings {
		if err := w.csv.Write(findingToRow(&findings[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary appends a blank spacer and the audit summary rows.
func (w *CSVWriter) WriteSummary(s *domain.AuditSummary) error {
	rows := [][]string{
		make([]string, len(columns)),
		{"Status", s.Status},
		{"Total Bill Amount", formatOptMoney(s.TotalBillAmount)},
		{"Estimated Savings", formatMoney(s.EstimatedSavings)},
		{"Confidence Level", strconv.Itoa(s.ConfidenceLevel)},
	}
	for _, row := range rows {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func findingToRow(f *domain.Finding) []string {
	row := make([]string, len(columns))
	row[0] = f.RuleID
	row[1] = f.ErrorType
	row[2] = f.ChargeItem
	row[3] = string(f.Severity)
	row[4] = strconv.Itoa(f.Confidence)
	row[5] = formatOptMoney(f.EstimatedOverchargeUSD)
	if f.SuspiciousCode != nil {
		row[6] = *f.SuspiciousCode
	}
	row[7] = f.Summary
	row[8] = f.Evidence
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return formatMoney(*v)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), time.Now().Format("2006-01-02"), ext)
}

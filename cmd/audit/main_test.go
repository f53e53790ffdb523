package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, text string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bill.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--input", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunAudit_CleanBill(t *testing.T) {
	out, err := runCLI(t, "OFFICE VISIT (99213) 01/15/2024 $150.00")

	require.NoError(t, err)
	assert.Contains(t, out, `"status":"clean"`)
}

func TestRunAudit_PolicyErrorReturnsSentinel(t *testing.T) {
	out, err := runCLI(t, "thank you for choosing our hospital")

	assert.ErrorIs(t, err, errAuditFailed, "policy outcomes surface as the sentinel, not an exit inside RunE")
	assert.Contains(t, out, "unable_to_parse")
}

func TestRunAudit_LowOCRConfidence(t *testing.T) {
	out, err := runCLI(t, "OFFICE VISIT (99213) 01/15/2024 $150.00", "--ocr-confidence", "30")

	assert.ErrorIs(t, err, errAuditFailed)
	assert.Contains(t, out, "low_ocr_confidence")
}

package billtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a\t b \n c  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestContains_CaseInsensitive(t *testing.T) {
	assert.True(t, Contains("FACILITY FEE - ER", "facility fee"))
	assert.False(t, Contains("professional fee", "facility fee"))
}

func TestContainsAny_ReturnsFirstMatch(t *testing.T) {
	m, ok := ContainsAny("ER Level 4 visit", []string{"urgent care", "er level"})
	require.True(t, ok)
	assert.Equal(t, "er level", m)

	_, ok = ContainsAny("office visit", []string{"urgent care", "er level"})
	assert.False(t, ok)
}

func TestContainsVerbatim(t *testing.T) {
	text := "FACILITY FEE - ER........... $350.00\nSUTURE KIT    $120.00"

	assert.True(t, ContainsVerbatim(text, "FACILITY FEE - ER........... $350.00"))
	assert.True(t, ContainsVerbatim(text, "SUTURE KIT $120.00"), "whitespace runs collapse")
	assert.False(t, ContainsVerbatim(text, "FACILITY FEE - ED"), "paraphrased snippet rejected")
	assert.False(t, ContainsVerbatim(text, ""), "empty snippet is never verbatim")
}

func TestContainsVerbatimLines(t *testing.T) {
	text := "FACILITY FEE $350.00\nLAB PANEL (80053) 01/15/2024 $85.00\nFACILITY FEE $350.00"

	assert.True(t, ContainsVerbatimLines(text, "FACILITY FEE $350.00\nFACILITY FEE $350.00"),
		"evidence lines need not be adjacent on the bill")
	assert.True(t, ContainsVerbatimLines(text, "LAB PANEL (80053) 01/15/2024 $85.00"))
	assert.False(t, ContainsVerbatimLines(text, "FACILITY FEE $350.00\nPROFESSIONAL FEE $100.00"),
		"every snippet must appear")
	assert.False(t, ContainsVerbatimLines(text, ""))
	assert.False(t, ContainsVerbatimLines(text, "\n\n"))
}

func TestParseAmountCents(t *testing.T) {
	cents, ok := ParseAmountCents("CT SCAN $2,847.50")
	require.True(t, ok)
	assert.Equal(t, int64(284750), cents)

	cents, ok = ParseAmountCents("FEE $ 350.00")
	require.True(t, ok)
	assert.Equal(t, int64(35000), cents)

	_, ok = ParseAmountCents("no amount here")
	assert.False(t, ok)

	_, ok = ParseAmountCents("qty 350")
	assert.False(t, ok, "bare numbers are not dollar amounts")
}

func TestParseLines(t *testing.T) {
	text := "CT SCAN HEAD (70450) 01/15/2024 $2,847.50\n\nNOTES ONLY LINE\n"
	lines := ParseLines(text)
	require.Len(t, lines, 2)

	assert.Equal(t, "70450", lines[0].Code)
	assert.Equal(t, "01/15/2024", lines[0].Date)
	assert.True(t, lines[0].HasAmount)
	assert.Equal(t, int64(284750), lines[0].AmountCents)
	assert.Equal(t, "CT SCAN HEAD", lines[0].Description)

	assert.False(t, lines[1].HasAmount)
	assert.Empty(t, lines[1].Code)
}

func TestHasChargeContent(t *testing.T) {
	assert.True(t, HasChargeContent("SUTURE KIT $120.00"))
	assert.False(t, HasChargeContent("thank you for visiting our hospital"))
	assert.False(t, HasChargeContent(""))
}

func TestTotalBillCents(t *testing.T) {
	text := "SUBTOTAL: $500.00\nTOTAL AMOUNT DUE: $1,250.00\nTOTAL CHARGES: $1,100.00"
	total, ok := TotalBillCents(text)
	require.True(t, ok)
	assert.Equal(t, int64(125000), total, "largest total marker wins")

	_, ok = TotalBillCents("SUTURE KIT $120.00")
	assert.False(t, ok)
}

func TestAdjustmentCents(t *testing.T) {
	text := "INSURANCE PAYMENT $200.00\nCONTRACTUAL ADJUSTMENT $150.00\nSUTURE KIT $120.00"
	assert.Equal(t, int64(35000), AdjustmentCents(text))
	assert.Zero(t, AdjustmentCents("SUTURE KIT $120.00"))
}

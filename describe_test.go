package xlcull

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Batch(t *testing.T) {
	jf, err := ParseJobFile([]byte(teamReportsJob))
	require.NoError(t, err)

	output := jf.Describe()
	assert.Contains(t, output, "Job: purchase_data.xlsx!Accounting (header row 1)")
	assert.Contains(t, output, "Protected rows: 1-3")
	assert.Contains(t, output, "Keep rows where (AND):")
	assert.Contains(t, output, "Team Code: v == key")
	assert.Contains(t, output, "G: =C{row}*E{row} [format id:44]")
	assert.Contains(t, output, "Copies (2, 2 at a time):")

	want := filepath.Join("reports", "Team 07 Expense Verification Report.xlsx")
	assert.Contains(t, output, "7: "+want+" [07_expense_verif]")
}

func TestDescribe_SingleJob(t *testing.T) {
	jf, err := ParseJobFile([]byte(`
source: in.xlsx
sheet: Data
header_row: 2
protected_rows: [7]
output: out.xlsx
`))
	require.NoError(t, err)

	output := jf.Describe()
	assert.Contains(t, output, "Protected rows: 1-2, 7")
	assert.Contains(t, output, "Keep rows: all")
	assert.NotContains(t, output, "Formulas:")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, "    out.xlsx [Data]", lines[len(lines)-1])
}

func TestDescribeRanges(t *testing.T) {
	assert.Equal(t, "1-3, 7", describeRanges([]Range{{1, 3}, {7, 7}}))
	assert.Empty(t, describeRanges(nil))
}

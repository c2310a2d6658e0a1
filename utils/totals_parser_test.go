package utils

import (
	"testing"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTotals(t *testing.T) {
	text := `
Agent Production Report
Production for Jane Doe
123 Main St  Closed  $250,000
Total 12 $500,000 $7,947,900
`

	records := ParseTotals(text)

	require.Len(t, records, 1)
	assert.Equal(t, dto.AgentTotal{Agent: "Jane Doe", Transactions: 12, SoldVolume: 7947900}, records[0])
}

func TestParseTotalsNoSections(t *testing.T) {
	records := ParseTotals("Total 3 $1 $2\nnothing to see here\n")

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Empty(t, RankTotals("", nil))
	assert.NotNil(t, RankTotals("", nil))
}

func TestParseTotalsAbandonedSection(t *testing.T) {
	text := "Production for Ghost Agent\nsome listing\nProduction for Real Agent\nTotal 2 $10 $20\nProduction for Trailing Agent\n"

	records := ParseTotals(text)

	require.Len(t, records, 1)
	assert.Equal(t, "Real Agent", records[0].Agent)
}

func TestParseTotalsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"non numeric count", "Total twelve $500,000 $7,947,900"},
		{"malformed dollars", "Total 12 $500,000 $7,9x7,900"},
		{"too few tokens", "Total 12 $500,000"},
		{"cents", "Total 12 $500,000 $7,947,900.50"},
		{"negative count", "Total -1 $500,000 $7,947,900"},
		{"empty volume", "Total 1 $500,000 $"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "Production for Jane Doe\n" + tt.line + "\nTotal 1 $1 $5\n"

			assert.NotPanics(t, func() {
				records := ParseTotals(text)
				// the section is consumed by the bad line, so the second Total has no agent
				assert.Empty(t, records)
			})
		})
	}
}

func TestParseTotalsSectionTerminatesOnce(t *testing.T) {
	text := "Production for Jane Doe\nTotal 1 $1 $100\nTotal 2 $2 $200\n"

	records := ParseTotals(text)

	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].SoldVolume)
}

func TestParseTotalsIndentedTotalAndCRLF(t *testing.T) {
	text := "Production for  Jane Doe  \r\n    Total 4 $10,000 $1,234\r\n"

	records := ParseTotals(text)

	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Agent)
	assert.Equal(t, 4, records[0].Transactions)
	assert.Equal(t, int64(1234), records[0].SoldVolume)
}

func TestParseTotalsHeaderWithoutName(t *testing.T) {
	text := "Production for Alice\nProduction for    \nTotal 3 $1 $500\nProduction for Bob\nTotal 1 $1 $20\n"

	records := ParseTotals(text)

	require.Len(t, records, 1)
	assert.Equal(t, dto.AgentTotal{Agent: "Bob", Transactions: 1, SoldVolume: 20}, records[0])
}

func TestParseTotalsLineBoundaries(t *testing.T) {
	tests := []struct {
		name string
		sep  string
	}{
		{"lone carriage return", "\r"},
		{"form feed", "\f"},
		{"vertical tab", "\v"},
		{"next line", "\u0085"},
		{"line separator", "\u2028"},
		{"paragraph separator", "\u2029"},
		{"file separator", "\x1c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "Production for Jane Doe" + tt.sep + "Total 4 $10,000 $1,234" + tt.sep

			records := ParseTotals(text)

			require.Len(t, records, 1)
			assert.Equal(t, "Jane Doe", records[0].Agent)
			assert.Equal(t, int64(1234), records[0].SoldVolume)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b", "c"}, splitLines("a\r\n\nb\fc"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\r\n"))
	assert.Empty(t, splitLines(""))
}

func TestBuildRankedTableStableSort(t *testing.T) {
	records := []dto.AgentTotal{
		{Agent: "A", Transactions: 1, SoldVolume: 100},
		{Agent: "B", Transactions: 2, SoldVolume: 500},
		{Agent: "C", Transactions: 3, SoldVolume: 100},
		{Agent: "D", Transactions: 4, SoldVolume: 300},
	}

	table := BuildRankedTable(records, nil)

	var volumes []int64
	var agents []string
	for _, row := range table {
		volumes = append(volumes, row.SoldVolume)
		agents = append(agents, row.Agent)
	}
	assert.Equal(t, []int64{500, 300, 100, 100}, volumes)
	assert.Equal(t, []string{"B", "D", "A", "C"}, agents)
}

func TestBuildRankedTableAppliesFixes(t *testing.T) {
	records := []dto.AgentTotal{
		{Agent: "Ry an   Preston", SoldVolume: 10},
		{Agent: `Bob\nCount List Smith`, SoldVolume: 5},
		{Agent: "ry an preston", SoldVolume: 1},
	}
	fixes := dto.NameFixes{"Ry an Preston": "Ryan Preston", "Ryan Preston": "Wrong"}

	table := BuildRankedTable(records, fixes)

	require.Len(t, table, 3)
	assert.Equal(t, "Ryan Preston", table[0].Agent)
	assert.Equal(t, "Bob Smith", table[1].Agent)
	assert.Equal(t, "ry an preston", table[2].Agent)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Jane Doe", CleanName(`  Jane\nDoe `))
	assert.Equal(t, "Jane Doe", CleanName("Jane Count List Doe"))
	assert.Equal(t, "Jane Doe", CleanName("Jane \t Doe"))
	assert.Equal(t, "", CleanName("   "))
}

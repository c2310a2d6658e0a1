package service

import (
	"bytes"
	"testing"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/utils"
	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildReportPDF writes each page's lines top to bottom, one text run per line
func buildReportPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 11)
	for _, lines := range pages {
		doc.AddPage()
		for i, line := range lines {
			doc.Text(50, float64(72+i*18), line)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

// buildCellReportPDF lays each agent out as a header cell followed by one
// table row with a cell per Total token
func buildCellReportPDF(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()
	agents := []struct {
		name  string
		cells []string
	}{
		{"Jane Doe", []string{"Total", "12", "$500,000", "$7,947,900"}},
		{"John Roe", []string{"Total", "3", "$90,000", "$1,200,000"}},
	}
	for _, a := range agents {
		doc.CellFormat(0, 16, "Production for "+a.name, "", 1, "L", false, 0, "")
		doc.CellFormat(80, 16, "Agent", "1", 0, "L", false, 0, "")
		doc.CellFormat(80, 16, "Count", "1", 1, "L", false, 0, "")
		for i, cell := range a.cells {
			ln := 0
			if i == len(a.cells)-1 {
				ln = 1
			}
			doc.CellFormat(90, 16, cell, "1", ln, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func wantCellReport() dto.RankedTable {
	return dto.RankedTable{
		{Agent: "Jane Doe", Transactions: 12, SoldVolume: 7947900},
		{Agent: "John Roe", Transactions: 3, SoldVolume: 1200000},
	}
}

func TestExtractTextRejectsUnreadableDocuments(t *testing.T) {
	processor := NewPDFProcessor()

	inputs := map[string][]byte{
		"empty.pdf":     nil,
		"notes.pdf":     []byte("just some plain text, definitely not a pdf"),
		"truncated.pdf": []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"),
	}

	for name, data := range inputs {
		text, err := processor.ExtractText(name, data, "")

		var readErr *dto.DocumentReadError
		require.ErrorAs(t, err, &readErr, name)
		assert.Equal(t, name, readErr.Document)
		assert.Contains(t, err.Error(), name)
		assert.Empty(t, text)
	}
}

func TestExtractTextPreservesPagesAndLines(t *testing.T) {
	data := buildReportPDF(t,
		[]string{"Production for Jane Doe", "Total 12 $500,000 $7,947,900"},
		[]string{},
		[]string{"Production for John Roe", "Total 3 $90,000 $1,200,000"},
	)

	text, err := NewPDFProcessor().ExtractText("report.pdf", data, "")
	require.NoError(t, err)

	assert.Contains(t, text, "Production for Jane Doe\n")
	assert.Contains(t, text, "Total 12 $500,000 $7,947,900")
	assert.True(t, bytes.Count([]byte(text), []byte("\n")) >= 3)

	table := utils.RankTotals(text, nil)
	require.Len(t, table, 2)
	assert.Equal(t, dto.AgentTotal{Agent: "Jane Doe", Transactions: 12, SoldVolume: 7947900}, table[0])
	assert.Equal(t, dto.AgentTotal{Agent: "John Roe", Transactions: 3, SoldVolume: 1200000}, table[1])
}

func TestExtractTextBlankPagesOnlyContributeNewlines(t *testing.T) {
	data := buildReportPDF(t, []string{}, []string{})

	text, err := NewPDFProcessor().ExtractText("blank.pdf", data, "")

	require.NoError(t, err)
	assert.Equal(t, "\n\n", text)
}

func TestExtractTextCellLayout(t *testing.T) {
	text, err := NewPDFProcessor().ExtractText("cells.pdf", buildCellReportPDF(t), "")
	require.NoError(t, err)

	assert.Contains(t, text, "Production for Jane Doe\n")
	assert.Equal(t, wantCellReport(), utils.RankTotals(text, nil))
}

func TestExtractTextEncryptedDocument(t *testing.T) {
	var encrypted bytes.Buffer
	conf := model.NewAESConfiguration("userpw", "ownerpw", 256)
	require.NoError(t, api.Encrypt(bytes.NewReader(buildCellReportPDF(t)), &encrypted, conf))

	processor := NewPDFProcessor()

	t.Run("correct password", func(t *testing.T) {
		text, err := processor.ExtractText("locked.pdf", encrypted.Bytes(), "userpw")
		require.NoError(t, err)
		assert.Equal(t, wantCellReport(), utils.RankTotals(text, nil))
	})

	t.Run("wrong password", func(t *testing.T) {
		text, err := processor.ExtractText("locked.pdf", encrypted.Bytes(), "guess")

		var readErr *dto.DocumentReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "locked.pdf", readErr.Document)
		assert.Contains(t, err.Error(), "failed to decrypt PDF")
		assert.Empty(t, text)
	})
}

func TestWalkPageRecoversFromPanic(t *testing.T) {
	assert.Equal(t, "", walkPage(func() string { panic("bad content stream") }))
	assert.Equal(t, "Total 1 $1 $1", walkPage(func() string { return "Total 1 $1 $1" }))
}

func TestGroupRows(t *testing.T) {
	texts := []pdf.Text{
		{S: "$1", X: 200, Y: 700},
		{S: "Production for Jane", X: 50, Y: 720},
		{S: "Total", X: 50, Y: 700.5},
		{S: "12", X: 120, Y: 699.8},
		{S: "", X: 10, Y: 650},
	}

	rows := groupRows(texts)

	require.Len(t, rows, 2)
	assert.Equal(t, "Production for Jane", joinRow(rows[0]))
	assert.Equal(t, "Total 12 $1", joinRow(rows[1]))
}

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name string
		runs []pdf.Text
		want string
	}{
		{
			name: "separately positioned runs",
			runs: []pdf.Text{{S: "Total", X: 10}, {S: "12", X: 60}, {S: "$1", X: 90}},
			want: "Total 12 $1",
		},
		{
			name: "fragments sharing an origin",
			runs: []pdf.Text{{S: "Pro", X: 10}, {S: "duction", X: 10}},
			want: "Production",
		},
		{
			name: "runs that carry their own spaces",
			runs: []pdf.Text{{S: "Production ", X: 10}, {S: "for Jane", X: 80}},
			want: "Production for Jane",
		},
		{
			name: "measured runs close together",
			runs: []pdf.Text{{S: "Ja", X: 10, W: 10, FontSize: 10}, {S: "ne", X: 20.5, W: 10, FontSize: 10}},
			want: "Jane",
		},
		{
			name: "measured runs far apart",
			runs: []pdf.Text{{S: "Jane", X: 10, W: 20, FontSize: 10}, {S: "Doe", X: 34, W: 15, FontSize: 10}},
			want: "Jane Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinRow(tt.runs))
		})
	}
}

package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/utils"
	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	xlsxSheet     = "Rankings"
	pdfFontFamily = "report"
)

var reportHeader = []string{"Agent", "Transactions", "Sold Volume"}

// PDF column widths in points
var pdfColumnWidths = []float64{260, 110, 160}

var contentTypes = map[dto.ExportFormat]string{
	dto.FormatCSV:  "text/csv",
	dto.FormatPDF:  "application/pdf",
	dto.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ReportTable is the display form of a ranked table, shared by the PDF and XLSX writers
type ReportTable struct {
	Header []string
	Rows   [][]string
	Total  []string

	TotalTransactions int
	TotalSoldVolume   int64
}

// BuildReportTable formats every row and appends the TOTAL summary
func BuildReportTable(table dto.RankedTable) ReportTable {
	rt := ReportTable{
		Header:            reportHeader,
		Rows:              make([][]string, 0, len(table)),
		TotalTransactions: table.TotalTransactions(),
		TotalSoldVolume:   table.TotalSoldVolume(),
	}
	for _, row := range table {
		rt.Rows = append(rt.Rows, []string{row.Agent, strconv.Itoa(row.Transactions), FormatDollars(row.SoldVolume)})
	}
	rt.Total = []string{"TOTAL", strconv.Itoa(rt.TotalTransactions), FormatDollars(rt.TotalSoldVolume)}
	return rt
}

// FormatDollars renders 7947900 as "$7,947,900"
func FormatDollars(v int64) string {
	return "$" + humanize.Comma(v)
}

// ReportTitle is the heading printed on PDF and XLSX exports
func ReportTitle(displayName string) string {
	return fmt.Sprintf("%s – Agent Rankings (with Totals)", displayName)
}

type ExportService struct {
	logger *slog.Logger
	now    func() time.Time

	// TrueType fonts embedded in PDF exports so agent names keep their accents
	fontRegular []byte
	fontBold    []byte
}

func NewExportService(logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		logger:      logger,
		now:         time.Now,
		fontRegular: goregular.TTF,
		fontBold:    gobold.TTF,
	}
}

// WithPDFFont replaces the embedded Go fonts with ttf for scripts they do not
// cover, such as CJK names. The same face is used for bold cells.
func (s *ExportService) WithPDFFont(ttf []byte) *ExportService {
	if len(ttf) > 0 {
		s.fontRegular = ttf
		s.fontBold = ttf
	}
	return s
}

// Export renders table in the requested format and names the file after the source document
func (s *ExportService) Export(displayName string, table dto.RankedTable, format dto.ExportFormat) (dto.ExportFile, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case dto.FormatCSV:
		content, err = s.ExportCSV(table)
	case dto.FormatPDF:
		content, err = s.ExportPDF(ReportTitle(displayName), table)
	case dto.FormatXLSX:
		content, err = s.ExportXLSX(ReportTitle(displayName), table)
	default:
		return dto.ExportFile{}, fmt.Errorf("%w: %s", dto.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return dto.ExportFile{}, fmt.Errorf("%s export: %w", format, err)
	}

	return dto.ExportFile{
		Format:      format,
		FileName:    utils.ExportBaseName(displayName) + "." + string(format),
		ContentType: contentTypes[format],
		Content:     content,
	}, nil
}

// ExportCSV writes the header row and one row per agent with plain integer columns
func (s *ExportService) ExportCSV(table dto.RankedTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, row := range table {
		record := []string{
			utils.SanitizeForFormulaInjection(row.Agent),
			strconv.Itoa(row.Transactions),
			strconv.FormatInt(row.SoldVolume, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Debug("export.csv.ok", "rows", len(table))
	return buf.Bytes(), nil
}

// ExportPDF renders a titled landscape table with a TOTAL row
func (s *ExportService) ExportPDF(title string, table dto.RankedTable) ([]byte, error) {
	report := BuildReportTable(table)

	pdf := fpdf.New("L", "pt", "Letter", "")
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", s.fontRegular)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", s.fontBold)
	pdf.SetTitle(title, true)
	pdf.SetCreator("agent-ranking-parser", true)
	pdf.SetCreationDate(s.now())

	pageWidth, _ := pdf.GetPageSize()
	tableWidth := 0.0
	for _, w := range pdfColumnWidths {
		tableWidth += w
	}
	left := (pageWidth - tableWidth) / 2
	pdf.SetMargins(left, 54, left)
	pdf.SetAutoPageBreak(true, 54)
	pdf.AddPage()

	pdf.SetFont(pdfFontFamily, "B", 18)
	pdf.MultiCell(tableWidth, 24, title, "", "C", false)
	pdf.Ln(12)

	const rowHeight = 20
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(0.5)

	// header
	pdf.SetFont(pdfFontFamily, "B", 11)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range report.Header {
		pdf.CellFormat(pdfColumnWidths[i], rowHeight, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFontFamily, "", 10)
	pdf.SetTextColor(0, 0, 0)
	for n, row := range report.Rows {
		if n%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(211, 211, 211)
		}
		for i, cell := range row {
			pdf.CellFormat(pdfColumnWidths[i], rowHeight, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(pdfFontFamily, "B", 10)
	pdf.SetFillColor(211, 211, 211)
	for i, cell := range report.Total {
		pdf.CellFormat(pdfColumnWidths[i], rowHeight, cell, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	s.logger.Debug("export.pdf.ok", "rows", len(table), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// ExportXLSX writes a single "Rankings" sheet with numeric cells and a TOTAL row
func (s *ExportService) ExportXLSX(title string, table dto.RankedTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "agent-ranking-parser"})

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	dollars := "$#,##0"
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dollars})
	if err != nil {
		return nil, err
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &dollars})
	if err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(xlsxSheet, cell, v)
	}

	for i, h := range reportHeader {
		write(i+1, 1, h)
	}
	_ = f.SetCellStyle(xlsxSheet, "A1", "C1", bold)

	row := 2
	for _, r := range table {
		write(1, row, utils.SanitizeForFormulaInjection(r.Agent))
		write(2, row, r.Transactions)
		write(3, row, r.SoldVolume)
		row++
	}
	if len(table) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, row-1)
		_ = f.SetCellStyle(xlsxSheet, "C2", last, money)
	}

	write(1, row, "TOTAL")
	write(2, row, table.TotalTransactions())
	write(3, row, table.TotalSoldVolume())
	first, _ := excelize.CoordinatesToCellName(1, row)
	middle, _ := excelize.CoordinatesToCellName(2, row)
	last, _ := excelize.CoordinatesToCellName(3, row)
	_ = f.SetCellStyle(xlsxSheet, first, middle, bold)
	_ = f.SetCellStyle(xlsxSheet, last, last, boldMoney)

	_ = f.SetColWidth(xlsxSheet, "A", "A", 36)
	_ = f.SetColWidth(xlsxSheet, "B", "C", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Debug("export.xlsx.ok", "rows", len(table))
	return buf.Bytes(), nil
}

package service

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// Runs closer than this fraction of the font size are treated as one word
	wordGapRatio = 0.15
	// Runs whose baselines differ by less than this many points share a line
	rowTolerance = 2.0
)

var pdfSignature = []byte("%PDF-")

type PDFProcessor interface {
	// ExtractText returns the text of every page in order, each page followed by a newline.
	ExtractText(name string, pdfData []byte, password string) (string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) ExtractText(name string, pdfData []byte, password string) (text string, err error) {
	if len(pdfData) == 0 {
		return "", &dto.DocumentReadError{Document: name, Err: errors.New("empty file")}
	}
	if !bytes.Contains(pdfData[:min(len(pdfData), 1024)], pdfSignature) {
		return "", &dto.DocumentReadError{Document: name, Err: errors.New("not a PDF document")}
	}

	if password != "" {
		if pdfData, err = decrypt(pdfData, password); err != nil {
			return "", &dto.DocumentReadError{Document: name, Err: err}
		}
	}

	// ledongthuc/pdf panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &dto.DocumentReadError{Document: name, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", &dto.DocumentReadError{Document: name, Err: err}
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		// a page without a text layer contributes only its newline
		textBuilder.WriteString(pageText(r.Page(pageIndex)))
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// pageText rebuilds the page's visual lines top to bottom
func pageText(page pdf.Page) string {
	return walkPage(func() string {
		if page.V.IsNull() {
			return ""
		}
		rows := groupRows(page.Content().Text)
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinRow(row))
		}
		return strings.Join(lines, "\n")
	})
}

// walkPage runs one page's content walk. A page the reader panics on yields
// no text so the rest of the document is still read.
func walkPage(walk func() string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	return walk()
}

// groupRows buckets runs by baseline, orders rows from the top of the page
// down and each row left to right.
func groupRows(texts []pdf.Text) [][]pdf.Text {
	type row struct {
		y    float64
		runs []pdf.Text
	}

	var rows []row
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].runs = append(rows[i].runs, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: t.Y, runs: []pdf.Text{t}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	out := make([][]pdf.Text, 0, len(rows))
	for _, r := range rows {
		runs := r.runs
		sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })
		out = append(out, runs)
	}
	return out
}

// joinRow rebuilds one visual line from its positioned text runs
func joinRow(runs []pdf.Text) string {
	var sb strings.Builder
	for i, run := range runs {
		if i > 0 && needsSpace(runs[i-1], run) {
			sb.WriteByte(' ')
		}
		sb.WriteString(run.S)
	}
	return sb.String()
}

func needsSpace(prev, next pdf.Text) bool {
	if endsWithSpace(prev.S) || startsWithSpace(next.S) {
		return false
	}
	if prev.W > 0 {
		gap := next.X - (prev.X + prev.W)
		return gap > prev.FontSize*wordGapRatio
	}
	// Fonts without a Widths array never advance the pen, so glyphs of one
	// string share an origin while separately positioned strings do not.
	return next.X != prev.X
}

func endsWithSpace(s string) bool {
	if s == "" {
		return true
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return true
}

// decrypt strips encryption with pdfcpu so the text reader can open the document
func decrypt(pdfData []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(pdfData), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to decrypt PDF: %w", err)
	}
	return out.Bytes(), nil
}

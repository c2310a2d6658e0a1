package dto

// AgentTotal is one parsed "Total" line of a "Production for <Agent>" section
type AgentTotal struct {
	Agent        string `json:"agent"`
	Transactions int    `json:"transactions"`
	SoldVolume   int64  `json:"sold_volume"`
}

// RankedTable holds agent totals ordered by sold volume, highest first
type RankedTable []AgentTotal

// TotalTransactions sums the transaction counts of every row
func (t RankedTable) TotalTransactions() int {
	total := 0
	for _, row := range t {
		total += row.Transactions
	}
	return total
}

// TotalSoldVolume sums the sold volume of every row
func (t RankedTable) TotalSoldVolume() int64 {
	var total int64
	for _, row := range t {
		total += row.SoldVolume
	}
	return total
}

// NameFixes maps a malformed agent name to its corrected spelling
type NameFixes map[string]string

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) Valid() bool {
	switch f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return true
	}
	return false
}

// DefaultFormats are attached to every successful document when the caller asks for nothing else
var DefaultFormats = []ExportFormat{FormatCSV, FormatPDF}

// UploadedDocument is a single PDF handed to the ranking pipeline
type UploadedDocument struct {
	Name     string
	Data     []byte
	Password string
}

type DocumentStatus string

const (
	StatusOK    DocumentStatus = "ok"
	StatusEmpty DocumentStatus = "empty"
	StatusError DocumentStatus = "error"
)

// ExportFile is a rendered export ready for download
type ExportFile struct {
	Format      ExportFormat `json:"format"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	Content     []byte       `json:"content"`
}

type DocumentResult struct {
	Name    string         `json:"name"`
	Status  DocumentStatus `json:"status"`
	Message string         `json:"message,omitempty"`
	Table   RankedTable    `json:"table"`
	Exports []ExportFile   `json:"exports,omitempty"`
}

type BatchResult struct {
	Documents   []DocumentResult `json:"documents"`
	Warnings    []string         `json:"warnings,omitempty"`
	ProcessedAt string           `json:"processed_at"`
}

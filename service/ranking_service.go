package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/logger"
	"github.com/Aashish23092/agent-ranking-parser/utils"
)

const noTotalsMessage = "No agent totals found in this PDF."

type RankingService struct {
	pdfProcessor PDFProcessor
	exporter     *ExportService
	now          func() time.Time
}

func NewRankingService(pdfProcessor PDFProcessor, exporter *ExportService) *RankingService {
	if exporter == nil {
		exporter = NewExportService(nil)
	}
	return &RankingService{
		pdfProcessor: pdfProcessor,
		exporter:     exporter,
		now:          time.Now,
	}
}

// RankDocument extracts and ranks one PDF. It returns dto.ErrNoTotals when the
// document is readable but has no agent sections.
func (s *RankingService) RankDocument(ctx context.Context, doc dto.UploadedDocument, fixes dto.NameFixes) (dto.RankedTable, error) {
	log := logger.FromContext(ctx)

	text, err := s.pdfProcessor.ExtractText(doc.Name, doc.Data, doc.Password)
	if err != nil {
		var readErr *dto.DocumentReadError
		if !errors.As(err, &readErr) {
			err = &dto.DocumentReadError{Document: doc.Name, Err: err}
		}
		return dto.RankedTable{}, err
	}

	table := utils.RankTotals(text, fixes)
	log.Info("document ranked", "document", doc.Name, "agents", len(table), "text_bytes", len(text))

	if len(table) == 0 {
		return table, dto.ErrNoTotals
	}
	return table, nil
}

// ProcessDocument runs one document end to end. Failures are reported in the
// result instead of being returned.
func (s *RankingService) ProcessDocument(ctx context.Context, doc dto.UploadedDocument, fixes dto.NameFixes, formats []dto.ExportFormat) dto.DocumentResult {
	log := logger.FromContext(ctx)
	name := utils.SanitizeDisplayName(doc.Name)
	result := dto.DocumentResult{Name: name, Table: dto.RankedTable{}}

	table, err := s.RankDocument(ctx, doc, fixes)
	switch {
	case errors.Is(err, dto.ErrNoTotals):
		result.Status = dto.StatusEmpty
		result.Message = noTotalsMessage
		return result
	case err != nil:
		log.Warn("document failed", "document", name, "error", err)
		result.Status = dto.StatusError
		result.Message = fmt.Sprintf("Error processing %s: %v", name, err)
		return result
	}

	result.Status = dto.StatusOK
	result.Table = table
	for _, format := range formats {
		file, err := s.exporter.Export(name, table, format)
		if err != nil {
			log.Error("export failed", "document", name, "format", format, "error", err)
			result.Status = dto.StatusError
			result.Message = fmt.Sprintf("Error exporting %s: %v", name, err)
			result.Exports = nil
			return result
		}
		result.Exports = append(result.Exports, file)
	}
	return result
}

// ProcessBatch ranks each document independently and in order. A failing
// document never affects the others; a cancelled context marks the rest as failed.
func (s *RankingService) ProcessBatch(ctx context.Context, docs []dto.UploadedDocument, fixesJSON string, formats []dto.ExportFormat) dto.BatchResult {
	log := logger.FromContext(ctx)
	batch := dto.BatchResult{Documents: make([]dto.DocumentResult, 0, len(docs))}

	fixes, err := utils.ParseNameFixes(fixesJSON)
	if err != nil {
		log.Warn("ignoring name fixes", "error", err)
		batch.Warnings = append(batch.Warnings, err.Error())
	}

	start := s.now()
	for _, doc := range docs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			batch.Documents = append(batch.Documents, dto.DocumentResult{
				Name:    utils.SanitizeDisplayName(doc.Name),
				Status:  dto.StatusError,
				Message: ctxErr.Error(),
				Table:   dto.RankedTable{},
			})
			continue
		}
		batch.Documents = append(batch.Documents, s.ProcessDocument(ctx, doc, fixes, formats))
	}

	batch.ProcessedAt = s.now().UTC().Format(time.RFC3339)
	log.Info("batch processed", "documents", len(docs), "elapsed_ms", s.now().Sub(start).Milliseconds())
	return batch
}

// Exporter returns the export service used for successful documents
func (s *RankingService) Exporter() *ExportService { return s.exporter }

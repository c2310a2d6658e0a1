package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/logger"
	"github.com/Aashish23092/agent-ranking-parser/service"
	"github.com/Aashish23092/agent-ranking-parser/utils"
	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingService *service.RankingService
	maxFiles       int
	maxFileSize    int64
}

func NewRankingHandler(rankingService *service.RankingService, maxFiles int, maxFileSize int64) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
		maxFiles:       maxFiles,
		maxFileSize:    maxFileSize,
	}
}

// RankDocuments handles the POST /rankings endpoint
func (h *RankingHandler) RankDocuments(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse multipart form", err)
		return
	}

	formats, err := dto.ParseFormats(c.PostForm("formats"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported export format", err)
		return
	}

	passwords, err := dto.ParsePasswords(c.PostForm("passwords"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "passwords must be a JSON object of file name to password", err)
		return
	}

	request := &dto.RankingRequest{
		Files:     form.File["files[]"],
		NameFixes: c.PostForm("name_fixes"),
		Formats:   formats,
		Passwords: passwords,
	}
	if err := request.Validate(h.maxFiles, h.maxFileSize); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	log.Info("processing ranking batch", "files", len(request.Files))

	docs := make([]dto.UploadedDocument, 0, len(request.Files))
	for _, fh := range request.Files {
		doc, err := readUpload(fh)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read uploaded file", err)
			return
		}
		doc.Password = request.Passwords[fh.Filename]
		docs = append(docs, doc)
	}

	result := h.rankingService.ProcessBatch(c.Request.Context(), docs, request.NameFixes, request.Formats)
	c.JSON(http.StatusOK, result)
}

// ExportDocument handles the POST /rankings/export endpoint and streams a single export file
func (h *RankingHandler) ExportDocument(c *gin.Context) {
	format := dto.ExportFormat(c.DefaultQuery("format", string(dto.FormatCSV)))
	if !format.Valid() {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported export format", fmt.Errorf("%w: %q", dto.ErrUnsupportedFormat, format))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", err)
		return
	}
	request := &dto.RankingRequest{Files: []*multipart.FileHeader{fh}}
	if err := request.Validate(1, h.maxFileSize); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	doc, err := readUpload(fh)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read uploaded file", err)
		return
	}
	doc.Password = c.PostForm("password")

	fixes, fixErr := utils.ParseNameFixes(c.PostForm("name_fixes"))
	if fixErr != nil {
		c.Header("X-Warning", fixErr.Error())
	}

	table, err := h.rankingService.RankDocument(c.Request.Context(), doc, fixes)
	var readErr *dto.DocumentReadError
	switch {
	case errors.Is(err, dto.ErrNoTotals):
		sendError(c, http.StatusUnprocessableEntity, "NO_TOTALS", "No agent totals found in this PDF.", nil)
		return
	case errors.As(err, &readErr):
		sendError(c, http.StatusBadRequest, "DOCUMENT_READ_FAILED", "Failed to read document", err)
		return
	case err != nil:
		sendError(c, http.StatusInternalServerError, "RANKING_FAILED", "Failed to rank document", err)
		return
	}

	file, err := h.rankingService.Exporter().Export(utils.SanitizeDisplayName(doc.Name), table, format)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export rankings", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func readUpload(fh *multipart.FileHeader) (dto.UploadedDocument, error) {
	f, err := fh.Open()
	if err != nil {
		return dto.UploadedDocument{}, fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return dto.UploadedDocument{}, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}
	return dto.UploadedDocument{Name: fh.Filename, Data: data}, nil
}

package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

// RankingRequest represents the incoming batch upload
type RankingRequest struct {
	Files     []*multipart.FileHeader
	NameFixes string
	Formats   []ExportFormat
	// Passwords maps an uploaded file name to the password that opens it
	Passwords map[string]string
}

// Validate performs basic validation on the request
func (r *RankingRequest) Validate(maxFiles int, maxFileSize int64) error {
	if len(r.Files) == 0 {
		return errors.New("at least one PDF file is required")
	}
	if maxFiles > 0 && len(r.Files) > maxFiles {
		return fmt.Errorf("too many files: %d (max %d)", len(r.Files), maxFiles)
	}
	for _, f := range r.Files {
		if !strings.HasSuffix(strings.ToLower(f.Filename), ".pdf") {
			return fmt.Errorf("invalid file type for %s. Supported: PDF", f.Filename)
		}
		if maxFileSize > 0 && f.Size > maxFileSize {
			return fmt.Errorf("file %s exceeds the %d byte limit", f.Filename, maxFileSize)
		}
	}
	return nil
}

// ParseFormats turns a comma separated list such as "csv,pdf" into export formats.
// An empty list yields DefaultFormats.
func ParseFormats(raw string) ([]ExportFormat, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]ExportFormat(nil), DefaultFormats...), nil
	}
	var formats []ExportFormat
	seen := make(map[ExportFormat]bool)
	for _, part := range strings.Split(raw, ",") {
		f := ExportFormat(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, part)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

type SessionRequest struct {
	Password string `json:"password" binding:"required"`
}

// ParsePasswords decodes the optional {"file.pdf": "password"} form field
func ParsePasswords(raw string) (map[string]string, error) {
	passwords := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return passwords, nil
	}
	if err := json.Unmarshal([]byte(raw), &passwords); err != nil {
		return nil, err
	}
	return passwords, nil
}

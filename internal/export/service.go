package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/idcard-intake/internal/identity"
)

// SheetName is the worksheet holding intake rows.
const SheetName = "Intake"

// Row is one scanned card. Record is always written redacted.
type Row struct {
	Path          string
	HashHex       string
	Record        identity.Record
	Provenance    identity.Provenance
	OCRConfidence float32
	Duplicate     bool
	Err           string
}

// Service produces XLSX intake sheets.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var headers = []string{
	"File",
	"First Name",
	"Last Name",
	"Date of Birth",
	"Gender",
	"Phone",
	"Masked Identifier",
	"Confidence Tier",
	"OCR Confidence",
	"Name Source",
	"Identifier Source",
	"Duplicate",
	"Error",
}

// IntakeSheetXLSX returns an XLSX workbook (as bytes) with one row per card.
// Raw identifiers never reach the sheet.
func (s *Service) IntakeSheetXLSX(ctx context.Context, rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := r.Record.Redacted()
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, r.Path)
		if r.Err == "" {
			write(2, rec.FirstName)
			write(3, rec.LastName)
			write(4, deref(rec.DateOfBirth))
			if rec.Gender != nil {
				write(5, string(*rec.Gender))
			}
			write(6, deref(rec.Phone))
			write(7, deref(rec.MaskedIdentifier))
			write(8, string(rec.ConfidenceTier))
			write(9, fmt.Sprintf("%.2f", r.OCRConfidence))
			write(10, string(r.Provenance.Name))
			write(11, string(r.Provenance.Identifier))
		}
		if r.Duplicate {
			write(12, "yes")
		}
		if r.Err != "" {
			write(13, truncate(r.Err, 140))
		}
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 48) // path
	_ = f.SetColWidth(SheetName, "B", "C", 18) // names
	_ = f.SetColWidth(SheetName, "D", "E", 14)
	_ = f.SetColWidth(SheetName, "F", "G", 18) // phone, masked id
	_ = f.SetColWidth(SheetName, "M", "M", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

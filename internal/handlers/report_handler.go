package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketreport/internal/common"
	"github.com/ternarybob/marketreport/internal/interfaces"
	"github.com/ternarybob/marketreport/internal/models"
	"github.com/ternarybob/marketreport/internal/services/report"
)

// maxPayloadBytes caps the request body size for report generation
const maxPayloadBytes = 10 << 20 // 10 MB

// ReportHandler handles HTTP requests for PDF report generation
type ReportHandler struct {
	reportService interfaces.ReportService
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService interfaces.ReportService, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// GeneratePDFHandler handles POST /api/generate-pdf.
// It accepts a JSON report payload and streams back the rendered PDF.
func (h *ReportHandler) GeneratePDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	requestID := common.NewRequestID()
	w.Header().Set("X-Request-ID", requestID)
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		h.logger.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("Failed to read request body")
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) > maxPayloadBytes {
		WriteError(w, http.StatusRequestEntityTooLarge, "Payload exceeds maximum size")
		return
	}
	if len(body) == 0 {
		WriteError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	var payload models.ReportPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("Malformed report payload")
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Malformed JSON payload: %v", err))
		return
	}

	if err := h.validate.Struct(&payload); err != nil {
		h.logger.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("Report payload failed validation")
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid payload: %v", err))
		return
	}

	pdfBytes, result, err := h.reportService.GenerateReport(&payload)
	if err != nil {
		var malformed *report.MalformedInputError
		if errors.As(err, &malformed) {
			WriteError(w, http.StatusBadRequest, malformed.Error())
			return
		}
		h.logger.Error().
			Str("request_id", requestID).
			Err(err).
			Msg("Report generation failed")
		WriteError(w, http.StatusInternalServerError, "Report generation failed")
		return
	}

	dateText := payload.ReportDate
	if dateText == "" {
		dateText = time.Now().Format("2006-01-02")
	}
	filename := fmt.Sprintf("Market_Report_%s.pdf", dateText)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("Failed to write PDF response")
		return
	}

	h.logger.Info().
		Str("request_id", requestID).
		Int("pages", result.Pages).
		Int("sections", len(result.Sections)).
		Int("pdf_size", len(pdfBytes)).
		Dur("duration", time.Since(start)).
		Msg("Report generated")
}

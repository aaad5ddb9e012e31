package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketreport/internal/interfaces"
	"github.com/ternarybob/marketreport/internal/models"
	"github.com/ternarybob/marketreport/internal/services/report"
)

func newTestReportHandler() *ReportHandler {
	logger := arbor.NewLogger()
	svc := report.NewService(report.Options{MinTableRows: 3}, logger)
	return NewReportHandler(svc, logger)
}

func TestGeneratePDFHandler(t *testing.T) {
	handler := newTestReportHandler()

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantPDF    bool
	}{
		{
			name:       "Valid Payload",
			method:     http.MethodPost,
			body:       `{"report_date":"2025-11-07","report_title":"Nasdaq Daily","action_items":["Trim risk"]}`,
			wantStatus: http.StatusOK,
			wantPDF:    true,
		},
		{
			name:       "Empty Object Payload",
			method:     http.MethodPost,
			body:       `{}`,
			wantStatus: http.StatusOK,
			wantPDF:    true,
		},
		{
			name:       "Malformed JSON",
			method:     http.MethodPost,
			body:       `{"report_date": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid Date Format",
			method:     http.MethodPost,
			body:       `{"report_date":"11/07/2025"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Empty Body",
			method:     http.MethodPost,
			body:       "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Wrong Method",
			method:     http.MethodGet,
			body:       "",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/generate-pdf", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.GeneratePDFHandler(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantPDF {
				assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
				body := rec.Body.Bytes()
				require.GreaterOrEqual(t, len(body), 4)
				assert.Equal(t, "%PDF", string(body[:4]))
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGeneratePDFHandlerFilename(t *testing.T) {
	handler := newTestReportHandler()

	body := `{"report_date":"2025-11-07"}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate-pdf", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.GeneratePDFHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Market_Report_2025-11-07.pdf")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGeneratePDFHandlerOversizedPayload(t *testing.T) {
	handler := newTestReportHandler()

	big := bytes.Repeat([]byte("a"), maxPayloadBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/api/generate-pdf", bytes.NewReader(big))
	rec := httptest.NewRecorder()

	handler.GeneratePDFHandler(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// failingService always errors, for the 500 path.
type failingService struct{}

func (failingService) GenerateReport(*models.ReportPayload) ([]byte, *interfaces.RenderResult, error) {
	return nil, nil, assert.AnError
}

func TestGeneratePDFHandlerServiceFailure(t *testing.T) {
	handler := NewReportHandler(failingService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-pdf", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.GeneratePDFHandler(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPIHandlerEndpoints(t *testing.T) {
	handler := NewAPIHandler()

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.HealthHandler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("Version", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		rec := httptest.NewRecorder()
		handler.VersionHandler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "version")
	})

	t.Run("Index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.IndexHandler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "generate-pdf")
	})

	t.Run("Unknown Path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		handler.IndexHandler(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketreport/internal/models"
)

func newTestService() *Service {
	return NewService(Options{
		MinTableRows:   3,
		Disclaimer:     "For informational purposes only.",
		ValidateOutput: true,
	}, arbor.NewLogger())
}

func TestGenerateReportNilPayload(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.GenerateReport(nil)
	require.Error(t, err)

	var malformed *MalformedInputError
	assert.True(t, errors.As(err, &malformed))
}

func TestGenerateReportDefaults(t *testing.T) {
	svc := newTestService()

	pdfBytes, result, err := svc.GenerateReport(&models.ReportPayload{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.Pages, 1)
	assert.Empty(t, result.Sections)
}

func TestGenerateReportFromJSON(t *testing.T) {
	raw := `{
		"report_date": "2025-11-07",
		"report_title": "Nasdaq Daily Report",
		"top_movers": {
			"1": {"symbol": "NVDA", "price": 905.5, "change_pct": "+4.2", "reason": "AI demand"},
			"2": {"symbol": "AMD", "price": 164.2, "change_pct": -1.1},
			"3": {"symbol": "TSLA", "price": 244.0, "change_pct": 2.8}
		},
		"action_items": ["Trim risk", "Watch CPI"]
	}`
	var payload models.ReportPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	svc := newTestService()
	pdfBytes, result, err := svc.GenerateReport(&payload)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)

	movers := result.Section(SectionTopMovers)
	require.NotNil(t, movers)
	assert.Equal(t, 3, movers.TableRows)

	items := result.Section(SectionActionItems)
	require.NotNil(t, items)
	assert.Equal(t, 2, items.Bullets)

	// Sections absent from the payload never render
	assert.Nil(t, result.Section(SectionVIXTermStructure))
	assert.Nil(t, result.Section(SectionMacroDashboard))
}

func TestGenerateReportPageSizes(t *testing.T) {
	for _, size := range []string{"", "Letter", "A4", "Legal"} {
		t.Run("size "+size, func(t *testing.T) {
			svc := NewService(Options{PageSize: size}, arbor.NewLogger())
			pdfBytes, _, err := svc.GenerateReport(fullPayload())
			require.NoError(t, err)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestServiceIsSafeForConcurrentUse(t *testing.T) {
	svc := newTestService()
	payload := fullPayload()

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, _, err := svc.GenerateReport(payload)
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		assert.NoError(t, <-done)
	}
}

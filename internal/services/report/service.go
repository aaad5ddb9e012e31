package report

import (
	"bytes"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketreport/internal/interfaces"
	"github.com/ternarybob/marketreport/internal/models"
)

// Options tunes document generation. Zero values fall back to defaults.
type Options struct {
	DefaultTitle   string
	PageSize       string // fpdf page size name, "Letter" when empty
	MinTableRows   int
	Disclaimer     string
	ValidateOutput bool // structural check of the produced bytes via pdfcpu
}

// Service implements interfaces.ReportService. It holds only read-only
// state (styles, options); every request gets its own document, so
// concurrent generations never share mutable state.
type Service struct {
	logger   arbor.ILogger
	styles   *Styles
	composer *Composer
	opts     Options
}

// Compile-time assertion
var _ interfaces.ReportService = (*Service)(nil)

// NewService creates the report generation service.
func NewService(opts Options, logger arbor.ILogger) *Service {
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = "Market Daily Report"
	}
	styles := DefaultStyles()
	composer := NewComposer(styles, logger, opts.MinTableRows, opts.Disclaimer)
	composer.pageSize = opts.PageSize
	return &Service{
		logger:   logger,
		styles:   styles,
		composer: composer,
		opts:     opts,
	}
}

// GenerateReport renders the payload into a PDF byte stream.
func (s *Service) GenerateReport(payload *models.ReportPayload) ([]byte, *interfaces.RenderResult, error) {
	if payload == nil {
		return nil, nil, &MalformedInputError{Reason: "payload is nil"}
	}

	meta := Meta{
		Title:       payload.ReportTitle,
		DateText:    payload.ReportDate,
		GeneratedAt: time.Now(),
	}
	if meta.Title == "" {
		meta.Title = s.opts.DefaultTitle
	}
	if meta.DateText == "" {
		meta.DateText = meta.GeneratedAt.Format("2006-01-02")
	}

	s.logger.Debug().
		Str("title", meta.Title).
		Str("report_date", meta.DateText).
		Msg("Generating report PDF")

	pdfBytes, result, err := s.composer.Render(payload, meta)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, nil, err
	}

	if s.opts.ValidateOutput {
		conf := model.NewDefaultConfiguration()
		if verr := api.Validate(bytes.NewReader(pdfBytes), conf); verr != nil {
			// The caller still gets the document; validation is advisory.
			s.logger.Warn().Err(verr).Msg("Generated PDF failed pdfcpu validation")
		}
	}

	s.logger.Debug().
		Int("pdf_size", len(pdfBytes)).
		Int("pages", result.Pages).
		Int("sections", len(result.Sections)).
		Msg("Report PDF generated successfully")

	return pdfBytes, result, nil
}

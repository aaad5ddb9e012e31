// -----------------------------------------------------------------------
// Report Service Interface - Compose a market report payload into a PDF
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/marketreport/internal/models"

// SectionPlacement records where one report section landed during layout.
// Page indexes are 1-based. FirstContentPage equals HeadingPage whenever the
// keep-together constraint held (it always should, short of a section whose
// first block alone exceeds a full page).
type SectionPlacement struct {
	Name             string `json:"name"`
	HeadingPage      int    `json:"heading_page"`
	FirstContentPage int    `json:"first_content_page"`
	TableRows        int    `json:"table_rows"`
	Bullets          int    `json:"bullets"`
}

// RenderResult summarizes a completed layout pass: total page count and the
// per-section placements. It exists so callers and tests can verify layout
// invariants without parsing the PDF byte stream.
type RenderResult struct {
	Pages    int                `json:"pages"`
	Sections []SectionPlacement `json:"sections"`
}

// Section returns the placement for a named section, nil if the section was
// not rendered.
func (r *RenderResult) Section(name string) *SectionPlacement {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// ReportService generates a paginated PDF from a validated report payload.
type ReportService interface {
	// GenerateReport renders the payload into a PDF byte stream. The
	// RenderResult describes the produced layout. Only malformed input is
	// fatal; section-level problems degrade to an omitted section.
	GenerateReport(payload *models.ReportPayload) ([]byte, *RenderResult, error)
}

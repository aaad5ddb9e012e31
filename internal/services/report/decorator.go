package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	headerBandHeight = 12.7
	footerBandHeight = 10.0
)

// decorator draws the repeating header band, footer band and page numbers.
// It runs as a second pass over the finished layout: the content pass fixes
// the total page count, then every page is revisited with the total known,
// so no mutable counter is consulted mid-draw.
type decorator struct {
	styles *Styles
	meta   Meta
}

func newDecorator(styles *Styles, meta Meta) *decorator {
	return &decorator{styles: styles, meta: meta}
}

// Apply stamps every page. Bands live entirely in the margin areas and
// never consume body flow space.
func (dec *decorator) Apply(pdf *fpdf.Fpdf) {
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	total := pdf.PageCount()
	w, h := pdf.GetPageSize()
	timestamp := "Generated " + dec.meta.GeneratedAt.Format("2006-01-02 15:04 MST")

	for page := 1; page <= total; page++ {
		pdf.SetPage(page)

		// Header band: title left, report date right
		band := dec.styles.HeaderBand
		pdf.SetFillColor(band[0], band[1], band[2])
		pdf.Rect(0, 0, w, headerBandHeight, "F")

		txt := dec.styles.HeaderBandText
		pdf.SetTextColor(txt[0], txt[1], txt[2])
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(pageMarginSide, 3)
		pdf.CellFormat(w/2, 7, tr(dec.meta.Title), "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(w/2, 3)
		pdf.CellFormat(w/2-pageMarginSide, 7, tr(dec.meta.DateText), "", 0, "R", false, 0, "")

		// Footer band: generation timestamp left, page number right
		band = dec.styles.FooterBand
		pdf.SetFillColor(band[0], band[1], band[2])
		pdf.Rect(0, h-footerBandHeight, w, footerBandHeight, "F")

		txt = dec.styles.FooterText
		pdf.SetTextColor(txt[0], txt[1], txt[2])
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(pageMarginSide, h-7)
		pdf.CellFormat(w/2, 4, tr(timestamp), "", 0, "L", false, 0, "")

		pdf.SetXY(w/2, h-7)
		pdf.CellFormat(w/2-pageMarginSide, 4, fmt.Sprintf("Page %d of %d", page, total), "", 0, "R", false, 0, "")
	}
}

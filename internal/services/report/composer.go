package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketreport/internal/interfaces"
	"github.com/ternarybob/marketreport/internal/models"
)

// Page geometry: business letter with fixed margins, header and footer
// bands drawn in the margin areas only.
const (
	pageMarginSide   = 12.7
	pageMarginTop    = 19.0
	pageMarginBottom = 16.0
)

// Composer assembles section flows into a paginated document. It is
// stateless across requests; all per-request state lives in the Doc.
type Composer struct {
	styles       *Styles
	logger       arbor.ILogger
	minTableRows int
	disclaimer   string
	pageSize     string // fpdf size name, "Letter" when empty
}

// NewComposer builds a composer around the shared style registry.
// minTableRows is the smallest number of data rows that may sit below a
// table header before a page break; fewer requests a clean page start.
func NewComposer(styles *Styles, logger arbor.ILogger, minTableRows int, disclaimer string) *Composer {
	if minTableRows < 1 {
		minTableRows = 3
	}
	return &Composer{
		styles:       styles,
		logger:       logger,
		minTableRows: minTableRows,
		disclaimer:   disclaimer,
	}
}

// Meta carries the per-document header/footer text.
type Meta struct {
	Title       string
	DateText    string
	GeneratedAt time.Time
}

// Compose runs every section renderer in the canonical order and collects
// the non-empty sections. A renderer panic is contained: the section is
// omitted and the rest of the document is unaffected.
func (c *Composer) Compose(p *models.ReportPayload) []Section {
	sections := make([]Section, 0, len(sectionRenderers))
	for _, r := range sectionRenderers {
		els := c.renderSection(r, p)
		if len(els) == 0 {
			continue
		}
		sections = append(sections, Section{Name: r.name, Title: r.title, Elements: els})
	}
	return sections
}

func (c *Composer) renderSection(r sectionRenderer, p *models.ReportPayload) (els []Element) {
	defer func() {
		if rec := recover(); rec != nil {
			err := &SectionRenderError{Section: r.name, Err: fmt.Errorf("%v", rec)}
			c.logger.Warn().Err(err).Str("section", r.name).Msg("Section failed to render, omitting")
			els = nil
		}
	}()
	return r.render(p)
}

// Render lays out the composed sections into a PDF and applies the page
// decorations in a second pass once the total page count is known.
func (c *Composer) Render(p *models.ReportPayload, meta Meta) ([]byte, *interfaces.RenderResult, error) {
	sections := c.Compose(p)

	size := c.pageSize
	if size == "" {
		size = "Letter"
	}
	pdf := fpdf.New("P", "mm", size, "")
	pdf.SetMargins(pageMarginSide, pageMarginTop, pageMarginSide)
	pdf.SetAutoPageBreak(true, pageMarginBottom)
	pdf.AddPage()
	d := newDoc(pdf, c.styles)

	c.drawTitleBlock(d, meta)

	result := &interfaces.RenderResult{}
	for i, sec := range sections {
		if i > 0 {
			c.drawSeparator(d)
		}
		result.Sections = append(result.Sections, c.drawSection(d, sec))
	}

	if c.disclaimer != "" {
		c.drawDisclaimer(d)
	}

	dec := newDecorator(c.styles, meta)
	dec.Apply(pdf)

	result.Pages = pdf.PageCount()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("failed to produce PDF output: %w", err)
	}
	return buf.Bytes(), result, nil
}

func (c *Composer) drawTitleBlock(d *Doc, meta Meta) {
	Heading{Text: meta.Title, Role: RoleTitle}.Draw(d)
	Paragraph{Role: RoleBody, Runs: []Run{
		{Text: "Report Date:", Bold: true},
		{Text: meta.DateText},
	}}.Draw(d)
	Spacer{H: 4}.Draw(d)
}

// drawSeparator draws the inter-section rule, moving to a fresh page first
// when the rule would land in the last sliver of the current one. The rule
// itself always draws so every section boundary stays marked.
func (c *Composer) drawSeparator(d *Doc) {
	if d.Remaining() < 20 {
		d.pdf.AddPage()
	}
	Rule{}.Draw(d)
}

// drawSection draws a section heading bound to its first content block
// (keep-with-next) followed by the remaining elements.
func (c *Composer) drawSection(d *Doc, sec Section) interfaces.SectionPlacement {
	heading := Heading{Text: sec.Title, Role: RoleSectionHeader}

	need := heading.Height(d) + c.leadHeight(d, sec.Elements[0])
	if need > d.Remaining() {
		if need > d.UsableHeight() {
			c.logger.Warn().
				Err(&LayoutOverflowError{Section: sec.Name, Height: need}).
				Msg("Keep-with-next block exceeds a full page")
		}
		d.pdf.AddPage()
	}

	placement := interfaces.SectionPlacement{Name: sec.Name, HeadingPage: d.pdf.PageNo()}
	heading.Draw(d)

	for i, el := range sec.Elements {
		if i == 0 {
			// The break decision for the first block was made together with
			// the heading above. Re-deciding it here could move the block to
			// a fresh page and orphan the heading, so the lead draws in
			// place; table rows past the reserved lead break on their own.
			placement.FirstContentPage = d.pdf.PageNo()
			el.Draw(d)
			continue
		}
		c.drawElement(d, sec.Name, el)
	}
	Spacer{H: 2}.Draw(d)

	placement.TableRows, placement.Bullets = countContent(sec.Elements)
	return placement
}

// leadHeight is how much of the first content block must stay with its
// heading: whole element normally, header row plus the minimum row count
// for tables (which may legitimately break mid-table further down).
func (c *Composer) leadHeight(d *Doc, el Element) float64 {
	switch e := el.(type) {
	case Table:
		return e.HeadHeight(d, c.minTableRows)
	case Group:
		if len(e.Children) > 0 {
			if t, ok := e.Children[len(e.Children)-1].(Table); ok {
				h := 0.0
				for _, ch := range e.Children[:len(e.Children)-1] {
					h += ch.Height(d)
				}
				return h + t.HeadHeight(d, c.minTableRows)
			}
		}
		return e.Height(d)
	default:
		return el.Height(d)
	}
}

// drawElement places one element, deciding page breaks from measured
// heights. It returns the page the element started on.
func (c *Composer) drawElement(d *Doc, section string, el Element) int {
	switch e := el.(type) {
	case Group:
		h := e.Height(d)
		if h > d.Remaining() {
			if h <= d.UsableHeight() {
				d.pdf.AddPage()
			} else {
				// Degrade: the group cannot fit any page whole, so split it
				// rather than failing the document.
				c.logger.Warn().
					Err(&LayoutOverflowError{Section: section, Height: h}).
					Msg("Splitting oversized keep-together group")
				first := 0
				for i, ch := range e.Children {
					page := c.drawElement(d, section, ch)
					if i == 0 {
						first = page
					}
				}
				return first
			}
		}
		page := d.pdf.PageNo()
		e.Draw(d)
		return page
	case Table:
		head := e.HeadHeight(d, c.minTableRows)
		if head > d.Remaining() && head <= d.UsableHeight() {
			d.pdf.AddPage()
		}
		page := d.pdf.PageNo()
		e.Draw(d)
		return page
	default:
		h := el.Height(d)
		if h > d.Remaining() && h <= d.UsableHeight() {
			d.pdf.AddPage()
		}
		page := d.pdf.PageNo()
		el.Draw(d)
		return page
	}
}

func (c *Composer) drawDisclaimer(d *Doc) {
	Spacer{H: 6}.Draw(d)
	spec := d.styles.MustStyle(RoleBodySmall)
	if 12 > d.Remaining() {
		d.pdf.AddPage()
	}
	d.pdf.SetFont(spec.Font, "I", spec.Size)
	d.pdf.SetTextColor(spec.Color[0], spec.Color[1], spec.Color[2])
	d.pdf.MultiCell(0, lineHeight(spec.Size), d.tr(c.disclaimer), "", "L", false)
}

// countContent tallies table data rows and bullet entries in a section.
func countContent(els []Element) (rows, bullets int) {
	for _, el := range els {
		switch e := el.(type) {
		case Table:
			rows += len(e.Rows)
		case Bullet:
			bullets++
		case Group:
			r, b := countContent(e.Children)
			rows += r
			bullets += b
		}
	}
	return rows, bullets
}

package report

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

// Tone is the sign-derived color classification of a table cell.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

// Doc wraps the underlying fpdf document with the style registry and the
// cp1252 translator for core fonts. One Doc exists per generation request.
type Doc struct {
	pdf    *fpdf.Fpdf
	styles *Styles
	tr     func(string) string
}

func newDoc(pdf *fpdf.Fpdf, styles *Styles) *Doc {
	return &Doc{
		pdf:    pdf,
		styles: styles,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// ContentWidth is the writable width between the side margins.
func (d *Doc) ContentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	l, _, r, _ := d.pdf.GetMargins()
	return w - l - r
}

// Bottom is the Y coordinate where body content must stop.
func (d *Doc) Bottom() float64 {
	_, h := d.pdf.GetPageSize()
	_, _, _, b := d.pdf.GetMargins()
	return h - b
}

// Remaining is the vertical space left on the current page.
func (d *Doc) Remaining() float64 {
	return d.Bottom() - d.pdf.GetY()
}

// UsableHeight is the body height of a full empty page.
func (d *Doc) UsableHeight() float64 {
	_, h := d.pdf.GetPageSize()
	_, t, _, b := d.pdf.GetMargins()
	return h - t - b
}

// applyStyle sets font and text color for a role and returns its spec.
func (d *Doc) applyStyle(role Role) StyleSpec {
	spec := d.styles.MustStyle(role)
	d.pdf.SetFont(spec.Font, spec.Style, spec.Size)
	d.pdf.SetTextColor(spec.Color[0], spec.Color[1], spec.Color[2])
	return spec
}

// lineHeight converts a font point size to a comfortable line height in mm.
func lineHeight(size float64) float64 {
	return size * 0.55
}

// wrapText word-wraps text to the given width using measured string widths.
// The input must already be translated to the core-font byte encoding and
// the caller must have set the font; widths then come from the single-byte
// metrics, so any character the translator produced is safe to measure.
func wrapText(d *Doc, text string, width float64) []string {
	var lines []string
	for _, hard := range strings.Split(text, "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		spaceW := d.pdf.GetStringWidth(" ")
		current := ""
		currentW := 0.0
		for _, word := range words {
			// Hard-break a word wider than the whole line
			for d.pdf.GetStringWidth(word) > width && len(word) > 1 {
				cut := len(word) - 1
				for cut > 1 && d.pdf.GetStringWidth(word[:cut]) > width {
					cut--
				}
				if current != "" {
					lines = append(lines, current)
					current = ""
					currentW = 0
				}
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			wordW := d.pdf.GetStringWidth(word)
			switch {
			case current == "":
				current = word
				currentW = wordW
			case currentW+spaceW+wordW <= width:
				current += " " + word
				currentW += spaceW + wordW
			default:
				lines = append(lines, current)
				current = word
				currentW = wordW
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// Element is one atomic renderable unit in the document flow. Height must
// agree with what Draw will consume so the composer's break decisions hold.
type Element interface {
	Height(d *Doc) float64
	Draw(d *Doc)
}

// Run is a styled span inside a paragraph.
type Run struct {
	Text string
	Bold bool
}

// Heading is a section or sub-section header line.
type Heading struct {
	Text string
	Role Role
}

func (h Heading) Height(d *Doc) float64 {
	spec := d.applyStyle(h.Role)
	lines := wrapText(d, d.tr(h.Text), d.ContentWidth())
	return float64(len(lines))*lineHeight(spec.Size) + 2
}

func (h Heading) Draw(d *Doc) {
	spec := d.applyStyle(h.Role)
	d.pdf.MultiCell(0, lineHeight(spec.Size), d.tr(h.Text), "", spec.Align, false)
	d.pdf.Ln(2)
}

// Paragraph is flowing body text built from one or more styled runs.
type Paragraph struct {
	Runs []Run
	Role Role
}

// NewParagraph builds a single-run paragraph.
func NewParagraph(text string, role Role) Paragraph {
	return Paragraph{Runs: []Run{{Text: text}}, Role: role}
}

func (p Paragraph) Height(d *Doc) float64 {
	spec := d.styles.MustStyle(p.Role)
	lh := lineHeight(spec.Size)
	width := d.ContentWidth()

	// Simulate the word wrap Write will perform across run boundaries.
	lines := 1
	lineWidth := 0.0
	for _, run := range p.Runs {
		d.pdf.SetFont(spec.Font, runStyle(spec, run), spec.Size)
		spaceW := d.pdf.GetStringWidth(" ")
		for _, word := range strings.Fields(run.Text) {
			wordW := d.pdf.GetStringWidth(d.tr(word))
			switch {
			case lineWidth == 0:
				lineWidth = wordW
			case lineWidth+spaceW+wordW <= width:
				lineWidth += spaceW + wordW
			default:
				lines++
				lineWidth = wordW
			}
		}
	}
	return float64(lines)*lh + 1.5
}

func (p Paragraph) Draw(d *Doc) {
	spec := d.applyStyle(p.Role)
	lh := lineHeight(spec.Size)
	for i, run := range p.Runs {
		d.pdf.SetFont(spec.Font, runStyle(spec, run), spec.Size)
		text := run.Text
		if i > 0 && !strings.HasPrefix(text, " ") {
			text = " " + text
		}
		d.pdf.Write(lh, d.tr(text))
	}
	d.pdf.Ln(lh)
	d.pdf.Ln(1.5)
}

// runStyle merges a run's bold flag into the role's base style.
func runStyle(spec StyleSpec, run Run) string {
	if run.Bold && !strings.Contains(spec.Style, "B") {
		return spec.Style + "B"
	}
	return spec.Style
}

// Bullet is one dashed list entry.
type Bullet struct {
	Text string
}

func (b Bullet) Height(d *Doc) float64 {
	spec := d.applyStyle(RoleBullet)
	lines := wrapText(d, d.tr("- "+b.Text), d.ContentWidth()-6)
	return float64(len(lines))*lineHeight(spec.Size) + 1
}

func (b Bullet) Draw(d *Doc) {
	spec := d.applyStyle(RoleBullet)
	lh := lineHeight(spec.Size)
	l, _, _, _ := d.pdf.GetMargins()
	d.pdf.SetX(l + 3)
	d.pdf.MultiCell(d.ContentWidth()-6, lh, d.tr("- "+b.Text), "", "L", false)
	d.pdf.Ln(1)
}

// Spacer inserts fixed vertical whitespace.
type Spacer struct {
	H float64
}

func (s Spacer) Height(d *Doc) float64 { return s.H }

func (s Spacer) Draw(d *Doc) { d.pdf.Ln(s.H) }

// Rule is the horizontal separator drawn between sections.
type Rule struct{}

func (Rule) Height(d *Doc) float64 { return 5 }

func (Rule) Draw(d *Doc) {
	d.pdf.Ln(2)
	sep := d.styles.Separator
	d.pdf.SetDrawColor(sep[0], sep[1], sep[2])
	d.pdf.SetLineWidth(0.3)
	l, _, r, _ := d.pdf.GetMargins()
	w, _ := d.pdf.GetPageSize()
	y := d.pdf.GetY()
	d.pdf.Line(l, y, w-r, y)
	d.pdf.Ln(3)
}

// Cell is one table cell with its resolved tone.
type Cell struct {
	Text string
	Tone Tone
}

// Table is a row-oriented table: one styled header row plus R data rows.
// Row count is driven entirely by the data; nothing is fixed at five.
type Table struct {
	Header []string
	Rows   [][]Cell
	Zebra  bool
}

const (
	tableCellLine = 4.0
	tableCellPad  = 2.0
	tableMaxLines = 6
	tableMinColW  = 14.0
)

// colWidths computes column widths from measured content, scaled to the
// content width. Same approach as measuring markdown tables: widest cell
// wins, clamped, then proportionally fitted.
func (t Table) colWidths(d *Doc) []float64 {
	numCols := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return nil
	}

	pageWidth := d.ContentWidth()
	widths := make([]float64, numCols)

	header := d.styles.MustStyle(RoleTableHeader)
	d.pdf.SetFont(header.Font, header.Style, header.Size)
	for i, cell := range t.Header {
		if w := d.pdf.GetStringWidth(d.tr(cell)) + 4; w > widths[i] {
			widths[i] = w
		}
	}

	cellSpec := d.styles.MustStyle(RoleTableCell)
	d.pdf.SetFont(cellSpec.Font, cellSpec.Style, cellSpec.Size)
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= numCols {
				continue
			}
			if w := d.pdf.GetStringWidth(d.tr(cell.Text)) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	maxW := pageWidth / 2
	total := 0.0
	for i := range widths {
		if widths[i] < tableMinColW {
			widths[i] = tableMinColW
		}
		if widths[i] > maxW {
			widths[i] = maxW
		}
		total += widths[i]
	}

	// Fit to the page: shrink proportionally when over, stretch when well
	// under so short tables still span the content width.
	if total > pageWidth {
		scale := pageWidth / total
		for i := range widths {
			widths[i] *= scale
		}
	} else if total < pageWidth*0.9 {
		scale := pageWidth / total
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}

// rowHeight measures one row at the given widths.
func (t Table) rowHeight(d *Doc, cells []string, widths []float64, spec StyleSpec) float64 {
	d.pdf.SetFont(spec.Font, spec.Style, spec.Size)
	maxLines := 1
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		lines := len(wrapText(d, d.tr(cell), widths[i]-tableCellPad))
		if lines > maxLines {
			maxLines = lines
		}
	}
	if maxLines > tableMaxLines {
		maxLines = tableMaxLines
	}
	return float64(maxLines)*tableCellLine + tableCellPad
}

func (t Table) rowText(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Text
	}
	return out
}

func (t Table) Height(d *Doc) float64 {
	widths := t.colWidths(d)
	if widths == nil {
		return 0
	}
	h := t.rowHeight(d, t.Header, widths, d.styles.MustStyle(RoleTableHeader))
	cellSpec := d.styles.MustStyle(RoleTableCell)
	for _, row := range t.Rows {
		h += t.rowHeight(d, t.rowText(row), widths, cellSpec)
	}
	return h + 3
}

// HeadHeight measures the header row plus the first n data rows. The
// composer uses it to decide whether a table deserves a clean page start.
func (t Table) HeadHeight(d *Doc, n int) float64 {
	widths := t.colWidths(d)
	if widths == nil {
		return 0
	}
	h := t.rowHeight(d, t.Header, widths, d.styles.MustStyle(RoleTableHeader))
	cellSpec := d.styles.MustStyle(RoleTableCell)
	for i, row := range t.Rows {
		if i >= n {
			break
		}
		h += t.rowHeight(d, t.rowText(row), widths, cellSpec)
	}
	return h
}

func (t Table) Draw(d *Doc) {
	widths := t.colWidths(d)
	if widths == nil {
		return
	}

	headerSpec := d.styles.MustStyle(RoleTableHeader)
	cellSpec := d.styles.MustStyle(RoleTableCell)

	t.drawRow(d, t.Header, nil, widths, headerSpec, true, false)
	for i, row := range t.Rows {
		zebra := t.Zebra && i%2 == 1
		t.drawRow(d, t.rowText(row), row, widths, cellSpec, false, zebra)
	}
	d.pdf.Ln(3)
}

// drawRow renders a single row with per-cell backgrounds, grid borders, tone
// coloring and word wrap. A row that no longer fits moves to the next page
// whole; rows themselves are never split.
func (t Table) drawRow(d *Doc, cells []string, toned []Cell, widths []float64, spec StyleSpec, header, zebra bool) {
	rowH := t.rowHeight(d, cells, widths, spec)
	if d.pdf.GetY()+rowH > d.Bottom() {
		d.pdf.AddPage()
	}

	l, _, _, _ := d.pdf.GetMargins()
	startY := d.pdf.GetY()
	x := l

	grid := d.styles.TableGrid
	d.pdf.SetDrawColor(grid[0], grid[1], grid[2])
	d.pdf.SetLineWidth(0.2)

	for i := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}

		switch {
		case header:
			fill := d.styles.TableHeaderFill
			d.pdf.SetFillColor(fill[0], fill[1], fill[2])
			d.pdf.Rect(x, startY, widths[i], rowH, "FD")
		case zebra:
			fill := d.styles.TableRowFill
			d.pdf.SetFillColor(fill[0], fill[1], fill[2])
			d.pdf.Rect(x, startY, widths[i], rowH, "FD")
		default:
			d.pdf.Rect(x, startY, widths[i], rowH, "D")
		}

		color := spec.Color
		if !header && toned != nil && i < len(toned) {
			switch toned[i].Tone {
			case TonePositive:
				color = d.styles.Positive
			case ToneNegative:
				color = d.styles.Negative
			}
		}
		d.pdf.SetFont(spec.Font, spec.Style, spec.Size)
		d.pdf.SetTextColor(color[0], color[1], color[2])

		t.drawCellText(d, text, x, startY, widths[i], spec.Align)
		x += widths[i]
	}

	d.pdf.SetXY(l, startY+rowH)
}

// drawCellText word-wraps text inside a cell, truncating with an ellipsis
// when it exceeds the row's line budget.
func (t Table) drawCellText(d *Doc, text string, x, y, width float64, align string) {
	lines := wrapText(d, d.tr(text), width-tableCellPad)
	d.pdf.SetXY(x+tableCellPad/2, y+tableCellPad/2)
	for i, line := range lines {
		if i >= tableMaxLines {
			break
		}
		if i == tableMaxLines-1 && len(lines) > tableMaxLines {
			for d.pdf.GetStringWidth(line+"...") > width-tableCellPad && len(line) > 3 {
				line = line[:len(line)-1]
			}
			line += "..."
		}
		d.pdf.SetX(x + tableCellPad/2)
		d.pdf.CellFormat(width-tableCellPad, tableCellLine, line, "", 2, align, false, 0, "")
	}
}

// Group binds elements into a keep-together unit: either the whole group
// fits the remaining page space or it starts on the next page. A group
// taller than a full page is split by the composer.
type Group struct {
	Children []Element
}

func (g Group) Height(d *Doc) float64 {
	h := 0.0
	for _, c := range g.Children {
		h += c.Height(d)
	}
	return h
}

func (g Group) Draw(d *Doc) {
	for _, c := range g.Children {
		c.Draw(d)
	}
}

package report

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToLines converts a raw HTML fragment into styled text lines. The
// target format has no HTML primitive, so tags are stripped: block elements
// and <br> become line breaks, <b>/<strong>/<em>/<i> and headings become
// bold runs, everything else contributes bare text. Any parse irregularity
// falls back to a whitespace-collapsed plain-text line so the section stays
// readable instead of erroring.
func HTMLToLines(fragment string) [][]Run {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return plainFallback(fragment)
	}

	doc.Find("script, style").Remove()

	w := &runWriter{}
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	walkFragment(body, w, 0)
	w.flush()

	if len(w.lines) == 0 {
		return plainFallback(fragment)
	}
	return w.lines
}

// runWriter accumulates text into lines of styled runs.
type runWriter struct {
	lines   [][]Run
	current []Run
}

func (w *runWriter) write(text string, bold bool) {
	text = collapseSpace(text)
	if text == "" {
		return
	}
	if n := len(w.current); n > 0 && w.current[n-1].Bold == bold {
		w.current[n-1].Text += " " + text
		return
	}
	w.current = append(w.current, Run{Text: text, Bold: bold})
}

func (w *runWriter) flush() {
	if len(w.current) > 0 {
		w.lines = append(w.lines, w.current)
		w.current = nil
	}
}

func walkFragment(sel *goquery.Selection, w *runWriter, boldDepth int) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#text" {
			w.write(s.Text(), boldDepth > 0)
			return
		}
		switch name {
		case "br":
			w.flush()
		case "b", "strong", "em", "i":
			walkFragment(s, w, boldDepth+1)
		case "h1", "h2", "h3", "h4", "h5", "h6":
			w.flush()
			walkFragment(s, w, boldDepth+1)
			w.flush()
		case "p", "div", "li", "tr", "table", "ul", "ol", "section", "blockquote":
			w.flush()
			walkFragment(s, w, boldDepth)
			w.flush()
		case "script", "style", "img":
			// dropped
		default:
			walkFragment(s, w, boldDepth)
		}
	})
}

// plainFallback strips nothing and collapses whitespace: the guaranteed
// readable degradation when structured parsing gives nothing usable.
func plainFallback(fragment string) [][]Run {
	text := collapseSpace(stripTags(fragment))
	if text == "" {
		return nil
	}
	return [][]Run{{{Text: text}}}
}

// stripTags removes anything between angle brackets without interpreting it.
func stripTags(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
			b.WriteRune(' ')
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

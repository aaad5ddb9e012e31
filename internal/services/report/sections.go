package report

import (
	"fmt"

	"github.com/ternarybob/marketreport/internal/models"
)

// Canonical section names, also used as keys in RenderResult placements.
const (
	SectionMacroDashboard    = "macro_dashboard"
	SectionExecutiveSummary  = "executive_summary"
	SectionMarketStatistics  = "market_statistics"
	SectionBreadth           = "breadth"
	SectionTopMovers         = "top_movers"
	SectionStocks            = "stocks"
	SectionSectorPerformance = "sector_performance"
	SectionForecast          = "forecast"
	SectionActionItems       = "action_items"
	SectionVIXTermStructure  = "vix_term_structure"
)

// missingField is the placeholder for a present-but-empty scalar.
const missingField = "—"

// Section is one rendered report block: a heading plus its content flow.
type Section struct {
	Name     string
	Title    string
	Elements []Element
}

// sectionRenderer maps a payload to a section's content elements. A nil
// return means the section is absent and renders nothing, heading included.
type sectionRenderer struct {
	name   string
	title  string
	render func(*models.ReportPayload) []Element
}

// sectionRenderers fixes the canonical document order. Input key order never
// matters; this slice is the single source of truth.
var sectionRenderers = []sectionRenderer{
	{SectionMacroDashboard, "MACRO DASHBOARD", renderMacroDashboard},
	{SectionExecutiveSummary, "EXECUTIVE SUMMARY", renderExecutiveSummary},
	{SectionMarketStatistics, "MARKET STATISTICS", renderMarketStatistics},
	{SectionBreadth, "MARKET BREADTH", renderBreadth},
	{SectionTopMovers, "TOP MOVERS", renderTopMovers},
	{SectionStocks, "STOCK GRID", renderStocks},
	{SectionSectorPerformance, "SECTOR PERFORMANCE", renderSectorPerformance},
	{SectionForecast, "5-DAY FORECAST", renderForecast},
	{SectionActionItems, "ACTION ITEMS", renderActionItems},
	{SectionVIXTermStructure, "VIX TERM STRUCTURE", renderVIXTermStructure},
}

// text renders a scalar field, em-dash when absent.
func text(v models.Value) string {
	if v.IsSet() {
		return v.String()
	}
	return missingField
}

// pct formats percentages to one decimal. Non-numeric input passes through
// unchanged rather than erroring.
func pct(v models.Value) string {
	if f, ok := v.Float(); ok {
		return fmt.Sprintf("%.1f%%", f)
	}
	return text(v)
}

// price formats prices to two decimals.
func price(v models.Value) string {
	if f, ok := v.Float(); ok {
		return fmt.Sprintf("$%.2f", f)
	}
	return text(v)
}

// toneOf classifies a value by sign. Parse failure is neutral, never an error.
func toneOf(v models.Value) Tone {
	f, ok := v.Float()
	switch {
	case !ok || f == 0:
		return ToneNeutral
	case f > 0:
		return TonePositive
	default:
		return ToneNegative
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// labeled builds a "Label: value" paragraph with a bold label.
func labeled(role Role, pairs ...string) Paragraph {
	p := Paragraph{Role: role}
	for i := 0; i+1 < len(pairs); i += 2 {
		sep := ""
		if i > 0 {
			sep = " | "
		}
		p.Runs = append(p.Runs,
			Run{Text: sep + pairs[i] + ":", Bold: true},
			Run{Text: pairs[i+1]},
		)
	}
	return p
}

func renderMacroDashboard(p *models.ReportPayload) []Element {
	m := p.MacroDashboard
	if m == nil {
		return nil
	}
	var els []Element

	if m.RegimeSummary != "" {
		els = append(els, NewParagraph(m.RegimeSummary, RoleBody), Spacer{H: 2})
	}

	if v := m.VIX; v != nil {
		change := fmt.Sprintf("%s (%s)", text(v.Change), pct(v.ChangePct))
		g := Group{Children: []Element{
			Heading{Text: "VIX (Volatility)", Role: RoleSubHeader},
			Table{
				Header: []string{"VIX Level", "Change", "Regime"},
				Rows: [][]Cell{{
					{Text: text(v.Level)},
					{Text: change, Tone: toneOf(v.Change)},
					{Text: text(v.Regime)},
				}},
			},
		}}
		if v.Interpretation != "" {
			g.Children = append(g.Children, NewParagraph(v.Interpretation, RoleBodySmall))
		}
		els = append(els, g, Spacer{H: 2})
	}

	if ts := m.VIXTermStructure; ts != nil {
		g := Group{Children: []Element{
			Heading{Text: "VIX Term Structure", Role: RoleSubHeader},
			Table{
				Header: []string{"VIX 1-Month", "VIX 3-Month", "Spread", "Regime"},
				Rows: [][]Cell{{
					{Text: text(ts.OneMonth)},
					{Text: text(ts.ThreeMonth)},
					{Text: text(ts.Spread) + " pts", Tone: toneOf(ts.Spread)},
					{Text: text(ts.Regime)},
				}},
			},
		}}
		if ts.Interpretation != "" {
			g.Children = append(g.Children, NewParagraph(ts.Interpretation, RoleBodySmall))
		}
		els = append(els, g, Spacer{H: 2})
	}

	if u := m.UST10Y; u != nil {
		g := Group{Children: []Element{
			Heading{Text: "US Treasury 10Y", Role: RoleSubHeader},
			Paragraph{Role: RoleBody, Runs: []Run{
				{Text: text(u.Level) + "%", Bold: true},
				{Text: fmt.Sprintf(" (Change: %s bps)", text(u.ChangeBps))},
				{Text: " | Stance:", Bold: true},
				{Text: text(u.Stance)},
			}},
		}}
		if u.Interpretation != "" {
			g.Children = append(g.Children, NewParagraph(u.Interpretation, RoleBodySmall))
		}
		els = append(els, g, Spacer{H: 2})
	}

	if x := m.DXY; x != nil {
		g := Group{Children: []Element{
			Heading{Text: "Dollar Index (DXY)", Role: RoleSubHeader},
			Paragraph{Role: RoleBody, Runs: []Run{
				{Text: text(x.Level), Bold: true},
				{Text: fmt.Sprintf(" (%s, %s)", text(x.Change), pct(x.ChangePct))},
				{Text: " | Trend:", Bold: true},
				{Text: text(x.Trend)},
			}},
		}}
		if x.Interpretation != "" {
			g.Children = append(g.Children, NewParagraph(x.Interpretation, RoleBodySmall))
		}
		els = append(els, g, Spacer{H: 2})
	}

	if f := m.FedFunds; f != nil {
		g := Group{Children: []Element{
			Heading{Text: "Fed Funds Rate", Role: RoleSubHeader},
			Paragraph{Role: RoleBody, Runs: []Run{
				{Text: text(f.Rate) + "%", Bold: true},
				{Text: fmt.Sprintf(" | Next Meeting: %s | Hold: %s%% | Cut: %s%%",
					text(f.NextMeeting), text(f.HoldProbability), text(f.CutProbability))},
			}},
		}}
		if f.Interpretation != "" {
			g.Children = append(g.Children, NewParagraph(f.Interpretation, RoleBodySmall))
		}
		els = append(els, g, Spacer{H: 2})
	}

	return els
}

func renderExecutiveSummary(p *models.ReportPayload) []Element {
	s := p.ExecutiveSummary
	if s == nil {
		return nil
	}
	var els []Element
	if s.Headline != "" {
		els = append(els, Paragraph{Role: RoleBody, Runs: []Run{{Text: s.Headline, Bold: true}}}, Spacer{H: 1})
	}
	if s.MarketRegime.IsSet() || s.Sentiment.IsSet() || s.ConfidenceScore.IsSet() {
		els = append(els, labeled(RoleBody,
			"Regime", text(s.MarketRegime),
			"Sentiment", text(s.Sentiment),
			"Confidence", text(s.ConfidenceScore)+"/100",
		), Spacer{H: 1})
	}
	if s.KeyInsight != "" {
		els = append(els, labeled(RoleBody, "Key Insight", s.KeyInsight), Spacer{H: 1})
	}
	if s.TradingThesis != "" {
		els = append(els, labeled(RoleBodySmall, "Trading Thesis", s.TradingThesis))
	}
	return els
}

func renderMarketStatistics(p *models.ReportPayload) []Element {
	s := p.MarketStatistics
	if s == nil {
		return nil
	}
	return []Element{Table{
		Header: []string{"Advancers", "Decliners", "A/D Ratio", "Avg Perf", "Median", "Dispersion"},
		Rows: [][]Cell{{
			{Text: text(s.Advancers)},
			{Text: text(s.Decliners)},
			{Text: text(s.ADRatio)},
			{Text: pct(s.AvgPerformance), Tone: toneOf(s.AvgPerformance)},
			{Text: pct(s.MedianPerformance), Tone: toneOf(s.MedianPerformance)},
			{Text: text(s.Dispersion)},
		}},
	}}
}

func breadthTable(entries []models.BreadthEntry) Table {
	t := Table{Header: []string{"#", "Symbol", "Price", "Change %"}}
	for i, e := range entries {
		t.Rows = append(t.Rows, []Cell{
			{Text: fmt.Sprintf("%d", i+1)},
			{Text: text(e.Symbol)},
			{Text: price(e.Price)},
			{Text: pct(e.ChangePct), Tone: toneOf(e.ChangePct)},
		})
	}
	return t
}

func renderBreadth(p *models.ReportPayload) []Element {
	b := p.Breadth
	if b == nil {
		return nil
	}
	var els []Element
	if gainers := models.OrderedByRank(b.TopGainers); len(gainers) > 0 {
		els = append(els, Group{Children: []Element{
			Heading{Text: "Top Gainers", Role: RoleSubHeader},
			breadthTable(gainers),
		}})
	}
	if losers := models.OrderedByRank(b.TopLosers); len(losers) > 0 {
		els = append(els, Group{Children: []Element{
			Heading{Text: "Top Losers", Role: RoleSubHeader},
			breadthTable(losers),
		}})
	}
	return els
}

func renderTopMovers(p *models.ReportPayload) []Element {
	movers := models.OrderedByRank(p.TopMovers)
	if len(movers) == 0 {
		return nil
	}

	t := Table{Header: []string{"#", "Symbol", "Price", "Change %", "Momentum", "Risk"}}
	for i, m := range movers {
		t.Rows = append(t.Rows, []Cell{
			{Text: fmt.Sprintf("%d", i+1)},
			{Text: text(m.Symbol)},
			{Text: price(m.Price)},
			{Text: pct(m.ChangePct), Tone: toneOf(m.ChangePct)},
			{Text: text(m.Momentum)},
			{Text: text(m.RiskLevel)},
		})
	}
	els := []Element{t}

	for _, m := range movers {
		if m.Reason == "" && m.Analysis == "" {
			continue
		}
		g := Group{Children: []Element{
			Paragraph{Role: RoleBodySmall, Runs: []Run{
				{Text: text(m.Symbol) + ":", Bold: true},
				{Text: m.Reason},
			}},
		}}
		if m.Analysis != "" {
			g.Children = append(g.Children, NewParagraph(truncate(m.Analysis, 400), RoleBodySmall))
		}
		els = append(els, g, Spacer{H: 1})
	}
	return els
}

func renderStocks(p *models.ReportPayload) []Element {
	stocks := models.OrderedByRank(p.Stocks)
	if len(stocks) == 0 {
		return nil
	}
	t := Table{
		Header: []string{"#", "Symbol", "Price", "Change %", "Volume", "Trend"},
		Zebra:  true,
	}
	for i, s := range stocks {
		t.Rows = append(t.Rows, []Cell{
			{Text: fmt.Sprintf("%d", i+1)},
			{Text: text(s.Symbol)},
			{Text: price(s.Price)},
			{Text: pct(s.ChangePct), Tone: toneOf(s.ChangePct)},
			{Text: text(s.Volume)},
			{Text: text(s.Trend)},
		})
	}
	els := []Element{t}

	for _, s := range stocks {
		if s.Comment != "" {
			els = append(els, Paragraph{Role: RoleBodySmall, Runs: []Run{
				{Text: text(s.Symbol) + ":", Bold: true},
				{Text: truncate(s.Comment, 300)},
			}})
		}
	}
	return els
}

func renderSectorPerformance(p *models.ReportPayload) []Element {
	if len(p.SectorPerformance) == 0 {
		return nil
	}

	t := Table{Header: []string{"Sector", "Avg Perf", "Best", "Worst"}}
	names := models.SortedKeys(p.SectorPerformance)
	for _, name := range names {
		s := p.SectorPerformance[name]
		t.Rows = append(t.Rows, []Cell{
			{Text: name},
			{Text: pct(s.AvgPerformance), Tone: toneOf(s.AvgPerformance)},
			{Text: text(s.BestPerformer)},
			{Text: text(s.WorstPerformer)},
		})
	}
	els := []Element{t}

	for _, name := range names {
		if c := p.SectorPerformance[name].Comment; c != "" {
			els = append(els, Paragraph{Role: RoleBodySmall, Runs: []Run{
				{Text: name + ":", Bold: true},
				{Text: truncate(c, 300)},
			}})
		}
	}
	return els
}

func renderForecast(p *models.ReportPayload) []Element {
	f := p.Forecast
	if f == nil {
		return nil
	}
	els := []Element{
		labeled(RoleBody,
			"Direction", text(f.Direction),
			"Expected Return", pct(f.ExpectedReturnPct),
			"Probability", text(f.Probability),
		),
		Spacer{H: 2},
	}

	cases := []struct {
		label string
		body  string
	}{
		{"Bull Case", f.BullCase},
		{"Base Case", f.BaseCase},
		{"Bear Case", f.BearCase},
	}
	for _, c := range cases {
		if c.body == "" {
			continue
		}
		els = append(els, Group{Children: []Element{
			Paragraph{Role: RoleBody, Runs: []Run{{Text: c.label + ":", Bold: true}}},
			NewParagraph(truncate(c.body, 300), RoleBodySmall),
		}}, Spacer{H: 1})
	}

	if len(f.KeyCatalysts) > 0 {
		g := Group{Children: []Element{
			Paragraph{Role: RoleBody, Runs: []Run{{Text: "Key Catalysts:", Bold: true}}},
		}}
		for _, c := range f.KeyCatalysts {
			g.Children = append(g.Children, Bullet{Text: c})
		}
		els = append(els, g)
	}
	return els
}

func renderActionItems(p *models.ReportPayload) []Element {
	if len(p.ActionItems) == 0 {
		return nil
	}
	els := make([]Element, 0, len(p.ActionItems))
	for _, item := range p.ActionItems {
		els = append(els, Bullet{Text: item})
	}
	return els
}

func renderVIXTermStructure(p *models.ReportPayload) []Element {
	if p.VIXTermStructureHTML == "" {
		return nil
	}
	lines := HTMLToLines(p.VIXTermStructureHTML)
	if len(lines) == 0 {
		return nil
	}
	els := make([]Element, 0, len(lines))
	for _, runs := range lines {
		els = append(els, Paragraph{Runs: runs, Role: RoleBody})
	}
	return els
}

package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/marketreport/internal/models"
)

func TestSectionRenderersCanonicalOrder(t *testing.T) {
	want := []string{
		SectionMacroDashboard,
		SectionExecutiveSummary,
		SectionMarketStatistics,
		SectionBreadth,
		SectionTopMovers,
		SectionStocks,
		SectionSectorPerformance,
		SectionForecast,
		SectionActionItems,
		SectionVIXTermStructure,
	}
	require.Len(t, sectionRenderers, len(want))
	for i, r := range sectionRenderers {
		assert.Equal(t, want[i], r.name)
		assert.NotEmpty(t, r.title)
		assert.NotNil(t, r.render)
	}
}

func TestRenderersReturnNilForAbsentData(t *testing.T) {
	p := &models.ReportPayload{}
	for _, r := range sectionRenderers {
		assert.Nil(t, r.render(p), "section %s should be empty for an empty payload", r.name)
	}
}

func TestFormattingHelpers(t *testing.T) {
	assert.Equal(t, "—", text(models.Value{}))
	assert.Equal(t, "Bullish", text(models.NewValue("Bullish")))

	assert.Equal(t, "4.2%", pct(models.NewValue("4.2")))
	assert.Equal(t, "4.2%", pct(models.NewValue("+4.2%")))
	assert.Equal(t, "-1.5%", pct(models.NewValue("-1.5")))
	assert.Equal(t, "N/A", pct(models.NewValue("N/A")))
	assert.Equal(t, "—", pct(models.Value{}))

	assert.Equal(t, "$905.50", price(models.NewValue("905.5")))
	assert.Equal(t, "$1234.56", price(models.NewValue("$1,234.56")))
	assert.Equal(t, "pending", price(models.NewValue("pending")))
}

func TestToneOf(t *testing.T) {
	assert.Equal(t, TonePositive, toneOf(models.NewValue("+4.2")))
	assert.Equal(t, TonePositive, toneOf(models.NewValue("0.1%")))
	assert.Equal(t, ToneNegative, toneOf(models.NewValue("-1.5")))
	assert.Equal(t, ToneNeutral, toneOf(models.NewValue("0")))
	assert.Equal(t, ToneNeutral, toneOf(models.NewValue("flat")))
	assert.Equal(t, ToneNeutral, toneOf(models.Value{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}

func TestRenderTopMoversRows(t *testing.T) {
	for _, n := range []int{1, 5, 50} {
		t.Run(fmt.Sprintf("%d movers", n), func(t *testing.T) {
			movers := make(map[string]models.Mover, n)
			for i := 1; i <= n; i++ {
				movers[fmt.Sprintf("%d", i)] = models.Mover{
					Symbol:    models.NewValue(fmt.Sprintf("SYM%d", i)),
					Price:     models.NewValue("100.5"),
					ChangePct: models.NewValue("-2.1"),
				}
			}
			els := renderTopMovers(&models.ReportPayload{TopMovers: movers})
			require.NotEmpty(t, els)

			table, ok := els[0].(Table)
			require.True(t, ok)
			assert.Len(t, table.Rows, n)

			// Rank order preserved from the rank-keyed map
			assert.Equal(t, "SYM1", table.Rows[0][1].Text)
			if n > 1 {
				assert.Equal(t, fmt.Sprintf("SYM%d", n), table.Rows[n-1][1].Text)
			}
			// Negative change is toned
			assert.Equal(t, ToneNegative, table.Rows[0][3].Tone)
		})
	}
}

func TestRenderTopMoversNarratives(t *testing.T) {
	p := &models.ReportPayload{TopMovers: map[string]models.Mover{
		"1": {
			Symbol:   models.NewValue("NVDA"),
			Reason:   "Earnings beat",
			Analysis: "Strong datacenter demand.",
		},
		"2": {Symbol: models.NewValue("AMD")},
	}}
	els := renderTopMovers(p)

	// Table plus one narrative group (and its spacer); AMD has no narrative
	var groups int
	for _, el := range els {
		if _, ok := el.(Group); ok {
			groups++
		}
	}
	assert.Equal(t, 1, groups)
}

func TestRenderMacroDashboard(t *testing.T) {
	p := &models.ReportPayload{MacroDashboard: &models.MacroDashboard{
		RegimeSummary: "Risk-on conditions persist.",
		VIX: &models.VIXIndicator{
			Level:          models.NewValue("18.52"),
			Change:         models.NewValue("-0.75"),
			ChangePct:      models.NewValue("-3.9"),
			Regime:         models.NewValue("Normal"),
			Interpretation: "Volatility is subdued.",
		},
		UST10Y: &models.TreasuryYield{
			Level:  models.NewValue("4.25"),
			Stance: models.NewValue("Restrictive"),
		},
	}}

	els := renderMacroDashboard(p)
	require.NotEmpty(t, els)

	// Regime summary paragraph leads
	para, ok := els[0].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Risk-on conditions persist.", para.Runs[0].Text)

	// VIX gets a keep-together group: sub-heading, table, interpretation
	g, ok := els[2].(Group)
	require.True(t, ok)
	require.Len(t, g.Children, 3)
	table, ok := g.Children[1].(Table)
	require.True(t, ok)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "18.52", table.Rows[0][0].Text)
	assert.Equal(t, ToneNegative, table.Rows[0][1].Tone)
}

func TestRenderMacroDashboardMissingFields(t *testing.T) {
	p := &models.ReportPayload{MacroDashboard: &models.MacroDashboard{
		VIX: &models.VIXIndicator{},
	}}
	els := renderMacroDashboard(p)
	require.NotEmpty(t, els)

	g, ok := els[0].(Group)
	require.True(t, ok)
	table, ok := g.Children[1].(Table)
	require.True(t, ok)
	assert.Equal(t, "—", table.Rows[0][0].Text)
}

func TestRenderBreadth(t *testing.T) {
	p := &models.ReportPayload{Breadth: &models.Breadth{
		TopGainers: map[string]models.BreadthEntry{
			"1": {Symbol: models.NewValue("TSLA"), ChangePct: models.NewValue("+6.1")},
			"2": {Symbol: models.NewValue("META"), ChangePct: models.NewValue("+3.0")},
		},
	}}
	els := renderBreadth(p)
	require.Len(t, els, 1)

	g, ok := els[0].(Group)
	require.True(t, ok)
	table, ok := g.Children[1].(Table)
	require.True(t, ok)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "TSLA", table.Rows[0][1].Text)
	assert.Equal(t, TonePositive, table.Rows[0][3].Tone)
}

func TestRenderStocksComments(t *testing.T) {
	p := &models.ReportPayload{Stocks: map[string]models.Stock{
		"1": {Symbol: models.NewValue("AAPL"), Comment: "Holding above the 50-day average."},
		"2": {Symbol: models.NewValue("MSFT")},
	}}
	els := renderStocks(p)
	require.Len(t, els, 2)

	table, ok := els[0].(Table)
	require.True(t, ok)
	assert.Len(t, table.Rows, 2)

	// Only the commented stock gets a narrative paragraph
	para, ok := els[1].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, "AAPL:", para.Runs[0].Text)
	assert.True(t, para.Runs[0].Bold)
	assert.Contains(t, para.Runs[1].Text, "50-day")
}

func TestRenderSectorPerformanceSortedByName(t *testing.T) {
	p := &models.ReportPayload{SectorPerformance: map[string]models.SectorMetrics{
		"Technology": {AvgPerformance: models.NewValue("1.2")},
		"Energy":     {AvgPerformance: models.NewValue("-0.8")},
		"Financials": {AvgPerformance: models.NewValue("0.3")},
	}}
	els := renderSectorPerformance(p)
	require.NotEmpty(t, els)

	table, ok := els[0].(Table)
	require.True(t, ok)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Energy", table.Rows[0][0].Text)
	assert.Equal(t, "Financials", table.Rows[1][0].Text)
	assert.Equal(t, "Technology", table.Rows[2][0].Text)
}

func TestRenderForecast(t *testing.T) {
	p := &models.ReportPayload{Forecast: &models.Forecast{
		Direction:         models.NewValue("Bullish"),
		ExpectedReturnPct: models.NewValue("1.8"),
		BullCase:          "Breakout continues.",
		KeyCatalysts:      models.StringList{"CPI print", "FOMC minutes"},
	}}
	els := renderForecast(p)
	require.NotEmpty(t, els)

	_, bullets := countContent(els)
	assert.Equal(t, 2, bullets)
}

func TestRenderActionItems(t *testing.T) {
	p := &models.ReportPayload{ActionItems: models.StringList{"Trim risk", "Watch VIX", "Raise stops"}}
	els := renderActionItems(p)
	require.Len(t, els, 3)
	for i, el := range els {
		b, ok := el.(Bullet)
		require.True(t, ok)
		assert.Equal(t, []string{"Trim risk", "Watch VIX", "Raise stops"}[i], b.Text)
	}
}

func TestRenderVIXTermStructure(t *testing.T) {
	p := &models.ReportPayload{
		VIXTermStructureHTML: "<b>Contango:</b> 1M 18.5 vs 3M 20.1<br>Spread +1.6 pts",
	}
	els := renderVIXTermStructure(p)
	require.Len(t, els, 2)

	para, ok := els[0].(Paragraph)
	require.True(t, ok)
	assert.True(t, para.Runs[0].Bold)

	assert.Nil(t, renderVIXTermStructure(&models.ReportPayload{}))
}

package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ReportPayload is the root input for a single report generation request.
// Every field is optional: absent sections are omitted from the document
// rather than failing the request.
type ReportPayload struct {
	ReportDate           string                   `json:"report_date" validate:"omitempty,datetime=2006-01-02"`
	ReportTitle          string                   `json:"report_title" validate:"omitempty,max=200"`
	MacroDashboard       *MacroDashboard          `json:"macro_dashboard,omitempty"`
	ExecutiveSummary     *ExecutiveSummary        `json:"executive_summary,omitempty"`
	MarketStatistics     *MarketStatistics        `json:"market_statistics,omitempty"`
	Breadth              *Breadth                 `json:"breadth,omitempty"`
	TopMovers            map[string]Mover         `json:"top_movers,omitempty"`
	Stocks               map[string]Stock         `json:"stocks,omitempty"`
	SectorPerformance    map[string]SectorMetrics `json:"sector_performance,omitempty"`
	Forecast             *Forecast                `json:"forecast,omitempty"`
	ActionItems          StringList               `json:"action_items,omitempty"`
	VIXTermStructureHTML string                   `json:"vix_term_structure_html,omitempty"`
}

// MacroDashboard groups the macro indicator sub-sections.
type MacroDashboard struct {
	RegimeSummary    string            `json:"regime_summary,omitempty"`
	VIX              *VIXIndicator     `json:"vix,omitempty"`
	VIXTermStructure *VIXTermStructure `json:"vix_term_structure,omitempty"`
	UST10Y           *TreasuryYield    `json:"ust10y,omitempty"`
	DXY              *DollarIndex      `json:"dxy,omitempty"`
	FedFunds         *FedFunds         `json:"fed_funds,omitempty"`
}

// VIXIndicator carries spot VIX level and regime classification.
type VIXIndicator struct {
	Level          Value  `json:"level,omitempty"`
	Change         Value  `json:"change,omitempty"`
	ChangePct      Value  `json:"change_pct,omitempty"`
	Regime         Value  `json:"regime,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
}

// VIXTermStructure carries structured term-structure readings. It complements
// the raw vix_term_structure_html fragment; either or both may be present.
type VIXTermStructure struct {
	OneMonth       Value  `json:"vix_1m,omitempty"`
	ThreeMonth     Value  `json:"vix_3m,omitempty"`
	Spread         Value  `json:"spread,omitempty"`
	Regime         Value  `json:"regime,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
}

// TreasuryYield is the 10-year US treasury block.
type TreasuryYield struct {
	Level          Value  `json:"level,omitempty"`
	ChangeBps      Value  `json:"change_bps,omitempty"`
	Stance         Value  `json:"stance,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
}

// DollarIndex is the DXY block.
type DollarIndex struct {
	Level          Value  `json:"level,omitempty"`
	Change         Value  `json:"change,omitempty"`
	ChangePct      Value  `json:"change_pct,omitempty"`
	Trend          Value  `json:"trend,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
}

// FedFunds is the federal funds rate block.
type FedFunds struct {
	Rate            Value  `json:"rate,omitempty"`
	NextMeeting     Value  `json:"next_meeting,omitempty"`
	HoldProbability Value  `json:"hold_probability,omitempty"`
	CutProbability  Value  `json:"cut_probability,omitempty"`
	Interpretation  string `json:"interpretation,omitempty"`
}

// ExecutiveSummary is the narrative lead of the report.
type ExecutiveSummary struct {
	Headline        string `json:"headline,omitempty"`
	MarketRegime    Value  `json:"market_regime,omitempty"`
	Sentiment       Value  `json:"sentiment,omitempty"`
	ConfidenceScore Value  `json:"confidence_score,omitempty"`
	KeyInsight      string `json:"key_insight,omitempty"`
	TradingThesis   string `json:"trading_thesis,omitempty"`
}

// MarketStatistics is the advancer/decliner statistics block.
type MarketStatistics struct {
	Advancers         Value `json:"advancers,omitempty"`
	Decliners         Value `json:"decliners,omitempty"`
	ADRatio           Value `json:"ad_ratio,omitempty"`
	AvgPerformance    Value `json:"avg_performance,omitempty"`
	MedianPerformance Value `json:"median_performance,omitempty"`
	Dispersion        Value `json:"dispersion,omitempty"`
}

// Breadth carries ranked gainer/loser lists. The maps are keyed by rank
// ("1", "2", ...) and may hold any number of entries, not just five.
type Breadth struct {
	TopGainers map[string]BreadthEntry `json:"top_5_gainers,omitempty"`
	TopLosers  map[string]BreadthEntry `json:"top_5_losers,omitempty"`
}

// BreadthEntry is a single symbol in a gainer/loser list.
type BreadthEntry struct {
	Symbol    Value `json:"symbol,omitempty"`
	Price     Value `json:"price,omitempty"`
	ChangePct Value `json:"change_pct,omitempty"`
}

// Mover is one ranked entry in the top-movers section.
type Mover struct {
	Symbol    Value  `json:"symbol,omitempty"`
	Price     Value  `json:"price,omitempty"`
	ChangePct Value  `json:"change_pct,omitempty"`
	Momentum  Value  `json:"momentum,omitempty"`
	RiskLevel Value  `json:"risk_level,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Analysis  string `json:"analysis,omitempty"`
}

// Stock is one ranked entry in the stock grid.
type Stock struct {
	Symbol    Value  `json:"symbol,omitempty"`
	Price     Value  `json:"price,omitempty"`
	ChangePct Value  `json:"change_pct,omitempty"`
	Volume    Value  `json:"volume,omitempty"`
	Trend     Value  `json:"trend,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// SectorMetrics is the per-sector performance record.
type SectorMetrics struct {
	AvgPerformance Value  `json:"avg_performance,omitempty"`
	BestPerformer  Value  `json:"best_performer,omitempty"`
	WorstPerformer Value  `json:"worst_performer,omitempty"`
	Comment        string `json:"comment,omitempty"`
}

// Forecast is the multi-day outlook block.
type Forecast struct {
	Direction         Value      `json:"direction,omitempty"`
	ExpectedReturnPct Value      `json:"expected_return_pct,omitempty"`
	Probability       Value      `json:"probability,omitempty"`
	BullCase          string     `json:"bull_case,omitempty"`
	BaseCase          string     `json:"base_case,omitempty"`
	BearCase          string     `json:"bear_case,omitempty"`
	KeyCatalysts      StringList `json:"key_catalysts,omitempty"`
}

// Value is a scalar payload field that tolerates JSON strings, numbers,
// booleans and null. Upstream automation emits numbers and strings
// interchangeably for the same field, so coercion happens at decode time
// and the report layer only ever sees a string.
type Value struct {
	raw string
	set bool
}

// NewValue constructs a set Value, mainly for tests and fixtures.
func NewValue(s string) Value {
	return Value{raw: s, set: true}
}

// UnmarshalJSON accepts string, number, bool or null. Structured values
// (objects, arrays) are treated as absent rather than failing the decode.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Value{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value{raw: s, set: s != ""}
		return nil
	}

	switch trimmed[0] {
	case '{', '[':
		*v = Value{}
		return nil
	}

	// Number or bool: the JSON text is already the display form
	*v = Value{raw: trimmed, set: true}
	return nil
}

// MarshalJSON round-trips the value as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// IsSet reports whether the field was present and non-empty.
func (v Value) IsSet() bool {
	return v.set
}

// String returns the raw display text, empty when unset.
func (v Value) String() string {
	return v.raw
}

// Float parses the value as a number, tolerating sign prefixes, thousands
// separators and trailing unit suffixes ("%", "bps", "pts"). The second
// return is false when no leading numeric could be extracted.
func (v Value) Float() (float64, bool) {
	if !v.set {
		return 0, false
	}
	s := strings.TrimSpace(v.raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	end := 0
	for i, r := range s {
		if r == '+' || r == '-' {
			if i != 0 {
				break
			}
			end = i + 1
			continue
		}
		if (r >= '0' && r <= '9') || r == '.' {
			end = i + 1
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(s[:end], "+"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// StringList is an ordered list of strings that decodes from either a JSON
// array or a rank-keyed object ({"1": "...", "2": "..."}). Upstream payloads
// have shipped both shapes for action items and catalysts.
type StringList []string

// UnmarshalJSON decodes array or rank-keyed object forms. Non-string
// members are coerced via Value; empty members are dropped.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var vals []Value
		if err := json.Unmarshal(data, &vals); err != nil {
			return err
		}
		out := make(StringList, 0, len(vals))
		for _, v := range vals {
			if v.IsSet() {
				out = append(out, v.String())
			}
		}
		*l = out
		return nil
	}

	var ranked map[string]Value
	if err := json.Unmarshal(data, &ranked); err != nil {
		return err
	}
	ordered := OrderedByRank(ranked)
	out := make(StringList, 0, len(ordered))
	for _, v := range ordered {
		if v.IsSet() {
			out = append(out, v.String())
		}
	}
	*l = out
	return nil
}

// OrderedByRank flattens a rank-keyed mapping into a slice ordered by
// ascending numeric rank. Keys that do not parse as integers sort after the
// numeric ones, lexicographically, so malformed ranks degrade instead of
// dropping entries.
func OrderedByRank[T any](m map[string]T) []T {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ii, ierr := strconv.Atoi(keys[i])
		jj, jerr := strconv.Atoi(keys[j])
		switch {
		case ierr == nil && jerr == nil:
			return ii < jj
		case ierr == nil:
			return true
		case jerr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// SortedKeys returns map keys in sorted order for deterministic iteration.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

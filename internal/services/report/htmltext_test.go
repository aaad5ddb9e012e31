package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToLines(t *testing.T) {
	tests := []struct {
		name string
		html string
		want [][]Run
	}{
		{
			name: "Plain Text",
			html: "VIX term structure is in contango",
			want: [][]Run{{{Text: "VIX term structure is in contango"}}},
		},
		{
			name: "Bold Inline",
			html: "Spread: <b>+2.1</b> pts",
			want: [][]Run{{
				{Text: "Spread:"},
				{Text: "+2.1", Bold: true},
				{Text: "pts"},
			}},
		},
		{
			name: "Strong And Em Are Bold",
			html: "<strong>Backwardation</strong> signals <em>stress</em>",
			want: [][]Run{{
				{Text: "Backwardation", Bold: true},
				{Text: "signals"},
				{Text: "stress", Bold: true},
			}},
		},
		{
			name: "Br Splits Lines",
			html: "1M: 18.5<br>3M: 20.1",
			want: [][]Run{
				{{Text: "1M: 18.5"}},
				{{Text: "3M: 20.1"}},
			},
		},
		{
			name: "Paragraphs Split Lines",
			html: "<p>First reading</p><p>Second reading</p>",
			want: [][]Run{
				{{Text: "First reading"}},
				{{Text: "Second reading"}},
			},
		},
		{
			name: "Heading Is Bold Own Line",
			html: "<h3>Term Structure</h3><div>1M below 3M</div>",
			want: [][]Run{
				{{Text: "Term Structure", Bold: true}},
				{{Text: "1M below 3M"}},
			},
		},
		{
			name: "Table Rows Become Lines",
			html: "<table><tr><td>1M</td><td>18.5</td></tr><tr><td>3M</td><td>20.1</td></tr></table>",
			want: [][]Run{
				{{Text: "1M 18.5"}},
				{{Text: "3M 20.1"}},
			},
		},
		{
			name: "Whitespace Collapsed",
			html: "<div>  lots   of\n\t space  </div>",
			want: [][]Run{{{Text: "lots of space"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTMLToLines(tt.html)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLToLinesDropsScriptAndStyle(t *testing.T) {
	html := `<style>.x{color:red}</style><script>alert(1)</script><div>visible text</div>`
	got := HTMLToLines(html)
	require.Len(t, got, 1)
	assert.Equal(t, []Run{{Text: "visible text"}}, got[0])
}

func TestHTMLToLinesEmptyInput(t *testing.T) {
	assert.Nil(t, HTMLToLines(""))
	assert.Nil(t, HTMLToLines("<div></div>"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, " b ", stripTags("<a>b</a>"))
	assert.Equal(t, "no tags", stripTags("no tags"))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", collapseSpace("  a\n b\t\tc "))
	assert.Equal(t, "", collapseSpace("   "))
}

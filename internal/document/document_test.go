package document

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head>
<link rel="canonical" href="https://www.basketball-reference.com/players/x/xample01.html">
</head><body>
<div id="info">
  <h1 itemprop="name"> <span>Ex Ample</span> </h1>
  <span itemprop="birthDate" data-birth="1984-05-29">May 29, 1984</span>
  <p><strong>Shoots:</strong>
    Right
  </p>
  <p><strong>College:</strong> <a href="/friv/colleges.fcgi?college=syracuse">Syracuse</a></p>
</div>
<table id="per_game">
  <tbody>
    <tr class="full_table">
      <th data-stat="season"><a href="/leagues/NBA_2004.html">2003-04</a></th>
      <td data-stat="g">82</td>
      <td data-stat="efg_pct">.449</td>
      <td data-stat="pos">SF</td>
      <td data-stat="mp" csk="2995">2,995</td>
      <td data-stat="team_id"><a href="/teams/DEN/2004.html">DEN</a></td>
      <td data-stat="blank"></td>
      <td data-stat="obpm">-1.2</td>
    </tr>
  </tbody>
</table>
<div id="all_advanced">
<!--
<table id="advanced"><tbody>
  <tr class="full_table"><th data-stat="season">2003-04</th><td data-stat="per">17.6</td></tr>
</tbody></table>
-->
</div>
<div id="all_contracts">
<!-- <table id="contracts_den"><tr><th>Team</th></tr></table> -->
</div>
</body></html>`

func mustParse(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := Parse([]byte(body))
	require.NoError(t, err)
	return doc
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		kind  Kind
		text  string
		isInt bool
	}{
		{name: "integer", raw: "82", kind: Int, text: "82", isInt: true},
		{name: "padded integer", raw: "  41\n", kind: Int, text: "41", isInt: true},
		{name: "signed integer", raw: "+10", kind: Int, text: "+10", isInt: true},
		{name: "leading dot float", raw: ".449", kind: Float, text: ".449"},
		{name: "negative float", raw: "-1.2", kind: Float, text: "-1.2"},
		{name: "season label", raw: "2003-04", kind: Text, text: "2003-04"},
		{name: "dotted text", raw: "Jr.", kind: Text, text: "Jr."},
		{name: "empty", raw: "   ", kind: Null},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := Coerce(tc.raw)
			require.Equal(t, tc.kind, v.Kind())
			require.Equal(t, tc.text, v.String())
			if tc.isInt {
				require.NotNil(t, v.Int())
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	t.Parallel()

	v := Coerce("12")
	require.Equal(t, 12, *v.Int())
	require.InDelta(t, 12.0, *v.Float(), 1e-9)
	require.Equal(t, "12", *v.Text())

	f := Coerce("18.8")
	require.Nil(t, f.Int())
	require.InDelta(t, 18.8, *f.Float(), 1e-9)

	whole := Coerce("3.0")
	require.Equal(t, 3, *whole.Int())

	s := Coerce("Right")
	require.Nil(t, s.Int())
	require.Nil(t, s.Float())
	require.Equal(t, "Right", *s.Text())

	n := Coerce("")
	require.True(t, n.IsNull())
	require.Nil(t, n.Text())
	require.Nil(t, n.Float())
}

func TestCellLookups(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	row := doc.Find("#per_game tr.full_table")

	require.Equal(t, 82, *CellValue("g", row).Int())
	require.InDelta(t, 0.449, *CellValue("efg_pct", row).Float(), 1e-9)
	require.Equal(t, "SF", CellValue("pos", row).String())
	require.Equal(t, "2003-04", CellValue("season", row).String())
	require.Equal(t, "DEN", CellValue("team_id", row).String(), "link text wins over cell text")
	require.True(t, CellValue("blank", row).IsNull())
	require.True(t, CellValue("missing", row).IsNull())
	require.InDelta(t, -1.2, *CellValue("obpm", row).Float(), 1e-9)

	require.Equal(t, 2995, *CellAttr("mp", row, "csk").Int())
	require.True(t, CellAttr("mp", row, "nope").IsNull())

	child := CellFirstChild("team_id", row)
	require.NotNil(t, child)
	href, _ := child.Attr("href")
	require.Equal(t, "/teams/DEN/2004.html", href)
	require.Nil(t, CellFirstChild("g", row))
	require.Nil(t, CellFirstChild("missing", row))
}

func TestLookupRejectsConflictingOptions(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	_, _, err := Lookup("team_id", doc.Root(), CellOptions{Attribute: "href", FirstChild: true})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestItemProperty(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)

	name, ok := doc.ItemProperty("name", "", "h1")
	require.True(t, ok)
	require.Equal(t, "Ex Ample", name)

	birth, ok := doc.ItemProperty("birthDate", "data-birth", "")
	require.True(t, ok)
	require.Equal(t, "1984-05-29", birth)

	_, ok = doc.ItemProperty("height", "", "")
	require.False(t, ok)
	_, ok = doc.ItemProperty("name", "", "span")
	require.False(t, ok)
}

func TestFirstTextAfterLabel(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)

	hand, ok := doc.FirstTextAfterLabel("strong", regexp.MustCompile(`Shoots:`))
	require.True(t, ok)
	require.Equal(t, "Right", hand)

	_, ok = doc.FirstTextAfterLabel("strong", regexp.MustCompile(`Draft:`))
	require.False(t, ok)

	label := doc.Label("strong", regexp.MustCompile(`College:`))
	require.NotNil(t, label)
	require.Equal(t, "Syracuse", label.NextAllFiltered("a").First().Text())
}

func TestCommentedTable(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)

	adv := doc.CommentedTable("advanced")
	require.NotNil(t, adv)
	require.InDelta(t, 17.6, *CellValue("per", adv.Find("tr.full_table")).Float(), 1e-9)

	contracts := doc.CommentedTable("contracts_.*")
	require.NotNil(t, contracts)
	id, _ := contracts.Attr("id")
	require.Equal(t, "contracts_den", id)

	assert.Nil(t, doc.CommentedTable("per_game"), "live tables are not commented")
	assert.Nil(t, doc.CommentedTable("salaries"))
}

func TestTablePrefersLiveDocument(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	require.NotNil(t, doc.Table("per_game"))
	require.NotNil(t, doc.Table("advanced"))
	require.Nil(t, doc.Table("per"), "ids must match in full")
	require.Nil(t, doc.Table("("), "bad patterns are treated as absent")
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	href, ok := doc.CanonicalURL()
	require.True(t, ok)
	require.Equal(t, "https://www.basketball-reference.com/players/x/xample01.html", href)

	empty := mustParse(t, "<html><body></body></html>")
	_, ok = empty.CanonicalURL()
	require.False(t, ok)
}

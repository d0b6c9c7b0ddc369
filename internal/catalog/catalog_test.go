package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/elementscan/internal/catalog"
	"github.com/go-scripts/elementscan/internal/counts"
	"github.com/go-scripts/elementscan/internal/htmldom"
)

func aggregate(t *testing.T, markup string) *counts.Document {
	t.Helper()
	snap, err := htmldom.ParseString(markup, "https://example.com/page")
	require.NoError(t, err)
	doc, err := catalog.Aggregate(context.Background(), snap, catalog.Default())
	require.NoError(t, err)
	return doc
}

func scalar(t *testing.T, doc *counts.Document, key string) int {
	t.Helper()
	v, ok := doc.Get(key)
	require.True(t, ok, "missing %s", key)
	require.Equal(t, counts.KindScalar, v.Kind(), key)
	return v.Int()
}

func list(t *testing.T, doc *counts.Document, key string) []string {
	t.Helper()
	v, ok := doc.Get(key)
	require.True(t, ok, "missing %s", key)
	require.Equal(t, counts.KindStringList, v.Kind(), key)
	return v.Strings()
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c := catalog.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{
		"alt_image_count", "total_img_tags", "geojson_map_sections", "topojson_map_sections",
		"html_image_maps", "iframe_embedded_maps", "tables", "videos", "svg_charts",
		"canvas_charts", "mermaid_charts", "svg_rects", "svg_circles", "link_count",
		"button_count", "onclick_count", "link_hrefs", "button_labels", "onclick_tags",
		"tables_data",
	}, c.Categories())
}

func TestImageCounts(t *testing.T) {
	doc := aggregate(t, `<html><body>
		<img src="a.png" alt="image">
		<img src="b.png" alt="logo">
		<img src="c.png">
	</body></html>`)

	assert.Equal(t, 3, scalar(t, doc, catalog.TotalImgTags))
	assert.Equal(t, 1, scalar(t, doc, catalog.AltImageCount))
}

func TestTableExtraction(t *testing.T) {
	doc := aggregate(t, `<body><table>
		<tr><td> c11 </td><td>c12</td><td>c13</td></tr>
		<tr><td>c21</td><td>c22</td><td>c23 </td></tr>
	</table></body>`)

	assert.Equal(t, 1, scalar(t, doc, catalog.Tables))
	v, ok := doc.Get(catalog.TablesData)
	require.True(t, ok)
	assert.Equal(t, []counts.Table{{
		{"c11", "c12", "c13"},
		{"c21", "c22", "c23"},
	}}, v.Tables())
}

func TestTableExtractionRaggedRows(t *testing.T) {
	doc := aggregate(t, `<body>
		<table>
			<thead><tr><th>Name</th><th>Qty</th></tr></thead>
			<tbody>
				<tr><td>Saw</td><td>1</td><td>extra</td></tr>
				<tr><td colspan="2">Total</td></tr>
				<tr></tr>
			</tbody>
		</table>
		<table><tr><td>only</td></tr></table>
	</body>`)

	v, _ := doc.Get(catalog.TablesData)
	tables := v.Tables()
	require.Len(t, tables, 2)

	// One Row per tr, one cell per th/td in that row.
	assert.Equal(t, counts.Table{
		{"Name", "Qty"},
		{"Saw", "1", "extra"},
		{"Total"},
		{},
	}, tables[0])
	rows, cols := tables[0].Dimensions()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, counts.Table{{"only"}}, tables[1])
}

func TestEmptyPage(t *testing.T) {
	doc := aggregate(t, `<html><body><p>nothing to see</p></body></html>`)

	assert.Equal(t, catalog.Default().Categories(), doc.Keys())
	for _, e := range doc.Entries() {
		switch e.Value.Kind() {
		case counts.KindScalar:
			assert.Zero(t, e.Value.Int(), e.Key)
		default:
			assert.Zero(t, e.Value.Len(), e.Key)
		}
	}
}

func TestChartUnionDeduplicates(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		want    int
		overlap bool
	}{
		{
			name: "disjoint libraries",
			markup: `<div class="highcharts-container"><svg></svg></div>
				<div class="c3-chart"><svg></svg></div>
				<div class="plotly-graph-div"><svg></svg></div>`,
			want: 3,
		},
		{
			name: "element matched by two selectors",
			markup: `<div id="sales-chart" class="highcharts-container"><svg></svg></div>
				<div class="ct-chart"><svg></svg></div>`,
			want:    2,
			overlap: true,
		},
		{
			name: "nested containers",
			markup: `<div id="chart-wrap"><div class="c3-chart"><svg></svg></div></div>
				<div id="mychart"><svg></svg><svg></svg></div>`,
			want:    3,
			overlap: true,
		},
		{
			name:   "no charts",
			markup: `<svg><rect/></svg>`,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := htmldom.ParseString("<body>"+tt.markup+"</body>", "")
			require.NoError(t, err)

			sum := 0
			for _, sel := range catalog.ChartSelectors {
				ids, err := snap.QueryAll(context.Background(), sel)
				require.NoError(t, err)
				sum += len(ids)
			}

			v, err := catalog.UnionCount{Name: catalog.SVGCharts, Selectors: catalog.ChartSelectors}.
				Evaluate(context.Background(), snap)
			require.NoError(t, err)

			assert.Equal(t, tt.want, v.Int())
			assert.LessOrEqual(t, v.Int(), sum)
			assert.Equal(t, !tt.overlap, v.Int() == sum)
		})
	}
}

func TestSVGPrimitivesAndMaps(t *testing.T) {
	doc := aggregate(t, `<body>
		<svg><rect/><rect/><circle/></svg>
		<section data-type="geojson"></section>
		<section data-type="topojson"></section>
		<section data-type="topojson"></section>
		<section data-type="mermaid"></section>
		<map name="m"></map>
		<iframe src="https://maps.google.com/embed?x=1"></iframe>
		<iframe src="https://www.openstreetmap.org/export/embed.html"></iframe>
		<iframe src="https://video.example.com"></iframe>
		<video></video>
		<canvas></canvas><canvas></canvas>
	</body>`)

	assert.Equal(t, 2, scalar(t, doc, catalog.SVGRects))
	assert.Equal(t, 1, scalar(t, doc, catalog.SVGCircles))
	assert.Equal(t, 1, scalar(t, doc, catalog.GeoJSONMapSections))
	assert.Equal(t, 2, scalar(t, doc, catalog.TopoJSONMapSections))
	assert.Equal(t, 1, scalar(t, doc, catalog.MermaidCharts))
	assert.Equal(t, 1, scalar(t, doc, catalog.HTMLImageMaps))
	assert.Equal(t, 2, scalar(t, doc, catalog.IframeEmbeddedMaps))
	assert.Equal(t, 1, scalar(t, doc, catalog.Videos))
	assert.Equal(t, 2, scalar(t, doc, catalog.CanvasCharts))
}

func TestCapturedListsSkipMissingValues(t *testing.T) {
	doc := aggregate(t, `<body>
		<a href="/docs">Docs</a>
		<a>anchor without href</a>
		<a href="https://other.example.org/x">Other</a>
		<button> Save </button>
		<button>   </button>
		<button><span>Load</span></button>
	</body>`)

	assert.Equal(t, 3, scalar(t, doc, catalog.LinkCount))
	assert.Equal(t, []string{"https://example.com/docs", "https://other.example.org/x"}, list(t, doc, catalog.LinkHrefs))

	assert.Equal(t, 3, scalar(t, doc, catalog.ButtonCount))
	assert.Equal(t, []string{"Save", "Load"}, list(t, doc, catalog.ButtonLabels))

	for _, key := range []string{catalog.LinkHrefs, catalog.ButtonLabels, catalog.OnclickTags} {
		for _, item := range list(t, doc, key) {
			assert.NotEmpty(t, strings.TrimSpace(item), key)
		}
	}
}

func TestOnclickMarkupIsTruncated(t *testing.T) {
	long := `<div onclick="doSomething()">` + strings.Repeat("x", 200) + `</div>`
	doc := aggregate(t, `<body><span onclick="go()">go</span>`+long+`</body>`)

	assert.Equal(t, 2, scalar(t, doc, catalog.OnclickCount))
	tags := list(t, doc, catalog.OnclickTags)
	require.Len(t, tags, 2)
	assert.Equal(t, `<span onclick="go()">go</span>`, tags[0])
	assert.True(t, strings.HasSuffix(tags[1], catalog.TruncationMarker))
	assert.Equal(t, catalog.OnclickMarkupBudget+1, len([]rune(tags[1])))
}

func TestMalformedSelectorAbortsAggregation(t *testing.T) {
	snap, err := htmldom.ParseString("<body><img></body>", "")
	require.NoError(t, err)

	c := catalog.Catalog{
		catalog.SimpleCount{Name: "images", Selector: "img"},
		catalog.SimpleCount{Name: "broken", Selector: "div[[["},
	}
	doc, err := catalog.Aggregate(context.Background(), snap, c)
	assert.Nil(t, doc)
	require.ErrorIs(t, err, catalog.ErrQueryFailure)

	var qe *catalog.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "broken", qe.Category)
	assert.Equal(t, "div[[[", qe.Selector)
}

// staleQuerier fails every read after the initial query.
type staleQuerier struct{ catalog.Querier }

var errStale = errors.New("stale node reference")

func (staleQuerier) QueryAll(context.Context, string) ([]catalog.NodeID, error) {
	return []catalog.NodeID{1, 2}, nil
}

func (staleQuerier) Text(context.Context, catalog.NodeID) (string, error) {
	return "", errStale
}

func TestExtractorFailurePropagates(t *testing.T) {
	c := catalog.Catalog{catalog.CapturedList{Name: "labels", Selector: "button", Extract: catalog.TrimmedText()}}
	_, err := catalog.Aggregate(context.Background(), staleQuerier{}, c)
	require.ErrorIs(t, err, catalog.ErrQueryFailure)
	assert.ErrorIs(t, err, errStale)
}

func TestValidateRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		c    catalog.Catalog
	}{
		{"duplicate", catalog.Catalog{
			catalog.SimpleCount{Name: "a", Selector: "img"},
			catalog.SimpleCount{Name: "a", Selector: "video"},
		}},
		{"unnamed", catalog.Catalog{catalog.SimpleCount{Selector: "img"}}},
		{"empty selector", catalog.Catalog{catalog.SimpleCount{Name: "a"}}},
		{"empty union", catalog.Catalog{catalog.UnionCount{Name: "a"}}},
		{"no extractor", catalog.Catalog{catalog.CapturedList{Name: "a", Selector: "a"}}},
		{"table without cells", catalog.Catalog{catalog.TableExtraction{Name: "t", TableSelector: "table", RowSelector: "tr"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.c.Validate())
		})
	}
}

func TestAggregateHonorsCancelledContext(t *testing.T) {
	snap, err := htmldom.ParseString("<body></body>", "")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = catalog.Aggregate(ctx, snap, catalog.Default())
	assert.ErrorIs(t, err, context.Canceled)
}

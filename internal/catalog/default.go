package catalog

// Category names of the default catalog.
const (
	AltImageCount       = "alt_image_count"
	TotalImgTags        = "total_img_tags"
	GeoJSONMapSections  = "geojson_map_sections"
	TopoJSONMapSections = "topojson_map_sections"
	HTMLImageMaps       = "html_image_maps"
	IframeEmbeddedMaps  = "iframe_embedded_maps"
	Tables              = "tables"
	Videos              = "videos"
	SVGCharts           = "svg_charts"
	CanvasCharts        = "canvas_charts"
	MermaidCharts       = "mermaid_charts"
	SVGRects            = "svg_rects"
	SVGCircles          = "svg_circles"
	LinkCount           = "link_count"
	ButtonCount         = "button_count"
	OnclickCount        = "onclick_count"
	LinkHrefs           = "link_hrefs"
	ButtonLabels        = "button_labels"
	OnclickTags         = "onclick_tags"
	TablesData          = "tables_data"
)

// OnclickMarkupBudget is the number of runes of markup kept per onclick element.
const OnclickMarkupBudget = 100

// ChartSelectors match the SVG roots rendered by common charting libraries.
var ChartSelectors = []string{
	"div.highcharts-container svg",
	"div.c3-chart svg",
	"div.ct-chart svg",
	"div.plotly-graph-div svg",
	"div[id*='chart'] svg",
}

// Default returns the fixed element catalog.
func Default() Catalog {
	return Catalog{
		SimpleCount{Name: AltImageCount, Selector: "img[alt='image']"},
		SimpleCount{Name: TotalImgTags, Selector: "img"},
		SimpleCount{Name: GeoJSONMapSections, Selector: "section[data-type='geojson']"},
		SimpleCount{Name: TopoJSONMapSections, Selector: "section[data-type='topojson']"},
		SimpleCount{Name: HTMLImageMaps, Selector: "map"},
		SimpleCount{Name: IframeEmbeddedMaps, Selector: "iframe[src*='maps.google'], iframe[src*='openstreetmap']"},
		SimpleCount{Name: Tables, Selector: "table"},
		SimpleCount{Name: Videos, Selector: "video"},
		UnionCount{Name: SVGCharts, Selectors: append([]string(nil), ChartSelectors...)},
		SimpleCount{Name: CanvasCharts, Selector: "canvas"},
		SimpleCount{Name: MermaidCharts, Selector: "section[data-type='mermaid']"},
		SimpleCount{Name: SVGRects, Selector: "svg rect"},
		SimpleCount{Name: SVGCircles, Selector: "svg circle"},
		SimpleCount{Name: LinkCount, Selector: "a"},
		SimpleCount{Name: ButtonCount, Selector: "button"},
		SimpleCount{Name: OnclickCount, Selector: "[onclick]"},
		CapturedList{Name: LinkHrefs, Selector: "a", Extract: PropertyOf("href")},
		CapturedList{Name: ButtonLabels, Selector: "button", Extract: TrimmedText()},
		CapturedList{Name: OnclickTags, Selector: "[onclick]", Extract: Markup(), MaxLen: OnclickMarkupBudget},
		TableExtraction{Name: TablesData, TableSelector: "table", RowSelector: "tr", CellSelector: "th, td"},
	}
}

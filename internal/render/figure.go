package render

// Figure is the Plotly figure serialized into the document.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single choropleth trace keyed by ISO3 codes.
type Trace struct {
	Type          string      `json:"type"`
	LocationMode  string      `json:"locationmode"`
	Locations     []string    `json:"locations"`
	Z             []float64   `json:"z"`
	CustomData    [][4]string `json:"customdata"`
	HoverTemplate string      `json:"hovertemplate"`
	ColorScale    string      `json:"colorscale"`
	ColorBar      ColorBar    `json:"colorbar"`
}

// ColorBar labels the color scale.
type ColorBar struct {
	Title Title `json:"title"`
}

// Layout holds figure-wide settings.
type Layout struct {
	Title Title `json:"title"`
	Geo   Geo   `json:"geo"`
}

// Title is a Plotly title object.
type Title struct {
	Text string `json:"text"`
}

// Geo configures the base map.
type Geo struct {
	ShowFrame      bool       `json:"showframe"`
	ShowCoastlines bool       `json:"showcoastlines"`
	Projection     Projection `json:"projection"`
}

// Projection selects the map projection.
type Projection struct {
	Type string `json:"type"`
}

const (
	colorScale    = "Viridis"
	colorBarTitle = "valence"
	hoverTemplate = "<b>%{location}</b><br>Valence: %{z:.2f}<br>%{customdata[2]} — %{customdata[3]}<extra></extra>"
)

// BuildFigure creates the choropleth. Fill color is the mean valence; the
// customdata tuple only feeds hover text and the player.
func BuildFigure(records []PlotRecord, title string) Figure {
	trace := Trace{
		Type:          "choropleth",
		LocationMode:  "ISO-3",
		Locations:     make([]string, len(records)),
		Z:             make([]float64, len(records)),
		CustomData:    make([][4]string, len(records)),
		HoverTemplate: hoverTemplate,
		ColorScale:    colorScale,
		ColorBar:      ColorBar{Title: Title{Text: colorBarTitle}},
	}
	for i, r := range records {
		trace.Locations[i] = r.ISO3
		trace.Z[i] = r.MeanValence
		trace.CustomData[i] = r.CustomData()
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title: Title{Text: title},
			Geo: Geo{
				ShowFrame:      false,
				ShowCoastlines: true,
				Projection:     Projection{Type: "natural earth"},
			},
		},
	}
}

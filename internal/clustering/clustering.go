// Package clustering groups countries into mood bands by mean valence.
package clustering

// CountryValence is one country's mean chart valence.
type CountryValence struct {
	ISO3    string
	Valence float64
}

// Band is a group of countries with similar mean valence.
type Band struct {
	Name      string   // Mood label derived from the centroid: "Upbeat"
	Centroid  float64  // Mean valence at the cluster center
	Countries []string // ISO3 codes, sorted
}

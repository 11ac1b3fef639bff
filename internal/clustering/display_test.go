package clustering

import "testing"

func TestFormatBandHeadline(t *testing.T) {
	tests := []struct {
		name  string
		bands []Band
		want  string
	}{
		{
			name:  "no bands",
			bands: nil,
			want:  "No mood bands (no countries plotted)",
		},
		{
			name: "single band single country",
			bands: []Band{
				{Name: "Upbeat", Centroid: 0.55, Countries: []string{"USA"}},
			},
			want: "Found 1 mood band across 1 country",
		},
		{
			name: "several bands",
			bands: []Band{
				{Name: "Melancholy", Centroid: 0.3, Countries: []string{"A01", "A02"}},
				{Name: "Euphoric", Centroid: 0.7, Countries: []string{"B01", "B02", "B03"}},
			},
			want: "Found 2 mood bands across 5 countries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBandHeadline(tt.bands); got != tt.want {
				t.Errorf("FormatBandHeadline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatBand(t *testing.T) {
	tests := []struct {
		name string
		num  int
		band Band
		want string
	}{
		{
			name: "one country",
			num:  1,
			band: Band{Name: "Upbeat", Centroid: 0.55, Countries: []string{"USA"}},
			want: "Band 1: Upbeat (valence 0.55, 1 country)",
		},
		{
			name: "many countries",
			num:  2,
			band: Band{Name: "Euphoric", Centroid: 0.7, Countries: []string{"BRA", "MEX"}},
			want: "Band 2: Euphoric (valence 0.70, 2 countries)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBand(tt.num, tt.band); got != tt.want {
				t.Errorf("FormatBand() = %q, want %q", got, tt.want)
			}
		})
	}
}

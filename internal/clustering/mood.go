package clustering

import (
	"fmt"
	"slices"
	"strings"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// DefaultBands is the number of mood bands when none is configured.
const DefaultBands = 3

// countryObservation wraps a CountryValence to implement clusters.Observation.
type countryObservation struct {
	iso3   string
	coords clusters.Coordinates
}

func (o countryObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o countryObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// DetectMoodBands partitions countries into at most k bands using k-means on
// mean valence. Bands are returned in ascending centroid order; empty
// clusters are dropped. Fewer countries than k yields one band per country.
func DetectMoodBands(points []CountryValence, k int) ([]Band, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultBands
	}
	k = min(k, len(points))

	var obs clusters.Observations
	for _, p := range points {
		obs = append(obs, countryObservation{
			iso3:   p.ISO3,
			coords: clusters.Coordinates{p.Valence},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("k-means partition: %w", err)
	}

	var bands []Band
	for _, cluster := range result {
		var codes []string
		var sum float64
		for _, o := range cluster.Observations {
			co, ok := o.(countryObservation)
			if !ok {
				continue
			}
			codes = append(codes, co.iso3)
			sum += co.coords[0]
		}
		if len(codes) == 0 {
			continue
		}
		slices.Sort(codes)

		centroid := sum / float64(len(codes))
		bands = append(bands, Band{
			Name:      bandName(centroid),
			Centroid:  centroid,
			Countries: codes,
		})
	}

	slices.SortFunc(bands, func(a, b Band) int {
		switch {
		case a.Centroid < b.Centroid:
			return -1
		case a.Centroid > b.Centroid:
			return 1
		}
		return strings.Compare(a.Countries[0], b.Countries[0])
	})

	return bands, nil
}

// BandOf returns the name of the band containing iso3, or "" if none does.
func BandOf(bands []Band, iso3 string) string {
	for _, b := range bands {
		if _, found := slices.BinarySearch(b.Countries, iso3); found {
			return b.Name
		}
	}
	return ""
}

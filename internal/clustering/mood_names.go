package clustering

// bandName labels a band by its centroid valence.
//
// Thresholds:
//   - above 0.65 = "Euphoric"
//   - above 0.50 = "Upbeat"
//   - above 0.35 = "Bittersweet"
//   - otherwise  = "Melancholy"
func bandName(valence float64) string {
	switch {
	case valence > 0.65:
		return "Euphoric"
	case valence > 0.5:
		return "Upbeat"
	case valence > 0.35:
		return "Bittersweet"
	default:
		return "Melancholy"
	}
}

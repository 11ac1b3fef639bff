package itunes

// searchResponse is the JSON response of the iTunes Search API.
type searchResponse struct {
	Results []result `json:"results"`
}

// result is a single song entry. Only the fields used for previews are decoded.
type result struct {
	PreviewURL   string `json:"previewUrl"`
	TrackViewURL string `json:"trackViewUrl"`
}

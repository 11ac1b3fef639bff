package spotify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-valence-map/internal/preview"
)

// fakeSearcher records the last query and returns a canned response.
type fakeSearcher struct {
	result *spotify.SearchResult
	err    error

	gotQuery string
	gotType  spotify.SearchType
	calls    int
	deadline bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error) {
	f.calls++
	f.gotQuery = query
	f.gotType = t
	_, f.deadline = ctx.Deadline()
	return f.result, f.err
}

func trackResult(tracks ...spotify.FullTrack) *spotify.SearchResult {
	return &spotify.SearchResult{
		Tracks: &spotify.FullTrackPage{Tracks: tracks},
	}
}

func TestConvertTrack(t *testing.T) {
	tests := []struct {
		name  string
		track spotify.FullTrack
		want  preview.Preview
	}{
		{
			name: "preview and link",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:           "track123",
					Name:         "Test Song",
					PreviewURL:   "https://p.scdn.co/mp3-preview/abc",
					ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/track123"},
				},
			},
			want: preview.Preview{
				URL:  "https://p.scdn.co/mp3-preview/abc",
				Link: "https://open.spotify.com/track/track123",
			},
		},
		{
			name: "no preview",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:           "track456",
					ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/track456"},
				},
			},
			want: preview.Preview{Link: "https://open.spotify.com/track/track456"},
		},
		{
			name:  "empty track",
			track: spotify.FullTrack{},
			want:  preview.Preview{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertTrack(tt.track); got != tt.want {
				t.Errorf("convertTrack() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	withPreview := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			PreviewURL:   "https://p.scdn.co/mp3-preview/ok",
			ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/ok"},
		},
	}
	withoutPreview := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/np"}},
	}

	tests := []struct {
		name       string
		result     *spotify.SearchResult
		err        error
		wantOK     bool
		wantReason preview.Reason
	}{
		{name: "found", result: trackResult(withPreview), wantOK: true, wantReason: preview.ReasonNone},
		{name: "no tracks", result: trackResult(), wantReason: preview.ReasonNotFound},
		{name: "nil page", result: &spotify.SearchResult{}, wantReason: preview.ReasonNotFound},
		{name: "track without preview", result: trackResult(withoutPreview), wantReason: preview.ReasonNotFound},
		{name: "api error", err: spotify.Error{Message: "bad request", Status: 400}, wantReason: preview.ReasonStatus},
		{name: "deadline", err: context.DeadlineExceeded, wantReason: preview.ReasonTimeout},
		{name: "transport", err: errors.New("connection reset"), wantReason: preview.ReasonTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearcher{result: tt.result, err: tt.err}
			client := newClient(fake)

			res := client.Lookup(context.Background(), preview.Query{Track: "Song", Artists: "Band", Country: "GB"})

			if res.OK() != tt.wantOK {
				t.Fatalf("Lookup() OK = %v, want %v (reason %v)", res.OK(), tt.wantOK, res.Failure)
			}
			if res.Failure != tt.wantReason {
				t.Errorf("Lookup() Failure = %v, want %v", res.Failure, tt.wantReason)
			}
			if fake.gotQuery != "Song Band" {
				t.Errorf("query = %q, want %q", fake.gotQuery, "Song Band")
			}
			if fake.gotType != spotify.SearchTypeTrack {
				t.Errorf("search type = %v, want track", fake.gotType)
			}
			if !fake.deadline {
				t.Error("Lookup() context has no deadline")
			}
		})
	}
}

func TestOptions(t *testing.T) {
	client := newClient(&fakeSearcher{}, WithTimeout(3*time.Second), WithDefaultCountry("BR"))

	if client.timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", client.timeout)
	}
	if client.defaultCountry != "BR" {
		t.Errorf("defaultCountry = %q, want BR", client.defaultCountry)
	}

	unchanged := newClient(&fakeSearcher{}, WithTimeout(0), WithDefaultCountry(""))
	if unchanged.timeout != 8*time.Second || unchanged.defaultCountry != "US" {
		t.Errorf("zero options changed defaults: %+v", unchanged)
	}
}

func TestNewWithCredentials_Empty(t *testing.T) {
	if _, err := NewWithCredentials(context.Background(), "", "secret"); err == nil {
		t.Error("NewWithCredentials() with empty id returned nil error")
	}
}

package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// PlotlyURL is the remotely loaded chart library.
	PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

	// DefaultTitle is the figure title.
	DefaultTitle = "Positividad promedio de las 50 canciones más escuchadas por país."

	// DefaultLinkLabel is the text of the deep link shown in the player.
	DefaultLinkLabel = "Apple Music"

	// PlayerVersion identifies the player template contract. Bump it when
	// the customdata tuple or the element ids change.
	PlayerVersion = "1"

	plotID       = "valence-map"
	pageTemplate = "map.html"
	playerTmpl   = "player.html"
	bodyClose    = "</body>"
)

// ErrNoBodyTag is returned when a document has no closing body tag.
var ErrNoBodyTag = errors.New("document has no closing body tag")

// pageData feeds the document template.
type pageData struct {
	Title     string
	PlotlyURL string
	PlotID    string
	Figure    Figure
}

// playerData feeds the player template.
type playerData struct {
	Version   string
	PlotID    string
	LinkLabel string
}

// Renderer produces the final HTML document.
type Renderer struct {
	page      *template.Template
	player    *template.Template
	title     string
	linkLabel string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTitle overrides the figure title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// WithLinkLabel overrides the deep-link label in the player.
func WithLinkLabel(label string) Option {
	return func(r *Renderer) {
		if label != "" {
			r.linkLabel = label
		}
	}
}

// NewRenderer loads the document and player templates from templatesFS.
func NewRenderer(templatesFS fs.FS, opts ...Option) (*Renderer, error) {
	page, err := template.New(pageTemplate).ParseFS(templatesFS, pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", pageTemplate, err)
	}

	player, err := template.New(playerTmpl).ParseFS(templatesFS, playerTmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", playerTmpl, err)
	}

	r := &Renderer{
		page:      page,
		player:    player,
		title:     DefaultTitle,
		linkLabel: DefaultLinkLabel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render returns the complete document for records with the player injected
// before the closing body tag. Output is deterministic for equal input.
func (r *Renderer) Render(records []PlotRecord) ([]byte, error) {
	var doc bytes.Buffer
	err := r.page.Execute(&doc, pageData{
		Title:     r.title,
		PlotlyURL: PlotlyURL,
		PlotID:    plotID,
		Figure:    BuildFigure(records, r.title),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	block, err := r.Player()
	if err != nil {
		return nil, err
	}

	return Inject(doc.Bytes(), block)
}

// Player renders the audio player block on its own.
func (r *Renderer) Player() ([]byte, error) {
	var buf bytes.Buffer
	err := r.player.Execute(&buf, playerData{
		Version:   PlayerVersion,
		PlotID:    plotID,
		LinkLabel: r.linkLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering player: %w", err)
	}
	return buf.Bytes(), nil
}

// Inject inserts block immediately before the last closing body tag of doc.
func Inject(doc, block []byte) ([]byte, error) {
	i := bytes.LastIndex(doc, []byte(bodyClose))
	if i < 0 {
		return nil, ErrNoBodyTag
	}

	out := make([]byte, 0, len(doc)+len(block))
	out = append(out, doc[:i]...)
	out = append(out, block...)
	out = append(out, doc[i:]...)
	return out, nil
}

// WriteFile replaces path with data. The content is written to a temporary
// file in the same directory and renamed, so a failed write leaves any
// previous document untouched.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".valence-map-*.html")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

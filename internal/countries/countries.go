// Package countries normalizes chart country labels and resolves them to ISO codes.
package countries

import (
	"regexp"
	"strings"

	gocountries "github.com/biter777/countries"
)

// disallowed matches everything except word characters, whitespace (Unicode
// separators included), hyphen, ampersand, period, comma and apostrophes
// (straight and typographic).
var disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\-&.,'’]`)

// Code is a resolved country identity.
type Code struct {
	ISO3 string
	ISO2 string
}

// Normalize strips stray symbols from a country label and trims whitespace.
func Normalize(name string) string {
	return strings.TrimSpace(disallowed.ReplaceAllString(name, ""))
}

// Resolve maps a display name, alpha-2 or alpha-3 code to its ISO codes.
// The label is normalized first. The boolean is false when the label
// cannot be identified.
func Resolve(name string) (Code, bool) {
	n := Normalize(name)
	if n == "" {
		return Code{}, false
	}

	c := gocountries.ByName(n)
	if c == gocountries.Unknown {
		return Code{}, false
	}

	return Code{ISO3: c.Alpha3(), ISO2: c.Alpha2()}, true
}

// Resolver memoizes Resolve for repeated labels within a run.
type Resolver struct {
	seen map[string]resolution
}

type resolution struct {
	code Code
	ok   bool
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{seen: make(map[string]resolution)}
}

// Resolve behaves like the package-level Resolve.
func (r *Resolver) Resolve(name string) (Code, bool) {
	if res, ok := r.seen[name]; ok {
		return res.code, res.ok
	}
	code, ok := Resolve(name)
	r.seen[name] = resolution{code: code, ok: ok}
	return code, ok
}

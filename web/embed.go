// Package web provides the embedded HTML templates for the generated map.
package web

import "embed"

// TemplatesFS contains the document and player templates.
//
//go:embed all:templates
var TemplatesFS embed.FS

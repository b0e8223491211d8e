package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/controls/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle. Callers overriding a
// single template can layer their own fs.FS in front of it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

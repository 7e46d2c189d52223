// Package web embeds the static assets. Pages live in web/templates/pages.
package web

import "embed"

//go:embed static
var Static embed.FS

package webassets

import "embed"

// Files contains the embedded demo chat UI.
//
//go:embed *.html
var Files embed.FS

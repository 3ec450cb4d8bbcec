// Package web holds the HTML templates and static assets embedded in the binary.
package web

import (
	"embed"
	"io/fs"
)

// Templates holds the page templates under templates/.
//
//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

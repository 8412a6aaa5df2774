package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS holds the dashboard page
//
//go:embed all:dist
var FS embed.FS

// GetHTTPFS returns the embedded dashboard page for HTTP serving. It fails
// when the page has no index.html.
func GetHTTPFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "dist")
	if err != nil {
		return nil, err
	}

	if _, err := fs.Stat(sub, "index.html"); err != nil {
		return nil, err
	}

	return http.FS(sub), nil
}

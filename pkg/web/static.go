package web

import (
	"io/fs"
	"net/http"
)

// DistServer serves files from subdir of fsys with urlPrefix stripped from
// the request path. It panics if subdir cannot be opened.
func DistServer(fsys fs.FS, subdir, urlPrefix string) http.HandlerFunc {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		panic("failed to create sub-filesystem: " + err.Error())
	}
	server := http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub)))
	return func(w http.ResponseWriter, r *http.Request) {
		server.ServeHTTP(w, r)
	}
}

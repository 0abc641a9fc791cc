package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static templates
var assets embed.FS

// assetFS returns the embedded directory dir as the root of a file system.
func assetFS(dir string) http.FileSystem {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		// dir is a literal embedded above
		panic(err)
	}

	return http.FS(sub)
}

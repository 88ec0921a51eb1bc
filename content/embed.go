// Package content embeds the default content tables and balance scripts.
package content

import (
	"embed"
	"io/fs"
)

//go:embed data/*.yaml
var dataFS embed.FS

//go:embed scripts/*.lua
var scriptsFS embed.FS

// Data returns the embedded YAML tables rooted at their directory.
func Data() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Scripts returns the embedded Lua scripts rooted at their directory.
func Scripts() fs.FS {
	sub, err := fs.Sub(scriptsFS, "scripts")
	if err != nil {
		panic(err)
	}
	return sub
}

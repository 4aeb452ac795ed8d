package ui

import (
	"embed"
	"io/fs"
)

//go:embed public static
var files embed.FS

// Public holds the management page.
func Public() fs.FS {
	return sub("public")
}

// Static holds the page's scripts and styles.
func Static() fs.FS {
	return sub("static")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is embedded above, so this cannot fail
		panic(err)
	}
	return f
}

package htmlview

import (
	"embed"
	"io/fs"
	"path/filepath"
)

// BuiltinNamespace is the namespace that serves the embedded views, for
// example "htmlview:error".
const BuiltinNamespace = "htmlview"

//go:embed views/*.tpl
var embeddedViews embed.FS

// builtinRoot is a virtual directory; the bundle loader maps paths below it
// onto the embedded files.
var builtinRoot = filepath.Join(string(filepath.Separator), "__htmlview__", "views")

// BuiltinViewsFS exposes the embedded views so applications can copy or
// extend them.
//
// Views:
//
//	error       status, title, message
//	namespaces  namespaces: list of {name, path}
func BuiltinViewsFS() fs.FS {
	sub, err := fs.Sub(embeddedViews, "views")
	if err != nil {
		return embeddedViews
	}
	return sub
}

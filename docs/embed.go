// Package docs holds the long-form Markdown guides bundled with the relink
// binary.
package docs

import "embed"

//go:embed guide
var FS embed.FS

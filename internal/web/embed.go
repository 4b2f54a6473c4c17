// ABOUTME: Embeds the browser client's templates, static files and guide
// ABOUTME: Provides the filesystems the web handler reads at startup

package web

import "embed"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed docs/guide.md
var guideMarkdown []byte

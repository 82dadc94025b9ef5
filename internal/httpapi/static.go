package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/app.js static/style.css
var embeddedStatic embed.FS

// newStaticHandler serves the page script and stylesheet. Browsers must
// revalidate so a redeploy never pairs old script with new markup.
func newStaticHandler() http.Handler {
	assets, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return http.NotFoundHandler()
	}
	files := http.FileServer(http.FS(assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}

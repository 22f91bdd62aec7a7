package service

import (
	"html/template"
	"log/slog"
	"net/http"
	"robobadge/internal/components/assert"
	"strings"
)

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head><title>RoboContest Badge Generator</title></head>
<body>
<h1>RoboContest Badge Generator API</h1>
<p>Use <code>/api/badge?username=your_username</code> to get your badge.</p>
<form id="username-form" method="get" action="/">
<input id="username-input" name="username" placeholder="RoboContest username" value="{{.Username}}" required>
<button type="submit">Generate</button>
</form>
{{with .Embed}}
<div id="result-container">
<h2>Markdown</h2>
<pre id="markdown-output">{{.Markdown}}</pre>
<h2>Preview</h2>
<div id="preview-output"><a href="{{.ProfileUrl}}"><img src="{{.BadgeUrl}}" alt="RoboContest Stats Badge"></a></div>
</div>
{{end}}
</body>
</html>`))

type landingData struct {
	Username string
	Embed    *Embed
}

// requestOrigin is the scheme and host the client used to reach this server.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// NewHandler serves badges on GET /api/badge?username=<name> and, on GET /, a page
// that generates the markdown embed for a username. profileOrigin is the robocontest
// site the embed links to.
func NewHandler(svc BadgeService, profileOrigin string) http.Handler {
	assert.NotNil(svc.fetcher, "badge service")
	assert.NotEmptyStr(profileOrigin, "profile origin")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/badge", func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Missing 'username' query parameter"))
			return
		}

		svg, _ := svc.Badge(r.Context(), username)

		header := w.Header()
		header.Set("Content-Type", "image/svg+xml")
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		header.Set("Pragma", "no-cache")
		header.Set("Expires", "0")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(svg))
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		data := landingData{Username: strings.TrimSpace(r.URL.Query().Get("username"))}
		if data.Username != "" {
			embed := NewEmbed(requestOrigin(r), profileOrigin, data.Username)
			data.Embed = &embed
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := landingPage.Execute(w, data)
		if err != nil {
			slog.WarnContext(r.Context(), "render landing page", "err", err)
		}
	})

	return mux
}

// Package badge renders profile statistics as a standalone SVG card.
package badge

import (
	"html"
	"robobadge/internal/profile"
	"robobadge/pkg/htmlutil"
	"strconv"
	"strings"
	"text/template"
)

const (
	Width      = 400
	Height     = 165
	TrackWidth = 360
)

// ErrorCard is shown whenever the statistics could not be determined, its content
// does not depend on the requested user.
const ErrorCard = `<svg xmlns="http://www.w3.org/2000/svg" width="350" height="180"><rect width="100%" height="100%" rx="8" fill="#1d1d1d" /><text x="50%" y="50%" dominant-baseline="middle" text-anchor="middle" font-family="Segoe UI, sans-serif" font-size="16" fill="#ff4545">User not found or error</text></svg>`

const cardMarkup = `<svg width="{{.Width}}" height="{{.Height}}" xmlns="http://www.w3.org/2000/svg">
<style>
.container{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,'Helvetica Neue',Arial,sans-serif;animation:fadeIn .8s ease-in-out}
@keyframes fadeIn{from{opacity:0}to{opacity:1}}
.header{font-size:18px;font-weight:600;fill:#f0f6fc}
.stat-label{font-size:14px;fill:#8b949e}
.stat-value{font-size:24px;font-weight:700;fill:#c9d1d9}
.problems-solved{font-size:16px;font-weight:600;fill:#c9d1d9}
</style>
<rect width="100%" height="100%" rx="8" fill="#0d1117" stroke="#30363d" stroke-width="1"/>
<g class="container" transform="translate(20,20)">
<g transform="translate(0,0)">
<svg x="0" y="0" width="24" height="24" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg"><path fill-rule="evenodd" clip-rule="evenodd" d="M12 2C6.48 2 2 6.48 2 12s4.48 10 10 10 10-4.48 10-10S17.52 2 12 2zM8.5 15.5l-2-2 1.5-1.5 2 2-1.5 1.5zm3.5-6.5c-1.1 0-2 .9-2 2s.9 2 2 2 2-.9 2-2-.9-2-2-2zm5.5 4.5l-2-2 1.5-1.5 2 2-1.5 1.5z" fill="#f0f6fc"/></svg>
<text x="30" y="17" class="header">RoboContest Stats / {{escape .Username}}</text>
</g>
<g transform="translate(0,50)">
<text class="stat-label">Robo Rank</text>
<text y="25" class="stat-value">{{escape .Rank}}</text>
</g>
<g transform="translate(140,50)">
<text class="stat-label">Robo Rating</text>
<text y="25" class="stat-value">{{escape .Rating}}</text>
</g>
<g transform="translate(0,100)">
<text class="problems-solved">Problems Solved</text>
<text x="{{.TrackWidth}}" y="0" text-anchor="end" class="stat-label">{{.Solved}} / {{.Total}}</text>
<rect id="track" y="8" width="{{.TrackWidth}}" height="8" rx="4" fill="#30363d"/>
<rect id="progress" y="8" width="{{.ProgressWidth}}" height="8" rx="4" fill="#2e9a49"/>
</g>
</g>
</svg>`

var cardTemplate = template.Must(
	template.New("card").
		Funcs(template.FuncMap{"escape": escape}).
		Parse(cardMarkup),
)

type cardData struct {
	Width         int
	Height        int
	TrackWidth    int
	Username      string
	Rank          string
	Rating        string
	Solved        int
	Total         int
	ProgressWidth string
}

// escape neutralizes markup-significant characters for both text and attribute
// positions, and drops characters that are not allowed in an XML document.
func escape(s string) string {
	return html.EscapeString(htmlutil.RemoveNonPrintable(s))
}

// ProgressWidth is the pixel width of the progress bar, always within [0, TrackWidth].
func ProgressWidth(solved, total int) float64 {
	percentage := 0.0
	if total > 0 {
		percentage = float64(solved) / float64(total) * 100
	}
	clamped := max(0, min(100, percentage))
	return clamped * (TrackWidth / 100.0)
}

func formatWidth(width float64) string {
	return strconv.FormatFloat(width, 'f', 2, 64)
}

// Render renders a full card for usable results and the error card otherwise.
func Render(res profile.Result) string {
	if !res.Usable() {
		return ErrorCard
	}
	return RenderStats(res.Stats)
}

// RenderStats renders the full card, or the error card if stats has no rank.
func RenderStats(stats profile.ProfileStats) string {
	if !stats.Valid() {
		return ErrorCard
	}

	var out strings.Builder
	err := cardTemplate.Execute(&out, cardData{
		Width:         Width,
		Height:        Height,
		TrackWidth:    TrackWidth,
		Username:      stats.Username,
		Rank:          stats.Rank,
		Rating:        stats.Rating,
		Solved:        stats.Solved,
		Total:         stats.Total,
		ProgressWidth: formatWidth(ProgressWidth(stats.Solved, stats.Total)),
	})
	if err != nil {
		return ErrorCard
	}
	return out.String()
}

package service

import (
	"fmt"
	"net/url"
	"strings"
)

// Embed is the markdown snippet that shows a user's badge, linked to their profile.
type Embed struct {
	BadgeUrl   string
	ProfileUrl string
	Markdown   string
}

// NewEmbed builds the badge and profile urls for username. badgeOrigin is where this
// server is reachable, profileOrigin is the robocontest site.
func NewEmbed(badgeOrigin, profileOrigin, username string) Embed {
	badgeUrl := fmt.Sprintf(
		"%s/api/badge?username=%s",
		strings.TrimRight(badgeOrigin, "/"),
		url.QueryEscape(username),
	)
	profileUrl := fmt.Sprintf(
		"%s/profile/%s",
		strings.TrimRight(profileOrigin, "/"),
		url.PathEscape(username),
	)
	return Embed{
		BadgeUrl:   badgeUrl,
		ProfileUrl: profileUrl,
		Markdown:   fmt.Sprintf("[![RoboContest Stats](%s)](%s)", badgeUrl, profileUrl),
	}
}

package badge

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"robobadge/internal/profile"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var progressWidthAttr = regexp.MustCompile(`id="progress" y="8" width="([^"]*)"`)

func renderedProgress(t testing.TB, svg string) float64 {
	groups := progressWidthAttr.FindStringSubmatch(svg)
	if len(groups) < 2 {
		t.Fatalf("progress bar not found in %s", svg)
	}
	width, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		t.Fatal(err)
	}
	return width
}

func requireWellFormed(t testing.TB, svg string) {
	decoder := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("malformed svg: %v\n%s", err, svg)
		}
	}
}

func completeResult(stats profile.ProfileStats) profile.Result {
	return profile.Result{Status: profile.StatusComplete, Stats: stats}
}

func TestRenderExample(t *testing.T) {
	svg := Render(completeResult(profile.ProfileStats{
		Username: "alice",
		Rank:     "Gold",
		Rating:   "2450",
		Solved:   117,
		Total:    1452,
	}))

	requireWellFormed(t, svg)
	require.Contains(t, svg, `width="400" height="165"`)
	require.Contains(t, svg, "RoboContest Stats / alice")
	require.Contains(t, svg, ">Gold<")
	require.Contains(t, svg, ">2450<")
	require.Contains(t, svg, "117 / 1452")
	require.InDelta(t, TrackWidth*(117.0/1452.0), renderedProgress(t, svg), 0.005)
}

func TestErrorCard(t *testing.T) {
	unavailable := Render(profile.Unavailable("alice", errors.New("timeout")))
	notAvailableRank := Render(profile.Result{
		Status: profile.StatusPartial,
		Stats: profile.ProfileStats{
			Username: "alice",
			Rank:     profile.NotAvailable,
			Rating:   "2450",
			Solved:   1,
			Total:    2,
		},
	})
	otherUser := Render(profile.Unavailable("<bob>", nil))
	direct := RenderStats(profile.Unknown("carol"))

	require.Equal(t, ErrorCard, unavailable)
	require.Equal(t, unavailable, notAvailableRank)
	require.Equal(t, unavailable, otherUser)
	require.Equal(t, unavailable, direct)
	require.Contains(t, ErrorCard, "User not found or error")
	require.Contains(t, ErrorCard, `fill="#ff4545"`)
	requireWellFormed(t, ErrorCard)
}

func TestRenderIgnoresRankOfUnavailableResults(t *testing.T) {
	svg := Render(profile.Result{
		Status: profile.StatusUnavailable,
		Stats:  profile.ProfileStats{Username: "alice", Rank: "Gold", Rating: "2450"},
	})
	require.Equal(t, ErrorCard, svg)
}

func TestProgressWidth(t *testing.T) {
	testCases := []struct {
		solved   int
		total    int
		expected float64
	}{
		{solved: 0, total: 0, expected: 0},
		{solved: 5, total: 0, expected: 0},
		{solved: 0, total: 10, expected: 0},
		{solved: 5, total: 10, expected: 180},
		{solved: 10, total: 10, expected: 360},
		{solved: 30, total: 20, expected: 360},
		{solved: 1, total: 3, expected: 120},
	}

	for _, test := range testCases {
		require.InDelta(t, test.expected, ProgressWidth(test.solved, test.total), 1e-9, "%d / %d", test.solved, test.total)
	}
}

func TestProgressNeverExceedsTrack(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for solved := 0; solved <= 120; solved += 7 {
			svg := RenderStats(profile.ProfileStats{
				Username: "alice",
				Rank:     "1",
				Rating:   "1",
				Solved:   solved,
				Total:    total,
			})
			width := renderedProgress(t, svg)
			require.GreaterOrEqual(t, width, 0.0)
			require.LessOrEqual(t, width, float64(TrackWidth))
		}
	}
}

func TestRenderEscapesInterpolatedText(t *testing.T) {
	svg := RenderStats(profile.ProfileStats{
		Username: `"/><script>alert(1)</script><g a='`,
		Rank:     "Gold & <Silver>",
		Rating:   "24\x0050",
		Solved:   1,
		Total:    2,
	})

	requireWellFormed(t, svg)
	require.NotContains(t, svg, "<script>")
	require.Contains(t, svg, "&lt;script&gt;")
	require.Contains(t, svg, "Gold &amp; &lt;Silver&gt;")
	require.Contains(t, svg, ">2450<")
	require.Equal(t, 1, strings.Count(svg, "<svg width="))
}

func TestRenderDeterministic(t *testing.T) {
	res := completeResult(profile.ProfileStats{
		Username: "alice",
		Rank:     "Gold",
		Rating:   "2450",
		Solved:   117,
		Total:    1452,
	})
	require.Equal(t, Render(res), Render(res))
}

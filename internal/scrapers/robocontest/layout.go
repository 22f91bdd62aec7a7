package robocontest

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// Layout is the declarative description of where the statistics live on a profile page.
// When robocontest changes its markup, this is the only thing that should need updating.
type Layout struct {
	// StatsContainer holds the rank and rating headings.
	StatsContainer string `json:"stats_container"`
	// StatsHeading matches direct children of StatsContainer, the first is the rank,
	// the second is the rating.
	StatsHeading string `json:"stats_heading"`
	// CounterContainer holds the "<solved> / <total>" heading.
	CounterContainer string `json:"counter_container"`
	// CounterHeading matches descendants of CounterContainer, only the first is used.
	CounterHeading string `json:"counter_heading"`
	// NotFoundTitles are case-insensitive substrings of <title> that mark a missing user.
	// They are only consulted on pages where neither container matched. An empty list in a
	// config file is replaced by the defaults, use a marker that never occurs to disable it.
	NotFoundTitles []string `json:"not_found_titles"`
}

// DefaultLayout matches the robocontest.uz profile page.
func DefaultLayout() Layout {
	return Layout{
		StatsContainer:   "div.d-flex.flex-column.align-items-center.mt-4",
		StatsHeading:     "h1",
		CounterContainer: "div.d-flex.flex-row.justify-content-around",
		CounterHeading:   "h3",
		NotFoundTitles:   []string{"404", "not found"},
	}
}

type compiledLayout struct {
	statsContainer   cascadia.Selector
	statsHeading     cascadia.Selector
	counterContainer cascadia.Selector
	counterHeading   cascadia.Selector
	notFoundTitles   []string
}

func compileSelector(field, selector string) (cascadia.Selector, error) {
	if selector == "" {
		return nil, fmt.Errorf("layout: %s is empty", field)
	}
	compiled, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("layout: %s %q: %w", field, selector, err)
	}
	return compiled, nil
}

func (l Layout) compile() (compiledLayout, error) {
	var out compiledLayout
	var err error

	out.statsContainer, err = compileSelector("stats_container", l.StatsContainer)
	if err != nil {
		return compiledLayout{}, err
	}
	out.statsHeading, err = compileSelector("stats_heading", l.StatsHeading)
	if err != nil {
		return compiledLayout{}, err
	}
	out.counterContainer, err = compileSelector("counter_container", l.CounterContainer)
	if err != nil {
		return compiledLayout{}, err
	}
	out.counterHeading, err = compileSelector("counter_heading", l.CounterHeading)
	if err != nil {
		return compiledLayout{}, err
	}

	for _, title := range l.NotFoundTitles {
		if title == "" {
			continue
		}
		out.notFoundTitles = append(out.notFoundTitles, strings.ToLower(title))
	}

	return out, nil
}

package robocontest

import (
	"errors"
	"fmt"
	"regexp"
	"robobadge/internal/components/assert"
	"robobadge/internal/components/telemetry"
	"robobadge/internal/profile"
	"robobadge/pkg/htmlutil"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extractor_extract       = "extractor.extract"
	report_extractor_stats_heading = "extractor.stats-heading"
	report_extractor_counter       = "extractor.counter"
)

var (
	ErrParsePage         = errors.New("could not parse page")
	ErrNotFoundPage      = errors.New("page signals that the user does not exist")
	ErrMissingContainers = errors.New("page has neither a stats container nor a counter container")
	ErrMissingHeadings   = errors.New("fewer than two stats headings")
	ErrMissingCounter    = errors.New("counter heading not found")
	ErrMalformedCounter  = errors.New("counter text does not contain two numbers")
	ErrTraversal         = errors.New("page traversal failed")
)

// Extractor turns a profile page into statistics. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	layout compiledLayout
	tel    telemetry.API
}

func NewExtractor(layout Layout, tel telemetry.API) (Extractor, error) {
	assert.NotNil(tel, "telemetry")

	compiled, err := layout.compile()
	if err != nil {
		return Extractor{}, err
	}
	return Extractor{
		layout: compiled,
		tel:    telemetry.NewScopedAPI("robocontest", tel),
	}, nil
}

// Extract never fails: missing values degrade to profile.NotAvailable or 0 and are listed
// in Result.Issues, a page that cannot be interpreted at all yields an unavailable result.
// The username is echoed back, it is never read from the page.
func (e Extractor) Extract(page, username string) (res profile.Result) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		err := fmt.Errorf("%w: %v", ErrTraversal, recovered)
		e.tel.ReportBroken(report_extractor_extract, err, username)
		res = profile.Unavailable(username, err)
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParsePage, err)
		e.tel.ReportWarning(report_extractor_extract, err, username)
		return profile.Unavailable(username, err)
	}
	return e.extractDocument(doc, username)
}

func (e Extractor) extractDocument(doc *goquery.Document, username string) profile.Result {
	statsContainers := doc.FindMatcher(e.layout.statsContainer)
	counterContainers := doc.FindMatcher(e.layout.counterContainer)
	if statsContainers.Length() == 0 && counterContainers.Length() == 0 {
		// the title is only trusted once the page has no statistics, usernames
		// like "coder404" end up in the title of real profiles
		if e.signalsNotFound(doc) {
			e.tel.ReportDebug("not found page", username)
			return profile.Unavailable(username, ErrNotFoundPage)
		}
		e.tel.ReportWarning(report_extractor_extract, ErrMissingContainers, username)
		return profile.Unavailable(username, ErrMissingContainers)
	}

	res := profile.Result{
		Status: profile.StatusComplete,
		Stats:  profile.Unknown(username),
	}
	degrade := func(id string, err error) {
		e.tel.ReportWarning(id, err, username)
		res.Status = profile.StatusPartial
		res.Issues = append(res.Issues, err)
	}

	rank, rating, err := e.rankAndRating(statsContainers)
	if err != nil {
		degrade(report_extractor_stats_heading, err)
	} else {
		res.Stats.Rank = rank
		res.Stats.Rating = rating
	}

	solved, total, err := e.counter(counterContainers)
	if err != nil {
		degrade(report_extractor_counter, err)
	} else {
		res.Stats.Solved = solved
		res.Stats.Total = total
	}

	return res
}

func (e Extractor) signalsNotFound(doc *goquery.Document) bool {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return false
	}
	text := strings.ToLower(htmlutil.NormalizeText(title.Text()))
	for _, marker := range e.layout.notFoundTitles {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func (e Extractor) rankAndRating(containers *goquery.Selection) (string, string, error) {
	headings := containers.ChildrenMatcher(e.layout.statsHeading)
	if headings.Length() < 2 {
		return "", "", fmt.Errorf("%w: found %d", ErrMissingHeadings, headings.Length())
	}
	rank := htmlutil.NormalizeText(htmlutil.GetText(headings.Get(0)))
	rating := htmlutil.NormalizeText(htmlutil.GetText(headings.Get(1)))
	return rank, rating, nil
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// parseCounter reads the first two digit runs of text as solved and total.
func parseCounter(text string) (int, int, error) {
	runs := digitRun.FindAllString(text, 2)
	if len(runs) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCounter, text)
	}
	solved, err := strconv.Atoi(runs[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedCounter, err)
	}
	total, err := strconv.Atoi(runs[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedCounter, err)
	}
	return solved, total, nil
}

func (e Extractor) counter(containers *goquery.Selection) (int, int, error) {
	heading := containers.FindMatcher(e.layout.counterHeading).First()
	if heading.Length() == 0 {
		return 0, 0, ErrMissingCounter
	}
	return parseCounter(htmlutil.GetText(heading.Get(0)))
}

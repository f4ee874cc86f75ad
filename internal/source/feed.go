package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/ita-data/trade-events-aggregator/internal/assemble"
	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// feedOrigin maps the eMenu XML tag names onto the canonical Event shape.
// The feed is the only origin with a native cost and registration fields.
var feedOrigin = assemble.Origin{
	Name:        "feed",
	DateLayouts: []string{"01/02/2006"},
	ParseCost:   true,
	Fields: assemble.FieldMap{
		EventID:  "eventid",
		Name:     "eventname",
		Desc:     "detaildesc",
		Type:     "eventtype",
		URL:      "url",
		RegLink:  "registrationlink",
		RegTitle: "registrationtitle",
		Start:    "evstartdt",
		End:      "evenddt",
		Cost:     "cost",
		Contact: assemble.ContactFields{
			First: "firstname",
			Last:  "lastname",
			Title: "title",
			Phone: "phone",
			Post:  "post",
			Email: "email",
		},
		Venue: assemble.VenueFields{
			City:     "city",
			State:    "state",
			Country:  "country",
			Location: "location",
		},
	},
}

const feedDateFormat = "01/02/2006"

// FeedSource fetches the public eMenu XML feed. The endpoint is a template
// with two %s placeholders for the StartDT and EndDT window parameters.
type FeedSource struct {
	endpoint  string
	client    *http.Client
	assembler *assemble.Assembler
	now       func() time.Time
}

// NewFeedSource creates the feed adapter for the given endpoint template.
func NewFeedSource(endpoint string) *FeedSource {
	return &FeedSource{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: 30 * time.Second},
		assembler: assemble.New(feedOrigin),
		now:       time.Now,
	}
}

func (s *FeedSource) Name() string { return "feed" }

// Fetch retrieves every event in the window from tomorrow through four years
// ahead and assembles each eventinfo block into an Event, in feed order.
func (s *FeedSource) Fetch(ctx context.Context) ([]models.Event, error) {
	today := s.now()
	start := today.AddDate(0, 0, 1).Format(feedDateFormat)
	end := today.AddDate(4, 0, 0).Format(feedDateFormat)
	endpoint := fmt.Sprintf(s.endpoint, start, end)

	log.Info().Str("window_start", start).Str("window_end", end).Msg("Fetching XML feed of events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	events, err := s.parse(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Info().Int("count", len(events)).Msg("Assembled feed events")
	return events, nil
}

// parse reads the poorly formed feed XML with the tolerant HTML parser and
// assembles every eventinfo block found under eventlist.
func (s *FeedSource) parse(r io.Reader) ([]models.Event, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed markup: %w", err)
	}

	list := findElement(doc, "eventlist")
	if list == nil {
		return nil, fmt.Errorf("feed markup has no eventlist element")
	}

	events := []models.Event{}
	for _, item := range findElements(list, "eventinfo") {
		event, err := s.assembler.Build(&feedRecord{node: item})
		if err != nil {
			return nil, fmt.Errorf("feed record %d: %w", len(events), err)
		}
		events = append(events, event)
	}
	return events, nil
}

// feedRecord adapts one eventinfo (or nested contact/stop) element to the
// assembly Record interface. Plain tag lookups never report absent: a
// missing tag reads as empty text, matching the feed extractor contract.
// The url attribute lookup is the exception, since it has no text node.
type feedRecord struct {
	node *html.Node
}

func (r *feedRecord) Field(name string) (string, bool) {
	if name == "url" {
		return r.websiteURL()
	}
	el := findElement(r.node, name)
	if el == nil {
		return "", true
	}
	return textContent(el), true
}

func (r *feedRecord) Contacts() []assemble.Record {
	var contacts []assemble.Record
	for _, el := range findElements(r.node, "contact") {
		contacts = append(contacts, &feedRecord{node: el})
	}
	return contacts
}

func (r *feedRecord) Venues() []assemble.Record {
	var venues []assemble.Record
	for _, el := range findElements(r.node, "stop") {
		venues = append(venues, &feedRecord{node: el})
	}
	return venues
}

func (r *feedRecord) Industries() []string {
	industries := []string{}
	for _, el := range findElements(r.node, "industry") {
		industries = append(industries, textContent(el))
	}
	return industries
}

// websiteURL reads the url attribute of the website element nested under
// websites. Unlike text tags this is absent when the block is missing.
func (r *feedRecord) websiteURL() (string, bool) {
	sites := findElement(r.node, "websites")
	if sites == nil {
		return "", false
	}
	site := findElement(sites, "website")
	if site == nil {
		return "", false
	}
	for _, attr := range site.Attr {
		if attr.Key == "url" {
			return attr.Val, true
		}
	}
	return "", false
}

// findElement returns the first descendant element with the given tag name,
// depth first, excluding the root itself.
func findElement(root *html.Node, name string) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			return c
		}
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// findElements returns every descendant element with the given tag name in
// document order.
func findElements(root *html.Node, name string) []*html.Node {
	var found []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			found = append(found, c)
			continue
		}
		found = append(found, findElements(c, name)...)
	}
	return found
}

// textContent concatenates every text node under the element.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

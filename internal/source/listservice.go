package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ita-data/trade-events-aggregator/internal/assemble"
	"github.com/ita-data/trade-events-aggregator/internal/models"
	"github.com/ita-data/trade-events-aggregator/internal/secrets"
)

// listOrigin maps the list-service item fields. Same partner program as the
// spreadsheet export, different field names, and a native revision tag that
// serves as the event id.
var listOrigin = assemble.Origin{
	Name:             "listservice",
	DateLayouts:      []string{"2006-01-02T15:04:05Z", "2006-01-02 15:04:05"},
	EventTypeLiteral: "Trade Events Partnership Program",
	IDFromRevision:   true,
	AllowedStatuses: []string{
		"MOA Received",
		"Waiting on End of Show Report",
		"Event Completed",
	},
	Fields: assemble.FieldMap{
		EventID: listETagField,
		Name:    "Title",
		Desc:    "ShowDescription",
		URL:     "ShowWebsite",
		Start:   "EventStartDate",
		End:     "EventEndDate",
		Status:  "Status",
		Contact: assemble.ContactFields{
			Combined: "ContactName",
			Phone:    "ContactPhoneNumber",
			Post:     "OrganizationCity",
			Email:    "ContactEmail",
		},
		Venue: assemble.VenueFields{
			City:    "EventCity",
			State:   "EventState",
			Country: "EventCountry",
		},
	},
}

const (
	listETagField      = "@odata.etag"
	listIndustryField  = "PrimaryIndustry"
	clientSecretSecret = "LIST_CLIENT_SECRET"
)

// ListServiceConfig carries the endpoints and client identity for the
// authenticated list API. The client secret is pulled from the secret
// source fresh on every fetch.
type ListServiceConfig struct {
	ItemsURL string
	TokenURL string
	ClientID string
	Scope    string
}

// ListServiceSource fetches partner-program events from the paginated list
// API using a bearer token obtained via the client-credentials flow.
type ListServiceSource struct {
	cfg       ListServiceConfig
	secrets   secrets.Source
	client    *http.Client
	assembler *assemble.Assembler
}

// NewListServiceSource creates the list-service adapter.
func NewListServiceSource(cfg ListServiceConfig, sec secrets.Source) *ListServiceSource {
	return &ListServiceSource{
		cfg:       cfg,
		secrets:   sec,
		client:    &http.Client{Timeout: 30 * time.Second},
		assembler: assemble.New(listOrigin),
	}
}

func (s *ListServiceSource) Name() string { return "listservice" }

// Fetch authenticates, walks every page of the item list and assembles the
// permitted records in the order the service delivered them.
func (s *ListServiceSource) Fetch(ctx context.Context) ([]models.Event, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	events := []models.Event{}
	next := s.cfg.ItemsURL
	for next != "" {
		page, err := s.page(ctx, next, token)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Value {
			rec := &listRecord{etag: item.ETag, fields: item.Fields}
			if !listOrigin.StatusAllowed(rec) {
				continue
			}
			event, err := s.assembler.Build(rec)
			if err != nil {
				return nil, fmt.Errorf("list item %s: %w", item.ETag, err)
			}
			events = append(events, event)
		}
		next = page.NextLink
	}

	log.Info().Int("count", len(events)).Msg("Assembled list-service events")
	return events, nil
}

// token performs the client-credentials exchange against the token endpoint.
func (s *ListServiceSource) token(ctx context.Context) (string, error) {
	secret, err := s.secrets.Get(ctx, clientSecretSecret)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve client secret: %w", err)
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {secret},
	}
	if s.cfg.Scope != "" {
		form.Set("scope", s.cfg.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}
	return tokenResp.AccessToken, nil
}

type listPage struct {
	Value []struct {
		ETag   string         `json:"@odata.etag"`
		Fields map[string]any `json:"fields"`
	} `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

func (s *ListServiceSource) page(ctx context.Context, pageURL, token string) (*listPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list service returned status %d: %s", resp.StatusCode, body)
	}

	var page listPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode list page: %w", err)
	}
	return &page, nil
}

// listRecord adapts one list item. Field values arrive as loosely typed
// JSON; anything null or missing reads as structurally absent.
type listRecord struct {
	etag   string
	fields map[string]any
}

func (r *listRecord) Field(name string) (string, bool) {
	if name == listETagField {
		if r.etag == "" {
			return "", false
		}
		return r.etag, true
	}
	raw, ok := r.fields[name]
	if !ok || raw == nil {
		return "", false
	}
	var v string
	switch t := raw.(type) {
	case string:
		v = strings.TrimSpace(t)
	case float64:
		v = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		v = strconv.FormatBool(t)
	default:
		v = fmt.Sprint(t)
	}
	if v == "" {
		return "", false
	}
	return v, true
}

func (r *listRecord) Contacts() []assemble.Record { return []assemble.Record{r} }
func (r *listRecord) Venues() []assemble.Record   { return []assemble.Record{r} }

func (r *listRecord) Industries() []string {
	if v, ok := r.Field(listIndustryField); ok {
		return []string{v}
	}
	return []string{}
}

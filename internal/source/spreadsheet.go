package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/ita-data/trade-events-aggregator/internal/assemble"
	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// Columns of the TEPP spreadsheet export. The header row is read once per
// run into a name-to-index map; every cell lookup goes through that map.
var teppOrigin = assemble.Origin{
	Name:             "spreadsheet",
	DateLayouts:      []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z"},
	EventTypeLiteral: "Trade Events Partnership Program",
	AllowedStatuses: []string{
		"MOA Received",
		"Waiting on End of Show Report",
		"Event Completed",
	},
	Fields: assemble.FieldMap{
		Name:   "Event Name",
		Desc:   "Show Description",
		URL:    "Show Website",
		Start:  "Event Start Date",
		End:    "Event End Date",
		Status: "Status",
		Contact: assemble.ContactFields{
			Combined: "Contact Name (First and Last)",
			Phone:    "Contact Phone Number",
			Post:     "City (Organization)",
			Email:    "Contact Email",
		},
		Venue: assemble.VenueFields{
			City:    "Event Location - City",
			State:   "Event Location - State (U.S. Only)",
			Country: "Event Location - Country",
		},
	},
}

const teppIndustryColumn = "Primary Industry"

// BlobGetter fetches a raw object from the store. Satisfied by the MinIO
// object store.
type BlobGetter interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// SpreadsheetSource reads the TEPP export workbook from the object store and
// assembles one Event per permitted row.
type SpreadsheetSource struct {
	blobs     BlobGetter
	objectKey string
	assembler *assemble.Assembler
}

// NewSpreadsheetSource creates the spreadsheet adapter reading the workbook
// at the given object key.
func NewSpreadsheetSource(blobs BlobGetter, objectKey string) *SpreadsheetSource {
	return &SpreadsheetSource{
		blobs:     blobs,
		objectKey: objectKey,
		assembler: assemble.New(teppOrigin),
	}
}

func (s *SpreadsheetSource) Name() string { return "spreadsheet" }

// Fetch downloads the workbook, builds the header map from row 1 and
// assembles an Event from every data row whose status is permitted.
func (s *SpreadsheetSource) Fetch(ctx context.Context) ([]models.Event, error) {
	blob, err := s.blobs.GetObject(ctx, s.objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet %s: %w", s.objectKey, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %s is empty", sheets[0])
	}

	headers := headerIndex(rows[0])

	events := []models.Event{}
	for i, cells := range rows[1:] {
		rec := &rowRecord{cells: cells, headers: headers}
		if !teppOrigin.StatusAllowed(rec) {
			continue
		}
		event, err := s.assembler.Build(rec)
		if err != nil {
			return nil, fmt.Errorf("spreadsheet row %d: %w", i+2, err)
		}
		events = append(events, event)
	}

	log.Info().Int("count", len(events)).Str("object_key", s.objectKey).Msg("Assembled spreadsheet events")
	return events, nil
}

// headerIndex maps header-row cell text to its column index.
func headerIndex(header []string) map[string]int {
	headers := make(map[string]int, len(header))
	for i, name := range header {
		if name = strings.TrimSpace(name); name != "" {
			headers[name] = i
		}
	}
	return headers
}

// rowRecord adapts one worksheet row. An unknown column or an empty cell
// both read as structurally absent, matching the export's habit of leaving
// unused cells blank rather than carrying explicit empty strings.
type rowRecord struct {
	cells   []string
	headers map[string]int
}

func (r *rowRecord) Field(name string) (string, bool) {
	idx, ok := r.headers[name]
	if !ok || idx >= len(r.cells) {
		return "", false
	}
	v := strings.TrimSpace(r.cells[idx])
	if v == "" {
		return "", false
	}
	return v, true
}

// One row models exactly one contact and one venue.
func (r *rowRecord) Contacts() []assemble.Record { return []assemble.Record{r} }
func (r *rowRecord) Venues() []assemble.Record   { return []assemble.Record{r} }

func (r *rowRecord) Industries() []string {
	if v, ok := r.Field(teppIndustryColumn); ok {
		return []string{v}
	}
	return []string{}
}

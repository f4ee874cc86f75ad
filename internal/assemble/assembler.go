package assemble

import (
	"fmt"
	"strconv"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// Assembler builds canonical Events from the records of one origin. The same
// assembly path serves every origin; only the Origin mapping differs.
type Assembler struct {
	origin Origin
}

// New returns an assembler for the given origin.
func New(origin Origin) *Assembler {
	return &Assembler{origin: origin}
}

// Build assembles one Event from one raw record. Missing fields resolve to
// null per the field map; a present-but-malformed date or cost fails the
// whole record — no partially assembled Event is ever returned.
func (a *Assembler) Build(rec Record) (models.Event, error) {
	f := a.origin.Fields

	event := models.Event{
		EventName:         optional(rec, f.Name),
		DetailDesc:        optional(rec, f.Desc),
		URL:               optional(rec, f.URL),
		RegistrationLink:  optional(rec, f.RegLink),
		RegistrationTitle: optional(rec, f.RegTitle),
		EventType:         a.eventType(rec),
	}

	var err error
	if event.StartDate, err = a.normalized(rec, f.Start); err != nil {
		return models.Event{}, fmt.Errorf("start date: %w", err)
	}
	if event.EndDate, err = a.normalized(rec, f.End); err != nil {
		return models.Event{}, fmt.Errorf("end date: %w", err)
	}

	if a.origin.ParseCost {
		raw, ok := rec.Field(f.Cost)
		if !ok {
			return models.Event{}, fmt.Errorf("record has no %s field", f.Cost)
		}
		cost, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Event{}, fmt.Errorf("cost %q: %w", raw, err)
		}
		event.Cost = &cost
	}

	event.Contacts = []models.Contact{}
	for _, sub := range rec.Contacts() {
		event.Contacts = append(event.Contacts, buildContact(sub, f.Contact))
	}
	event.Venues = []models.Venue{}
	for _, sub := range rec.Venues() {
		event.Venues = append(event.Venues, buildVenue(sub, f.Venue))
	}
	event.Industries = rec.Industries()
	if event.Industries == nil {
		event.Industries = []string{}
	}

	if event.EventID, err = a.eventID(rec, event); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (a *Assembler) eventType(rec Record) *string {
	if a.origin.EventTypeLiteral != "" {
		label := a.origin.EventTypeLiteral
		return &label
	}
	return optional(rec, a.origin.Fields.Type)
}

// normalized turns a date field into its canonical YYYY-MM-DD form: nil when
// the source carries no value, an error when the value does not parse.
func (a *Assembler) normalized(rec Record, field string) (*string, error) {
	if field == "" {
		return nil, nil
	}
	raw, ok := rec.Field(field)
	if !ok {
		return nil, nil
	}
	date, err := NormalizeDate(raw, a.origin.DateLayouts...)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func (a *Assembler) eventID(rec Record, event models.Event) (string, error) {
	f := a.origin.Fields
	if f.EventID != "" {
		id, ok := rec.Field(f.EventID)
		if !ok || id == "" {
			return "", fmt.Errorf("record has no %s field", f.EventID)
		}
		if a.origin.IDFromRevision {
			return RevisionID(id), nil
		}
		return id, nil
	}

	// No native id: hash the identifying content. City comes from the
	// venue mapping since the key inputs include the event city.
	city := optional(rec, f.Venue.City)
	return ContentID(event.EventName, event.StartDate, event.EndDate, city), nil
}

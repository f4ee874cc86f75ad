package assemble

import (
	"strings"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// buildContact extracts one contact from a contact-bearing sub-record. With a
// combined name field the text before the first space is the first name and
// the trimmed remainder is the last name; a name with no space keeps the
// whole text as first name and an empty last name. A structurally absent
// combined field leaves both names nil.
func buildContact(rec Record, cf ContactFields) models.Contact {
	contact := models.Contact{
		Title: optional(rec, cf.Title),
		Phone: optional(rec, cf.Phone),
		Post:  optional(rec, cf.Post),
		Email: optional(rec, cf.Email),
	}

	if cf.Combined != "" {
		if name, ok := rec.Field(cf.Combined); ok {
			first, last, _ := strings.Cut(name, " ")
			last = strings.TrimSpace(last)
			contact.FirstName = &first
			contact.LastName = &last
		}
		return contact
	}

	contact.FirstName = optional(rec, cf.First)
	contact.LastName = optional(rec, cf.Last)
	return contact
}

// buildVenue extracts one venue. Origins without a combined location field
// get one synthesized by joining the non-empty subset of city, state and
// country with ", " in that order.
func buildVenue(rec Record, vf VenueFields) models.Venue {
	venue := models.Venue{
		City:    optional(rec, vf.City),
		State:   optional(rec, vf.State),
		Country: optional(rec, vf.Country),
	}

	if vf.Location != "" {
		venue.Location = optional(rec, vf.Location)
		return venue
	}

	location := joinLocation(venue.City, venue.State, venue.Country)
	venue.Location = &location
	return venue
}

// joinLocation renders a free-text location label from the non-empty subset
// of its parts.
func joinLocation(parts ...*string) string {
	var kept []string
	for _, p := range parts {
		if p != nil && *p != "" {
			kept = append(kept, *p)
		}
	}
	return strings.Join(kept, ", ")
}

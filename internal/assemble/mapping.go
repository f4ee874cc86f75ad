package assemble

// ContactFields names the source fields for one contact. Origins that store
// a single "First Last" value set Combined and leave First/Last empty; the
// builder splits on the first space.
type ContactFields struct {
	Combined string
	First    string
	Last     string
	Title    string
	Phone    string
	Post     string
	Email    string
}

// VenueFields names the source fields for one venue. When Location is empty
// the builder synthesizes it from the non-empty subset of city/state/country.
type VenueFields struct {
	City     string
	State    string
	Country  string
	Location string
}

// FieldMap names every event-level source field for one origin. An empty
// name means the origin has no such field and the attribute stays null.
type FieldMap struct {
	EventID  string
	Name     string
	Desc     string
	Type     string
	URL      string
	RegLink  string
	RegTitle string
	Start    string
	End      string
	Cost     string
	Status   string
	Contact  ContactFields
	Venue    VenueFields
}

// Origin describes one upstream source variant: its field-name mapping plus
// the handful of per-origin policies the assembler needs.
type Origin struct {
	Name        string
	Fields      FieldMap
	DateLayouts []string

	// EventTypeLiteral overrides Fields.Type with a fixed label. The two
	// partner-program variants carry no usable type field of their own.
	EventTypeLiteral string

	// IDFromRevision derives the event id from a revision tag instead of
	// using Fields.EventID verbatim.
	IDFromRevision bool

	// ParseCost reads Fields.Cost as a float. Origins without it publish
	// cost as null unconditionally.
	ParseCost bool

	// AllowedStatuses restricts records to the listed lifecycle states.
	// Empty means no filtering.
	AllowedStatuses []string
}

// StatusAllowed reports whether the record passes the origin's status
// allow-list. Records that fail are skipped silently, not treated as errors.
func (o Origin) StatusAllowed(rec Record) bool {
	if len(o.AllowedStatuses) == 0 {
		return true
	}
	status, ok := rec.Field(o.Fields.Status)
	if !ok {
		return false
	}
	for _, allowed := range o.AllowedStatuses {
		if status == allowed {
			return true
		}
	}
	return false
}

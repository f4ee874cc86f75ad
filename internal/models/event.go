package models

// Event is the normalized representation published for every trade event,
// regardless of which upstream source it came from. JSON keys match the
// document consumed downstream.
type Event struct {
	EventID           string    `json:"eventid"`
	EventName         *string   `json:"eventname"`
	DetailDesc        *string   `json:"detaildesc"`
	EventType         *string   `json:"eventtype"`
	URL               *string   `json:"url"`
	RegistrationLink  *string   `json:"registrationlink"`
	RegistrationTitle *string   `json:"registrationtitle"`
	StartDate         *string   `json:"evstartdt"`
	EndDate           *string   `json:"evenddt"`
	Cost              *float64  `json:"cost"`
	Contacts          []Contact `json:"contacts"`
	Venues            []Venue   `json:"venues"`
	Industries        []string  `json:"industries"`
}

// Contact is one point of contact for an event. Every field is optional;
// a missing source field stays nil.
type Contact struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Title     *string `json:"title"`
	Phone     *string `json:"phone"`
	Post      *string `json:"post"`
	Email     *string `json:"email"`
}

// Venue is where an event takes place. Location is either supplied by the
// source or synthesized from city/state/country.
type Venue struct {
	City     *string `json:"city"`
	State    *string `json:"state"`
	Country  *string `json:"country"`
	Location *string `json:"location"`
}

package models

// Participant is a named holder of a percentage share.
type Participant struct {
	// ID is assigned by the store on creation and never changes.
	ID int64 `json:"id_participant"`

	// FirstName and LastName identify the participant for display.
	// The pair is unique case-insensitively.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Percentage is the share held, in [0, 100].
	Percentage float64 `json:"percentage"`
}

// Summary is the full participant list plus the quota not yet allocated.
type Summary struct {
	Participants []Participant `json:"participants"`
	Remaining    float64       `json:"remaining"`
}

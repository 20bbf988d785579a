package domain

// User holds a subscriber's delivery preferences and cooldown state.
type User struct {
	ID          int64
	PhoneNumber string
	CreatedAt   string
	// LastDigestAt is the stored instant of the last successful delivery,
	// carried verbatim so a corrupt value can be tolerated downstream.
	// Nil until the first digest is sent.
	LastDigestAt *string
	DaysNotice   int    // notice period in days, validated to 1..14 at the settings boundary
	SendHour     int    // local hour of delivery, validated to 0..23 at the settings boundary
	IANATZ       string // IANA time zone identifier
}

// Reminder is one tracked birthday.
type Reminder struct {
	ID     int64
	UserID int64
	Name   string
	// Birthdate is a UTC epoch-millisecond timestamp. Its date component,
	// read in UTC, is the authoritative birth date; the time of day is
	// always midnight and carries no meaning.
	Birthdate int64
	CreatedAt string
	UpdatedAt string
}

// Candidate is an upcoming birthday resolved against a reference instant.
// It lives only within one digest pass.
type Candidate struct {
	Name       string
	DaysUntil  int
	AgeTurning int
}

// OutboundMessage is one composed digest ready for an SMS transport.
type OutboundMessage struct {
	UserID      int64
	PhoneNumber string
	Body        string
}

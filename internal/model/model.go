// Package model defines the core domain types for the wedding event catalog.
package model

import "time"

// DateLayout is the layout of WeddingEvent.Date and the filter bounds.
const DateLayout = "2006-01-02"

// User is an account holder. Passwords are kept as entered.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeddingEvent is a destination wedding open for attendee registration.
type WeddingEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CoupleName    string    `json:"coupleName"`
	Location      string    `json:"location"`
	Country       string    `json:"country"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Venue         string    `json:"venue"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	MaxGuests     int       `json:"maxGuests"`
	CurrentGuests int       `json:"currentGuests"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Features      []string  `json:"features"`
	Dresscode     string    `json:"dresscode"`
	CoupleStory   string    `json:"coupleStory"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Remaining returns the number of available places.
func (e *WeddingEvent) Remaining() int {
	if n := e.MaxGuests - e.CurrentGuests; n > 0 {
		return n
	}
	return 0
}

// IsFull returns true when no places remain.
func (e *WeddingEvent) IsFull() bool {
	return e.CurrentGuests >= e.MaxGuests
}

// Day parses Date. The second return is false for malformed dates.
func (e *WeddingEvent) Day() (time.Time, bool) {
	d, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// RegistrationStatus is the lifecycle state of a Registration.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusCancelled  RegistrationStatus = "cancelled"
)

// Registration records one user's intent to attend one event.
type Registration struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	EventID      string             `json:"eventId"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registeredAt"`
	Notes        string             `json:"notes,omitempty"`
}

// Active reports whether the registration currently holds a place.
func (r *Registration) Active() bool {
	return r.Status == StatusRegistered
}

// FilterOptions narrows the catalog. Empty fields do not filter.
type FilterOptions struct {
	Search   string `json:"search,omitempty"`
	Location string `json:"location,omitempty"`
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

// NoticeVariant selects how a notice is rendered.
type NoticeVariant string

const (
	NoticeDefault     NoticeVariant = "default"
	NoticeDestructive NoticeVariant = "destructive"
)

// Notice is a user-facing success or failure banner.
type Notice struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Variant     NoticeVariant `json:"variant"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NotificationOptions is the payload of a system notification.
type NotificationOptions struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

// SessionState is the snapshot exposed by the session manager.
type SessionState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsLoading       bool  `json:"isLoading"`
}

// Dashboard summarises a user's registrations.
type Dashboard struct {
	Registrations      []Registration `json:"registrations"`
	RegisteredEvents   []WeddingEvent `json:"registeredEvents"`
	Upcoming           []WeddingEvent `json:"upcoming"`
	Past               []WeddingEvent `json:"past"`
	TotalRegistrations int            `json:"totalRegistrations"`
	UniqueCountries    int            `json:"uniqueCountries"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
